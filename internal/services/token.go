package services

import (
	"errors"
	"time"

	"qbit-secure/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid covers every verification failure: bad signature, wrong
// signing method, malformed encoding, or an expired claim. Callers never
// learn which one.
var ErrTokenInvalid = errors.New("token invalid")

// SessionClaims binds a token to a user identity.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

// TTL returns the configured token lifetime, defaulting to 7 days.
func (s *TokenService) TTL() time.Duration {
	ttl, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return ttl
}

// Issue signs a token for the user. The jti claim keeps two logins in the
// same second from producing identical tokens, which would collide on the
// session table's unique token index.
func (s *TokenService) Issue(userID uint, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.TTL())

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.JWT.Issuer,
			ID:        uuid.NewString(),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify parses and validates a token, all-or-nothing.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
