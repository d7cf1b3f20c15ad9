package services

import (
	"testing"
	"time"

	"qbit-secure/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTestConfig(secret string) *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:    secret,
			ExpiresIn: "168h",
			Issuer:    "qbit-secure-test",
		},
	}
}

func TestTokenIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService(tokenTestConfig("test-secret"))

	token, expiresAt, err := svc.Issue(42, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestTokenIssueUniquePerCall(t *testing.T) {
	svc := NewTokenService(tokenTestConfig("test-secret"))

	first, _, err := svc.Issue(1, "a@x.com")
	require.NoError(t, err)
	second, _, err := svc.Issue(1, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenVerifyRejectsTampered(t *testing.T) {
	svc := NewTokenService(tokenTestConfig("test-secret"))

	token, _, err := svc.Issue(1, "a@x.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService(tokenTestConfig("right-secret"))
	verifier := NewTokenService(tokenTestConfig("wrong-secret"))

	token, _, err := issuer.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenVerifyRejectsMalformed(t *testing.T) {
	svc := NewTokenService(tokenTestConfig("test-secret"))

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(bad)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	cfg := tokenTestConfig("test-secret")
	svc := NewTokenService(cfg)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    cfg.JWT.Issuer,
		},
		UserID: 1,
		Email:  "a@x.com",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = svc.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenVerifyRejectsMissingSubject(t *testing.T) {
	cfg := tokenTestConfig("test-secret")
	svc := NewTokenService(cfg)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@x.com",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
