package services

import (
	"errors"
	"time"

	"qbit-secure/internal/config"
	"qbit-secure/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrHashFormat         = errors.New("malformed password digest")
)

// AuthService is the single source of truth for registration, login,
// logout and session checks.
type AuthService struct {
	cfg    *config.Config
	tokens *TokenService
	audit  *SecurityLogService
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:    cfg,
		tokens: NewTokenService(cfg),
		audit:  NewSecurityLogService(),
	}
}

// Tokens exposes the token codec for callers that only need verification.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	cost := s.cfg.Security.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword compares a password against a stored digest. A mismatch is
// (false, nil); only an unparseable digest is an error.
func (s *AuthService) CheckPassword(hashedPassword, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrHashFormat
	}
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	ok, err := s.CheckPassword(hashedPassword, password)
	return err == nil && ok
}

// Register creates a new user account. The returned user never carries the
// password hash.
func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	var existingUser models.User
	if err := models.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := models.DB.Create(user).Error; err != nil {
		return nil, err
	}

	s.audit.Append(&user.ID, models.EventAuthentication, "User registered", models.SeverityInfo, "", nil)

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies credentials and returns the user
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := models.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Login authenticates the user, issues a signed token and persists the
// matching session row. Writes are sequential: session first, audit second.
func (s *AuthService) Login(email, password, ipAddress string) (*models.User, string, time.Time, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := s.CreateSession(user.ID, token, expiresAt); err != nil {
		return nil, "", time.Time{}, err
	}

	s.audit.Append(&user.ID, models.EventAuthentication, "User logged in", models.SeverityInfo, ipAddress, nil)

	user.PasswordHash = ""
	return user, token, expiresAt, nil
}

// Status verifies the token and cross-checks the session store, returning
// the subject's user ID. Read-only: the session is not refreshed.
func (s *AuthService) Status(token string) (uint, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}

	var session models.Session
	err = models.DB.
		Where("token = ? AND user_id = ? AND expires_at > ?", token, claims.UserID, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	return session.UserID, nil
}

// Logout deletes the sessions bound to the token. Idempotent: an
// unverifiable token or a missing session row is not an error, because the
// caller clears the cookie regardless.
func (s *AuthService) Logout(token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.DeleteSession(claims.UserID, token); err != nil {
		return err
	}

	s.audit.Append(&claims.UserID, models.EventAuthentication, "User logged out", models.SeverityInfo, "", nil)
	return nil
}

// CreateSession creates a new session record
func (s *AuthService) CreateSession(userID uint, token string, expiresAt time.Time) error {
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return models.DB.Create(session).Error
}

// GetSession retrieves a non-expired session by token
func (s *AuthService) GetSession(token string) (*models.Session, error) {
	var session models.Session
	if err := models.DB.Where("token = ? AND expires_at > ?", token, time.Now()).Preload("User").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeleteSession deletes all session rows matching the user and token
func (s *AuthService) DeleteSession(userID uint, token string) error {
	return models.DB.Where("user_id = ? AND token = ?", userID, token).Delete(&models.Session{}).Error
}

// DeleteExpiredSessions removes expired sessions
func (s *AuthService) DeleteExpiredSessions() error {
	return models.DB.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}
