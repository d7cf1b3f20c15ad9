package handlers

import (
	"errors"
	"log"

	"qbit-secure/internal/config"
	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetSessionCookie attaches the session cookie to the response. Secure is
// only set in release mode so local development over plain HTTP works.
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	secure := cfg.Server.Mode == "release"
	c.SetCookie(cfg.Session.CookieName, token, 7*24*60*60, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	secure := cfg.Server.Mode == "release"
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", secure, true)
}

// Register handles account creation
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Name, email, and password are required"})
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(409, gin.H{"error": "User with this email already exists"})
			return
		}
		log.Printf("registration error: %v", err)
		c.JSON(500, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(200, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user login and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Email and password are required"})
		return
	}

	user, token, _, err := h.authService.Login(req.Email, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("login error: %v", err)
		c.JSON(500, gin.H{"error": "Failed to log in"})
		return
	}

	SetSessionCookie(c, h.cfg, token)

	c.JSON(200, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

// Status reports whether the caller holds a valid session. Read-only: the
// session is not refreshed.
func (h *AuthHandler) Status(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Session.CookieName)
	if err != nil || token == "" {
		c.JSON(401, gin.H{"isAuthenticated": false, "error": "No session cookie"})
		return
	}

	userID, err := h.authService.Status(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrSessionNotFound):
			// log-only distinction, caller sees one generic kind
			log.Printf("auth status rejected: %v", err)
			ClearSessionCookie(c, h.cfg)
			c.JSON(401, gin.H{"isAuthenticated": false, "error": "Invalid session"})
		default:
			log.Printf("auth status error: %v", err)
			c.JSON(500, gin.H{"isAuthenticated": false, "error": "Internal server error"})
		}
		return
	}

	c.JSON(200, gin.H{"isAuthenticated": true, "userId": userID})
}

// Logout deletes the caller's session. Idempotent: the cookie is cleared
// even when there is no cookie or the token does not verify.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Session.CookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(token); err != nil {
			// cookie is cleared regardless of the store failing
			log.Printf("logout error: %v", err)
		}
	}

	ClearSessionCookie(c, h.cfg)
	c.JSON(200, gin.H{"message": "Logged out successfully"})
}
