package middleware

import (
	"errors"
	"log"

	"qbit-secure/internal/config"
	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

// RequireSession authenticates the request from the session cookie. Every
// failure answers with the same generic 401 body; whether the JWT or the
// session row was at fault is logged server-side only. A cookie that fails
// verification is cleared on the response.
func RequireSession(authService *services.AuthService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || token == "" {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := authService.Status(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenInvalid) || errors.Is(err, services.ErrSessionNotFound) {
				log.Printf("session rejected: %v", err)
				clearSuspectCookie(c, cfg)
				c.JSON(401, gin.H{"error": "Unauthorized"})
			} else {
				log.Printf("session check error: %v", err)
				c.JSON(500, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("session_token", token)

		c.Next()
	}
}

// clearSuspectCookie expires a cookie that failed verification.
func clearSuspectCookie(c *gin.Context, cfg *config.Config) {
	secure := cfg.Server.Mode == "release"
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", secure, true)
}
