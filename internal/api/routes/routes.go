package routes

import (
	"qbit-secure/internal/api/handlers"
	"qbit-secure/internal/api/middleware"
	"qbit-secure/internal/config"
	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	dashboardHandler := handlers.NewDashboardHandler()
	analyticsHandler := handlers.NewAnalyticsHandler()
	securityHandler := handlers.NewSecurityHandler()
	simulationHandler := handlers.NewSimulationHandler()

	// Middleware
	r.Use(middleware.CORSMiddleware())

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "QBit Secure API is running",
			})
		})

		// Auth routes. Status and logout read the cookie themselves:
		// status reports 401 with its own body, and logout must stay
		// idempotent even without a valid session.
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/status", authHandler.Status)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.RequireSession(authService, cfg))
	{
		protected.GET("/dashboard/summary", dashboardHandler.Summary)
		protected.GET("/analytics/summary", analyticsHandler.Summary)
		protected.POST("/security/eavesdropping", securityHandler.DetectEavesdropping)
		protected.POST("/simulation/full", simulationHandler.RunFull)
	}
}
