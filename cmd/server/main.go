package main

import (
	"fmt"
	"log"
	"time"

	"qbit-secure/internal/api/routes"
	"qbit-secure/internal/config"
	"qbit-secure/internal/models"
	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Reap expired sessions hourly; token checks already reject expired
	// rows, this just keeps the table from growing without bound.
	authService := services.NewAuthService(cfg)
	go func() {
		for range time.Tick(time.Hour) {
			if err := authService.DeleteExpiredSessions(); err != nil {
				log.Printf("Failed to delete expired sessions: %v", err)
			}
		}
	}()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "API endpoint not found"})
	})

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting QBit Secure server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
