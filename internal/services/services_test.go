package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"qbit-secure/internal/config"
	"qbit-secure/internal/models"

	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a throwaway sqlite database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/qbit_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "168h",
			Issuer:    "qbit-secure-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: 10,
		},
		Session: config.SessionConfig{
			CookieName: "qbit_session",
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)

	return cfg
}

// cleanupTestDB closes and removes the test database
func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		if cfg != nil && cfg.Database.Type == "sqlite" {
			os.Remove(cfg.Database.SQLite.Path)
		}
	}
	models.DB = nil
}
