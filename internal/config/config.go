package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// EngineConfig holds the policy knobs of the portfolio engine.
type EngineConfig struct {
	FirmName string

	// TaxRate is the statutory corporate rate applied to positive projected
	// realized gains during withdrawal planning, as a fraction (0.25 = 25%).
	TaxRate decimal.Decimal

	// ManagementFeeRate is charged on the gross withdrawal payout, as a
	// fraction (0.01 = 1%).
	ManagementFeeRate decimal.Decimal

	// LockTimeout bounds acquisition of position and snapshot locks.
	LockTimeout time.Duration

	// RefreshSchedule is the cron expression for the daily market refresh.
	RefreshSchedule string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0.25"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	feeRate, err := decimal.NewFromString(getEnv("MANAGEMENT_FEE_RATE", "0.01"))
	if err != nil {
		return nil, fmt.Errorf("invalid MANAGEMENT_FEE_RATE: %w", err)
	}

	lockTimeout, err := time.ParseDuration(getEnv("LOCK_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_TIMEOUT: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/novusedge.db"),
		},
		Engine: EngineConfig{
			FirmName:          getEnv("FIRM_NAME", "Bearhouse Capital"),
			TaxRate:           taxRate,
			ManagementFeeRate: feeRate,
			LockTimeout:       lockTimeout,
			RefreshSchedule:   getEnv("REFRESH_SCHEDULE", "0 30 17 * * MON-FRI"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
