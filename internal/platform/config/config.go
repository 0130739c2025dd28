package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Service-to-service auth for the operator endpoints
	ServiceAuthEnabled bool
	ServiceAuthSecret  string

	// External notification service; empty disables notifications
	NotificationURL string

	// Rate limiting, e.g. "100-M" for 100 requests per minute
	RateLimitSpec string

	// Transfer saga lock lifetime
	LockHoldDuration time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("SERVICE_AUTH_ENABLED", false)
	viper.SetDefault("SERVICE_AUTH_SECRET", "")
	viper.SetDefault("NOTIFICATION_URL", "")
	viper.SetDefault("RATE_LIMIT_SPEC", "100-M")
	viper.SetDefault("LOCK_HOLD_DURATION", "5m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.ServiceAuthEnabled = viper.GetBool("SERVICE_AUTH_ENABLED")
	cfg.ServiceAuthSecret = viper.GetString("SERVICE_AUTH_SECRET")
	if cfg.ServiceAuthEnabled && cfg.ServiceAuthSecret == "" {
		log.Println("Warning: SERVICE_AUTH_ENABLED is set but SERVICE_AUTH_SECRET is empty.")
	}

	cfg.NotificationURL = viper.GetString("NOTIFICATION_URL")
	cfg.RateLimitSpec = viper.GetString("RATE_LIMIT_SPEC")

	lockHoldStr := viper.GetString("LOCK_HOLD_DURATION")
	lockHold, err := time.ParseDuration(lockHoldStr)
	if err != nil {
		lockHold = 5 * time.Minute
		if lockHoldStr != "" {
			log.Printf("Warning: Invalid value for LOCK_HOLD_DURATION ('%s'). Defaulting to %s.\n", lockHoldStr, lockHold.String())
		}
	}
	cfg.LockHoldDuration = lockHold

	return cfg, nil
}
