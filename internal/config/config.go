package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Quote    QuoteConfig
	Refresh  RefreshConfig
	Trading  TradingConfig
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

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds session token configuration. TokenKey must be a base64
// encoded 32-byte fernet key; a fresh key is generated at startup when unset,
// which invalidates outstanding sessions on restart.
type AuthConfig struct {
	TokenKey string
	TokenTTL time.Duration
}

// QuoteConfig bounds the quote gateway call on the order path.
type QuoteConfig struct {
	Timeout time.Duration
}

// RefreshConfig controls the scheduled holdings price refresh.
type RefreshConfig struct {
	Enabled  bool
	Schedule string // cron spec, e.g. "@every 5m"
}

// TradingConfig holds order policy toggles.
type TradingConfig struct {
	// RejectBuyBelowLast rejects buys priced below the holding's last
	// recorded price. Advisory policy, not a ledger invariant.
	RejectBuyBelowLast bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/brokersim.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Auth: AuthConfig{
			TokenKey: getEnv("TOKEN_KEY", ""),
			TokenTTL: getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Quote: QuoteConfig{
			Timeout: getEnvDuration("QUOTE_TIMEOUT", 3*time.Second),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvBool("REFRESH_ENABLED", true),
			Schedule: getEnv("REFRESH_SCHEDULE", "@every 5m"),
		},
		Trading: TradingConfig{
			RejectBuyBelowLast: getEnvBool("TRADING_REJECT_BUY_BELOW_LAST", true),
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

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
