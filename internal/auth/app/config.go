package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/jwtx"
)

// Supported database drivers.
const (
	DriverSurreal = "surreal"
	DriverSQLite  = "sqlite"
)

type Config struct {
	DBDriver string // Database driver (surreal, sqlite) (default: surreal)

	SurrealEndpoint  string // Required for surreal: base URL of the database's HTTP API
	SurrealNamespace string // Required for surreal: namespace header value
	SurrealDatabase  string // Optional: database header value (default: main)
	SurrealToken     string // Required for surreal: bearer token for the HTTP API

	DatabaseFile string // SQLite database file for the sqlite driver (default: ./auth.db)

	JWTSecret   string        // Required: HS256 signing secret, at least 32 bytes
	TokenIssuer string        // Optional: issuer claim for tokens (default: daykeep-auth)
	TokenTTL    time.Duration // Optional: session token lifetime (default: 720h)

	ResetCodeTTL       time.Duration // Optional: reset code lifetime (default: 15m)
	LegacyPasswordSalt string        // Optional: fixed salt for verifying pre-migration hashes

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment and validates the result. A config
// error fails startup; there are no insecure fallbacks for the secret or
// the database credentials.
func LoadConfig() (Config, error) {
	cfg := Config{
		DBDriver: getEnvOrDefault("AUTH_DB_DRIVER", DriverSurreal),

		SurrealEndpoint:  os.Getenv("SURREAL_ENDPOINT"),
		SurrealNamespace: os.Getenv("SURREAL_NAMESPACE"),
		SurrealDatabase:  getEnvOrDefault("SURREAL_DATABASE", "main"),
		SurrealToken:     os.Getenv("SURREAL_TOKEN"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),

		JWTSecret:   os.Getenv("AUTH_JWT_SECRET"),
		TokenIssuer: getEnvOrDefault("AUTH_TOKEN_ISSUER", "daykeep-auth"),
		TokenTTL:    getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultTokenTTL),

		ResetCodeTTL:       getEnvDurationOrDefault("RESET_CODE_TTL", service.DefaultResetCodeTTL),
		LegacyPasswordSalt: os.Getenv("LEGACY_PASSWORD_SALT"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be set and at least 32 bytes, got %d", len(c.JWTSecret))
	}

	switch c.DBDriver {
	case DriverSurreal:
		if c.SurrealEndpoint == "" {
			return fmt.Errorf("SURREAL_ENDPOINT is required for the %s driver", DriverSurreal)
		}
		if c.SurrealNamespace == "" {
			return fmt.Errorf("SURREAL_NAMESPACE is required for the %s driver", DriverSurreal)
		}
		if c.SurrealToken == "" {
			return fmt.Errorf("SURREAL_TOKEN is required for the %s driver", DriverSurreal)
		}
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("AUTH_DATABASE_FILE is required for the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown AUTH_DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverSurreal, DriverSQLite)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.ResetCodeTTL <= 0 {
		return fmt.Errorf("RESET_CODE_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
