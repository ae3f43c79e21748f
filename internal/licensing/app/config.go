package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: SQLite database file (default: ./licensor.db)
	DatabaseURL    string // Required for postgres: connection URL

	SeatPolicy domain.SeatPolicy // Optional: strict or lenient (default: strict)
	DevBypass  bool              // Optional: answer development domains without storage (default: true)

	AdminSecret string // Optional: enables the admin API when set
	AdminIssuer string // Optional: issuer claim of operator tokens (default: licensor)

	AuditMongoURI      string // Optional: record audit events in MongoDB when set
	AuditMongoDatabase string // Optional: MongoDB database for audit events (default: licensor)

	IdleActivationTTL    time.Duration // Optional: deactivate activations idle this long (default: 0, disabled)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver:       strings.ToLower(getEnvOrDefault("LICENSOR_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:         getEnvOrDefault("LICENSOR_DATABASE_FILE", "licensor.db"),
		DatabaseURL:          os.Getenv("LICENSOR_DATABASE_URL"),
		SeatPolicy:           domain.ParseSeatPolicy(os.Getenv("LICENSOR_SEAT_POLICY")),
		DevBypass:            getEnvBoolOrDefault("LICENSOR_DEV_BYPASS", true),
		AdminSecret:          os.Getenv("LICENSOR_ADMIN_SECRET"),
		AdminIssuer:          getEnvOrDefault("LICENSOR_ADMIN_ISSUER", "licensor"),
		AuditMongoURI:        os.Getenv("LICENSOR_AUDIT_MONGO_URI"),
		AuditMongoDatabase:   getEnvOrDefault("LICENSOR_AUDIT_MONGO_DATABASE", "licensor"),
		IdleActivationTTL:    getEnvDurationOrDefault("LICENSOR_IDLE_ACTIVATION_TTL", 0),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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
