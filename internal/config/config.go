package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	LogLevel    string
	CORSOrigins []string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// MigrationsPath is the golang-migrate source URL applied at boot.
	MigrationsPath string

	// JWT
	JWTSecret string
	JWTIssuer string

	// OpsAPIKey guards /api/v1/ops. Empty disables those endpoints.
	OpsAPIKey string

	// Payment schedules
	ScheduleHorizon  int
	LateAfterDays    int
	OverdueAfterDays int
	ReconcileCron    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "rentwise"),
		DBPassword:     getEnv("DB_PASSWORD", "rentwise"),
		DBName:         getEnv("DB_NAME", "rentwise"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTIssuer: getEnv("JWT_ISSUER", "rentwise-api"),
		OpsAPIKey: getEnv("OPS_API_KEY", ""),

		ScheduleHorizon:  getEnvInt("SCHEDULE_HORIZON", 12),
		LateAfterDays:    getEnvInt("PAYMENT_LATE_AFTER_DAYS", 0),
		OverdueAfterDays: getEnvInt("PAYMENT_OVERDUE_AFTER_DAYS", 30),
		ReconcileCron:    getEnv("RECONCILE_CRON", "@daily"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process-wide configuration. Tests use it to pin secrets.
func Set(cfg *Config) {
	appConfig = cfg
}

// LateAfter returns the grace period before a pending entry turns late.
func (c *Config) LateAfter() time.Duration {
	return time.Duration(c.LateAfterDays) * 24 * time.Hour
}

// OverdueAfter returns how long past due a late entry becomes overdue.
func (c *Config) OverdueAfter() time.Duration {
	return time.Duration(c.OverdueAfterDays) * 24 * time.Hour
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
