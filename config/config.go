package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the reports service
type Config struct {
	// Server configuration
	Port        string
	CORSOrigins []string

	// Store configuration: "memory" (default) or "mysql"
	StoreBackend string
	SeedDemoData bool

	// Database configuration (mysql backend only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// Load loads configuration from environment variables. A .env file is
// honored when present.
func Load() *Config {
	godotenv.Load()

	config := &Config{
		// Server defaults
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		// Store defaults
		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		SeedDemoData: getEnv("SEED_DEMO_DATA", "false") == "true",

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "citypulse"),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
