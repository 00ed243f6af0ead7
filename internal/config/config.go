package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MarginThresholds are the percentage cut-offs used by presentation
// layers to bucket margins (critico < Critical <= attenzione < Warning
// <= buono < Excellent <= eccellente). The calculation engine itself
// never thresholds.
type MarginThresholds struct {
	Critical  float64 `json:"critico"`
	Warning   float64 `json:"attenzione"`
	Excellent float64 `json:"eccellente"`
}

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Single-operator credentials
	AuthUsername string
	AuthPassword string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Margin thresholds
	Thresholds MarginThresholds
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		AuthUsername: getEnv("AUTH_USERNAME", "operatore"),
		AuthPassword: getEnv("AUTH_PASSWORD", "gescom-dev-password"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		Thresholds: MarginThresholds{
			Critical:  getEnvFloat("MARGIN_CRITICAL", 30),
			Warning:   getEnvFloat("MARGIN_WARNING", 35),
			Excellent: getEnvFloat("MARGIN_EXCELLENT", 45),
		},
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
