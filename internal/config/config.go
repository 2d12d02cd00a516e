// Package config handles configuration loading for the shop API.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// minSecretLength is the minimum length for JWT signing secrets.
const minSecretLength = 32

// Config holds all configuration for the service. It is built once at
// startup and injected into constructors; nothing reads the environment
// after Load returns.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret        string
	JWTRefreshSecret string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	UploadDir      string
	BaseURL        string
	CacheTTL       time.Duration
	BcryptCost     int
	SwaggerHost    string
	AllowedOrigins []string

	Port        string
	Environment string
}

// Load reads configuration from environment variables. A .env file in
// the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getEnvRequired("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvRequired("DB_USER"),
		DBPassword: getEnvRequired("DB_PASSWORD"),
		DBName:     getEnvRequired("DB_NAME"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:        getEnvRequired("JWT_SECRET"),
		JWTRefreshSecret: getEnvRequired("JWT_REFRESH_SECRET"),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_EXPIRES_IN", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRES_IN", "168h"), 168*time.Hour),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads/products"),
		BaseURL:        getEnv("APP_URL", "http://localhost:3000"),
		CacheTTL:       parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute),
		BcryptCost:     10,
		SwaggerHost:    getEnv("SWAGGER_HOST", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),

		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
// Error detail is only surfaced to clients in development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if len(c.JWTRefreshSecret) < minSecretLength {
		return fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters", minSecretLength)
	}
	if c.JWTAccessExpiry <= 0 || c.JWTRefreshExpiry <= 0 {
		return fmt.Errorf("token expiries must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
