package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppPort string

	// Upload
	UploadMaxSize int

	// Report
	ReportFileName string

	// Session store
	SessionStore string
	SessionTTL   time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT (empty secret disables bearer auth). Setting it does not leave
	// development mode; with APP_ENV unset dev-token-* bearers still pass.
	JWTSecret string
}

func Load() (*Config, error) {
	// Load .env file if exists
	// Try to load from current dir first, then parent dirs
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env") // For when running from cmd/web or cmd/reformat

	cfg := &Config{
		AppName: getEnv("APP_NAME", "Geotab Reformatter"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		UploadMaxSize: getEnvAsInt("UPLOAD_MAX_SIZE", 52428800), // 50MB

		ReportFileName: getEnv("REPORT_FILENAME", "GeotabProcessedReport.xlsx"),

		SessionStore: getEnv("SESSION_STORE", "memory"),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 2*time.Hour),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}

	if cfg.SessionStore != "memory" && cfg.SessionStore != "redis" {
		return nil, fmt.Errorf("unsupported SESSION_STORE %q (expected memory or redis)", cfg.SessionStore)
	}

	return cfg, nil
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Warnings lists settings that are valid but probably not what a deployment wants
func (c *Config) Warnings() []string {
	var warnings []string
	if c.JWTSecret != "" && c.IsDevelopment() {
		warnings = append(warnings, "JWT_SECRET is set but APP_ENV is development; "+
			"development-only behaviour such as dev-token-* bearers stays enabled")
	}
	return warnings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
