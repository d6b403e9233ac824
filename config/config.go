package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT configuration
	JWTSecret string

	// Object storage configuration
	S3Bucket  string
	AWSRegion string

	// CORS configuration
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance from environment variables, with
// Docker secrets as a fallback for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "pantrybox"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),
		JWTSecret:  envOrSecret("JWT_SECRET", "jwt_secret"),
		S3Bucket:   envOr("S3_BUCKET_NAME", "pantrybox-recipe-images"),
		AWSRegion:  os.Getenv("AWS_REGION"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(origin))
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	var missing []string
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required configuration is not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envOrSecret reads an environment variable, falling back to a Docker
// secret file of the given name.
func envOrSecret(key, secret string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
