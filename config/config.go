package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Image storage modes accepted by IMAGE_STORAGE.
const (
	ImageStorageInline = "inline"
	ImageStorageS3     = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost         string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort         string   `env:"SERVER_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:4200"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"nutritrack.db"`
	Timezone       string `env:"TIMEZONE" envDefault:"Local"`

	// Database configuration
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"nutritrack"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// Redis configuration
	RedisHost      string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"nutritrack"`

	// JWT configuration
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Recognition configuration
	RecognitionDelay      time.Duration `env:"RECOGNITION_DELAY" envDefault:"2s"`
	RecognitionRateLimit  int           `env:"RECOGNITION_RATE_LIMIT" envDefault:"30"`
	RecognitionRateWindow time.Duration `env:"RECOGNITION_RATE_WINDOW" envDefault:"1h"`

	// Image storage configuration
	ImageStorage string `env:"IMAGE_STORAGE" envDefault:"inline"`
	S3BucketName string `env:"S3_BUCKET_NAME" envDefault:"nutritrack-food-images"`
	AWSRegion    string `env:"AWS_REGION"`
}

// LoadConfig creates a new Config instance with values from the environment,
// an optional .env file and Docker secrets
func LoadConfig() (*Config, error) {
	envName := GetEnvironment()

	// A missing .env file is not an error outside of development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Sensitive values fall back to Docker secrets
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}

	if envName != Production && cfg.JWTSecret == "" {
		cfg.JWTSecret = "development-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Location resolves the configured timezone used for calendar-day grouping.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PostgresDSN returns the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
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
