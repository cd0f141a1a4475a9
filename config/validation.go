package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []ValidationError

	switch cfg.StorageBackend {
	case StorageMemory, StorageRedis, StorageSQLite:
	case StoragePostgres:
		if cfg.DBPassword == "" && env != Development && env != Test {
			errs = append(errs, ValidationError{"DB_PASSWORD", "required for the postgres backend (env or db_password secret)"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StorageBackend)})
	}

	if cfg.StorageBackend == StorageSQLite && cfg.SQLitePath == "" {
		errs = append(errs, ValidationError{"SQLITE_PATH", "required for the sqlite backend"})
	}

	switch cfg.ImageStorage {
	case ImageStorageInline:
	case ImageStorageS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "required when IMAGE_STORAGE=s3"})
		}
	default:
		errs = append(errs, ValidationError{"IMAGE_STORAGE", fmt.Sprintf("unknown mode %q", cfg.ImageStorage)})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "required (env or jwt_secret secret)"})
	}
	if env == Production && cfg.JWTSecret == "development-secret" {
		errs = append(errs, ValidationError{"JWT_SECRET", "must not use the development default in production"})
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{"TOKEN_TTL", "must be positive"})
	}
	if cfg.RecognitionDelay < 0 {
		errs = append(errs, ValidationError{"RECOGNITION_DELAY", "must not be negative"})
	}
	if cfg.RecognitionRateLimit <= 0 || cfg.RecognitionRateWindow < time.Second {
		errs = append(errs, ValidationError{"RECOGNITION_RATE_LIMIT", "limit and window (>= 1s) must be positive"})
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, ValidationError{"TIMEZONE", err.Error()})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
