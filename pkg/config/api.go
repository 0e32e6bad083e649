package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment           string
	Addr                  string
	DatabaseURL           string
	MigrationsDir         string
	JWTSecret             string
	OwnerRegistrationCode string
	TokenTTL              time.Duration
	ClientURL             string
	LogLevel              string
	StrictAuth            bool
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	CacheTTL              time.Duration
	S3Bucket              string
	S3Region              string
	S3Endpoint            string
	S3AccessKey           string
	S3SecretKey           string
	S3PublicBaseURL       string
	UploadURLTTL          time.Duration
}

// LoadAPIConfig constructs an APIConfig from environment variables.
// Secrets have no fallback; call Validate before serving traffic.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:           GetString("APP_ENV", "development"),
		Addr:                  ":" + strings.TrimPrefix(GetString("PORT", "5000"), ":"),
		DatabaseURL:           GetString("DATABASE_URL", ""),
		MigrationsDir:         GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:             GetString("JWT_SECRET", ""),
		OwnerRegistrationCode: GetString("OWNER_REGISTRATION_CODE", ""),
		TokenTTL:              GetDuration("TOKEN_TTL_HOURS", 7*24, time.Hour),
		ClientURL:             GetString("CLIENT_URL", "http://localhost:3000"),
		LogLevel:              GetString("LOG_LEVEL", "info"),
		StrictAuth:            GetBool("STRICT_AUTH", false),
		RedisAddr:             GetString("REDIS_ADDR", ""),
		RedisPassword:         GetString("REDIS_PASSWORD", ""),
		RedisDB:               GetInt("REDIS_DB", 0),
		CacheTTL:              GetDuration("CACHE_TTL_SECONDS", 60, time.Second),
		S3Bucket:              GetString("S3_BUCKET", ""),
		S3Region:              GetString("S3_REGION", "us-east-1"),
		S3Endpoint:            GetString("S3_ENDPOINT", ""),
		S3AccessKey:           GetString("S3_ACCESS_KEY", ""),
		S3SecretKey:           GetString("S3_SECRET_KEY", ""),
		S3PublicBaseURL:       GetString("S3_PUBLIC_BASE_URL", ""),
		UploadURLTTL:          GetDuration("UPLOAD_URL_TTL_MINUTES", 15, time.Minute),
	}
}

// Validate reports every required setting that is missing.
func (c APIConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if strings.TrimSpace(c.OwnerRegistrationCode) == "" {
		errs = append(errs, errors.New("OWNER_REGISTRATION_CODE is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// UploadsEnabled reports whether object storage is configured.
func (c APIConfig) UploadsEnabled() bool {
	return strings.TrimSpace(c.S3Bucket) != ""
}
