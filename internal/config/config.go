package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	MinIO    MinIOConfig
	JWT      JWTConfig
	Security SecurityConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type SecurityConfig struct {
	AllowedOrigins  string
	RateLimitWindow time.Duration
	APIRateLimitMax int
	AuthRateLimitMax int
	UploadRateLimitMax int
	BodyLimit       int
}

type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
}

func Load() *Config {
	// Present in development, absent in containers. Missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "artmarket"),
			Password: getEnv("DB_PASSWORD", "artmarket_secret"),
			Name:     getEnv("DB_NAME", "artmarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MinIO: MinIOConfig{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", "artmarket"),
			SecretKey:      getEnv("MINIO_SECRET_KEY", "artmarket_secret"),
			Bucket:         getEnv("MINIO_BUCKET", "artmarket"),
			UseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 168),
		},
		Security: SecurityConfig{
			AllowedOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:4173"),
			RateLimitWindow:    getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			APIRateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
			AuthRateLimitMax:   getEnvAsInt("AUTH_RATE_LIMIT_MAX", 5),
			UploadRateLimitMax: getEnvAsInt("UPLOAD_RATE_LIMIT_MAX", 10),
			BodyLimit:          getEnvAsInt("BODY_LIMIT_BYTES", 10*1024*1024),
		},
		Upload: UploadConfig{
			MaxFileSize: int64(getEnvAsInt("MAX_FILE_SIZE", 5*1024*1024)),
			AllowedTypes: splitAndTrim(getEnv("ALLOWED_FILE_TYPES",
				"image/jpeg,image/png,image/gif,image/webp")),
		},
	}
}

// Validate enforces the settings that must never fall back to development
// defaults in production.
func (c *Config) Validate() error {
	if !c.Server.IsProduction() {
		return nil
	}

	if os.Getenv("JWT_SECRET") == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long in production")
	}
	if os.Getenv("DB_PASSWORD") == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}
	if os.Getenv("MINIO_SECRET_KEY") == "" {
		return fmt.Errorf("MINIO_SECRET_KEY must be set in production")
	}
	return nil
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
