package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server         ServerConfig
	Storage        StorageConfig
	Auth           AuthConfig
	Logging        LoggingConfig
	AdminBootstrap AdminBootstrapConfig
	Environment    string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type StorageConfig struct {
	// Driver selects the persistence backend: "json" (one file per
	// collection, overwritten whole on every write) or "sqlite".
	Driver     string
	DataDir    string
	SQLitePath string
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type AdminBootstrapConfig struct {
	Email    string
	Password string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", "json"),
			DataDir:    getEnv("DATA_DIR", "./data"),
			SQLitePath: getEnv("SQLITE_PATH", "./data/eventboard.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 2)) * time.Hour,
			Issuer:    getEnv("JWT_ISSUER", "eventboard"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		AdminBootstrap: AdminBootstrapConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.Storage.Driver {
	case "json", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
