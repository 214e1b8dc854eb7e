package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const insecureSecretPlaceholder = "change_me_in_production"

type Config struct {
	AppEnv       string
	LogLevel     slog.Level
	Port         string
	TimeZone     string
	SecretKey    string
	CookieSecure bool
	AccessMode   string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
		Port:         getEnv("PORT", "3000"),
		TimeZone:     getEnv("TZ", "UTC"),
		SecretKey:    getEnv("SECRET_KEY", insecureSecretPlaceholder),
		CookieSecure: getEnvAsBool("COOKIE_SECURE", false),
		AccessMode:   strings.ToLower(getEnv("ACCESS_MODE", "owner")),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:     getEnv("DB_PATH", filepath.Join("data", "clarity.db")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "clarity"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/auth/google/callback"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.AccessMode {
	case "open", "owner":
	default:
		return fmt.Errorf("unsupported ACCESS_MODE %q", cfg.AccessMode)
	}
	if cfg.AccessMode == "owner" && cfg.IsProduction() {
		if cfg.SecretKey == insecureSecretPlaceholder || len(cfg.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
	}
	return nil
}

func (cfg *Config) IsProduction() bool {
	return strings.EqualFold(cfg.AppEnv, "production")
}

func (cfg *Config) GoogleEnabled() bool {
	return cfg.GoogleClientID != "" && cfg.GoogleClientSecret != ""
}

func (cfg *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
