package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Pexels   PexelsConfig
	Stripe   StripeConfig
	AI       AIConfig
	Admin    AdminConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	RootDomain     string
	PublicAppURL   string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
}

type PexelsConfig struct {
	APIKey  string
	BaseURL string
}

type StripeConfig struct {
	SecretKey string
	ReturnURL string
}

type AIConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

type AdminConfig struct {
	APIKey string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	// NotificationRetention is how long read notifications are kept.
	NotificationRetention time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RootDomain:     getEnv("ROOT_DOMAIN", "nepfy.com"),
			PublicAppURL:   getEnv("NEXT_PUBLIC_APP_URL", "https://app.nepfy.com"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://app.nepfy.com"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "nepfy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Pexels: PexelsConfig{
			APIKey:  getEnv("PEXELS_API_KEY", ""),
			BaseURL: getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			ReturnURL: getEnv("STRIPE_PORTAL_RETURN_URL", ""),
		},
		AI: AIConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("AI_MODEL", "gemini-2.5-flash"),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			MaxAttempts: getEnvAsInt("AI_MAX_ATTEMPTS", 2),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		App: AppConfig{
			Environment:           getEnv("APP_ENV", "development"),
			LogLevel:              getEnv("LOG_LEVEL", "info"),
			Version:               getEnv("APP_VERSION", "1.0.0"),
			NotificationRetention: getEnvAsDuration("NOTIFICATION_RETENTION", 90*24*time.Hour),
		},
	}

	if cfg.Stripe.ReturnURL == "" {
		cfg.Stripe.ReturnURL = strings.TrimRight(cfg.Server.PublicAppURL, "/") + "/dashboard"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.RootDomain == "" {
		return fmt.Errorf("ROOT_DOMAIN is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST is required")
	}

	if c.IsProduction() {
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in production")
		}
		if c.Admin.APIKey == "" {
			return fmt.Errorf("ADMIN_API_KEY is required in production")
		}
	}

	if c.AI.MaxAttempts < 1 {
		return fmt.Errorf("AI_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
