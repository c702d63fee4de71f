package config

import (
	"fmt"
	"os"
)

// Config carries the env-derived runtime settings. Moderation tunables are
// compile-time constants in this package instead.
type Config struct {
	Addr            string
	DatabaseDSN     string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	TelegramToken   string
	TelegramStaffID int64
}

// Load reads configuration from the environment. Only the JWT secret is
// required; everything else has a local-development default.
func Load() (Config, error) {
	cfg := Config{
		Addr:          getenv("APP_ADDR", ":8080"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "user"),
			getenv("DB_PASSWORD", "password"),
			getenv("DB_NAME", "marketgodb"),
			getenv("DB_PORT", "5432"),
		)
	}

	if id := os.Getenv("TELEGRAM_STAFF_CHAT_ID"); id != "" {
		if _, err := fmt.Sscan(id, &cfg.TelegramStaffID); err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_STAFF_CHAT_ID: %w", err)
		}
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
