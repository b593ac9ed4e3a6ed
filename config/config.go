package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration, loaded from environment
// variables (a .env file is read at startup in main).
type Config struct {
	Port        string
	Env         string
	FEOrigin    string
	DatabaseURL string
	ClickHouse  ClickHouseConfig
	Redis       RedisConfig
	SMTP        SMTPConfig
	AdminSecret string
	RateLimit   RateLimitConfig
}

type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type RedisConfig struct {
	// Addr is empty when no Redis is configured; the rate limiter then
	// falls back to its in-process store.
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

type RateLimitConfig struct {
	Max      int
	WindowMs int
}

// Load reads configuration from the environment, applying defaults for
// anything optional.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		FEOrigin:    os.Getenv("FE_ORIGIN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ClickHouse: ClickHouseConfig{
			Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
			Port:     getEnvAsInt("CLICKHOUSE_NATIVE_PORT", 9000),
			Database: getEnv("CLICKHOUSE_DB_NAME", "telemetry"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			To:       os.Getenv("SMTP_TO"),
		},
		AdminSecret: getEnv("ADMIN_SECRET_KEY", "change-me-in-production"),
		RateLimit: RateLimitConfig{
			Max:      getEnvAsInt("RATE_LIMIT_MAX", 5),
			WindowMs: getEnvAsInt("RATE_LIMIT_WINDOW", 60000),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
