package config

import (
	"os"
	"time"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	Location    *time.Location
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string

	// Удалённое документное хранилище; пустой URL выключает синхронизацию.
	RemoteURL   string
	RemoteToken string

	// Телеграм-канал уведомлений; пустой токен выключает.
	BotToken string
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	cfg := &Config{
		DatabaseURL: mustEnv("DATABASE_URL"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		JWTSecret:   mustEnv("JWT_SECRET"),
		Location:    loc,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         getenv("ENV", "dev"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		RemoteURL:   os.Getenv("REMOTE_SYNC_URL"),
		RemoteToken: os.Getenv("REMOTE_SYNC_TOKEN"),
		BotToken:    os.Getenv("BOT_TOKEN"),
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
