package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-wide settings. It is loaded once at startup and
// injected into components; nothing reads the environment after Load returns.
type Config struct {
	Port  string
	Mongo MongoConfig
	JWT   JWTConfig
	SMTP  SMTPConfig
	Log   LogConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables. Callers are expected
// to have loaded a .env file beforehand if one exists.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Mongo: MongoConfig{
			URI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getenv("MONGO_DB", "applygate"),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("SECRET_KEY"),
			Algorithm:  getenv("ALGORITHM", "HS256"),
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", os.Getenv("SMTP_USER")),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}

	port := getenv("SMTP_PORT", "465")
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", port, err)
	}
	cfg.SMTP.Port = p

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
