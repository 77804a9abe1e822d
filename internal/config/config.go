package config

import (
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Host          string
	Port          string
	LogLevel      string
	JWTSecret     string
	TokenValidity time.Duration
	RedisURL      string
}

func LoadConfig() *Config {
	tokenValidity := 7 * 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid TOKEN_TTL %q, using default: %v", raw, err)
		} else {
			tokenValidity = d
		}
	}

	return &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		TokenValidity: tokenValidity,
		RedisURL:      os.Getenv("REDIS_URL"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
