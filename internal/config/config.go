package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the widget reads from the environment. A .env file
// in the working directory is honored for local development.
type Config struct {
	Addr        string
	DatabaseURL string

	JWTSecret  string
	SessionTTL time.Duration

	AdminEmail        string
	AdminPasswordHash string

	OfferArmDelay time.Duration
	OfferWindow   time.Duration
	OfferTick     time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := &Config{
		Addr:              getEnv("ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "guesthouse.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		AdminEmail:        getEnv("ADMIN_EMAIL", "operator@guesthouse.local"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		OfferArmDelay:     getDuration("OFFER_ARM_DELAY", 120*time.Second),
		OfferWindow:       getDuration("OFFER_WINDOW", 240*time.Second),
		OfferTick:         getDuration("OFFER_TICK", time.Second),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is empty (run cmd/seed to generate one)")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
