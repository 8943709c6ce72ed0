package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                int
	DatabaseURL         string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	BaseURL             string
	Currency            string
	CORSOrigins         []string
	AdminEmail          string
	AdminPassword       string
	ProviderTimeout     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port, _ := strconv.Atoi(getEnv("PORT", "4000"))

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// BaseURL is used for payment redirect URLs and to absolutize product
	// image references before they are sent to the payment provider.
	baseURL := strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/")

	timeoutSec, _ := strconv.Atoi(getEnv("PROVIDER_TIMEOUT_SECONDS", "10"))
	if timeoutSec <= 0 {
		timeoutSec = 10
	}

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,https://buyitnow.vercel.app"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		JWTSecret:           jwtSecret,
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		BaseURL:             baseURL,
		Currency:            getEnv("CURRENCY", "usd"),
		CORSOrigins:         origins,
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@buyitnow.local"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		ProviderTimeout:     time.Duration(timeoutSec) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
