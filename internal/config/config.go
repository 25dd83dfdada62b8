package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Session snapshot storage
	SessionStore  string // "redis" or "memory"
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Stripe payment gateway
	StripeSecretKey string
	StripeDryRun    bool
	Currency        string

	// Booking handoff targets
	ProviderName  string
	ProviderEmail string
	TransferEmail string

	// Email delivery
	EmailProvider     string // "sendgrid", "ses", or "stub"
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	AWSRegion         string

	// Admin dashboard auth
	AdminJWTSecret   string
	AdminAllowEmails []string

	// Presale
	PresaleConfigPath string

	CORSAllowedOrigins []string

	// Per-IP request rate limiting on the public endpoints
	RateLimitPerSecond float64
	RateLimitBurst     int

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "redis"))),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeDryRun:    getEnvAsBool("STRIPE_DRY_RUN", false),
		Currency:        strings.ToLower(getEnv("CURRENCY", "cad")),

		ProviderName:  getEnv("PROVIDER_NAME", "Yasir"),
		ProviderEmail: getEnv("PROVIDER_EMAIL", "yasirgangat@gmail.com"),
		TransferEmail: getEnv("TRANSFER_EMAIL", "yasir_gangat@hotmail.com"),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Booking System"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Booking System"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),

		AdminJWTSecret:   getEnv("ADMIN_JWT_SECRET", ""),
		AdminAllowEmails: getEnvAsList("ALLOWED_ADMIN_EMAIL"),

		PresaleConfigPath: getEnv("PRESALE_CONFIG_PATH", "presale-config.json"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
