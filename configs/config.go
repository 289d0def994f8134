package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
}

type AI struct {
	BaseURL string
	APIKey  string
	Model   string
}

type SMTP struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type Config struct {
	AppEnv             string
	Port               string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	Stripe             Stripe
	AI                 AI
	SMTP               SMTP
	SecretKey          string
	CookieName         string
	LockTimeout        time.Duration
	InvitationTTL      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "3000"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Stripe: Stripe{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceID:       getEnv("STRIPE_PRICE_ID", ""),
		},
		AI: AI{
			BaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("AI_API_KEY", ""),
			Model:   getEnv("AI_MODEL", "gpt-4o-mini"),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "Content Compass <noreply@contentcompass.app>"),
		},
		SecretKey:     getEnv("SECRET_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "cc_session"),
		LockTimeout:   time.Duration(getEnvInt("LOCK_TIMEOUT_SECONDS", 10)) * time.Second,
		InvitationTTL: time.Duration(getEnvInt("INVITATION_TTL_HOURS", 7*24)) * time.Hour,
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.PostgresURI == "" {
		return errors.New("POSTGRES_URI is required")
	}
	if c.Production() && len(c.SecretKey) < 32 {
		return errors.New("SECRET_KEY must be at least 32 characters in production")
	}
	return nil
}

func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
