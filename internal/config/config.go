package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string `env:"PORT" envDefault:"3000"`
	AppURL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	// Database configuration
	DBType            string `env:"DB_TYPE" envDefault:"postgres"` // mysql, postgres, sqlite, sqlserver
	DBHost            string `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string `env:"DB_PORT" envDefault:"5432"`
	DBDatabase        string `env:"DB_DATABASE,required"`
	DBUser            string `env:"DB_USER,required"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT" envDefault:"5"`

	// Authorizer configuration
	AuthzURL      string `env:"AUTHZ_URL,required"`
	AuthzClientID string `env:"AUTHZ_CLIENT_ID,required"`

	// Cloudflare R2 (S3-compatible) object storage
	R2AccountID       string `env:"R2_ACCOUNT_ID,required"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID,required"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY,required"`
	R2BucketName      string `env:"R2_BUCKET_NAME" envDefault:"inneranimalmedia"`
	R2PublicURL       string `env:"R2_PUBLIC_URL"`

	// Stripe
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	// Resend email delivery
	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Southern Pets Animal Rescue <noreply@inneranimalmedia.com>"`
	EmailAdmin   string `env:"EMAIL_ADMIN"`

	// LLM providers
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Analytics dashboard webhook (fire-and-forget)
	AnalyticsWebhookURL string `env:"ANALYTICS_WEBHOOK_URL"`
	AnalyticsAPIKey     string `env:"ANALYTICS_API_KEY"`
	ProjectID           string `env:"PROJECT_ID" envDefault:"spar"`
	ProjectName         string `env:"PROJECT_NAME" envDefault:"Southern Pets Animal Rescue"`
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	if cfg.R2PublicURL == "" {
		cfg.R2PublicURL = fmt.Sprintf("https://pub-%s.r2.dev", cfg.R2AccountID)
	}

	return cfg, nil
}
