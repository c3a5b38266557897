package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Env         string `envconfig:"ENV" default:"development"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:""`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBUser      string `envconfig:"DB_USER" default:"root"`
	DBPass      string `envconfig:"DB_PASS" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBName      string `envconfig:"DB_NAME" default:"hotel_db"`

	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`
	CronSecret string `envconfig:"CRON_SECRET" required:"true"`

	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL" default:"admin@hotel.local"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD" default:"admin123"`

	RateLimitPerMin int `envconfig:"RATE_LIMIT_PER_MIN" default:"30"`
	RateLimitBurst  int `envconfig:"RATE_LIMIT_BURST" default:"10"`

	Mpesa MpesaConfig `envconfig:"MPESA"`
}

// MpesaConfig holds the Daraja STK push credentials.
type MpesaConfig struct {
	BaseURL        string `envconfig:"BASE_URL" default:"https://sandbox.safaricom.co.ke"`
	ConsumerKey    string `envconfig:"CONSUMER_KEY" default:""`
	ConsumerSecret string `envconfig:"CONSUMER_SECRET" default:""`
	ShortCode      string `envconfig:"SHORT_CODE" default:""`
	Passkey        string `envconfig:"PASSKEY" default:""`
	CallbackURL    string `envconfig:"CALLBACK_URL" default:""`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
