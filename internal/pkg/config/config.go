package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,   default=24h"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	// SeedPassword is the initial password of accounts created by cmd/seed.
	SeedPassword string `env:"SEED_PASSWORD, default=salon2024"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Salon     SalonConfig
	SMTP      SMTPConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=salon_coiffure"`
}

// RedisConfig leaves Addr empty to run without slot cache and rate limiter.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR, default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,   default=0"`
	SlotTTL  time.Duration `env:"SLOT_CACHE_TTL, default=30s"`
}

type SalonConfig struct {
	Name        string `env:"SALON_NAME,     default=Salon Belle Allure"`
	Address     string `env:"SALON_ADDRESS,  default=12 rue de la Paix 75002 Paris"`
	Timezone    string `env:"SALON_TIMEZONE, default=Europe/Paris"`
	AutoConfirm bool   `env:"BOOKING_AUTO_CONFIRM, default=false"`
}

// SMTPConfig leaves Host empty to log emails instead of sending them.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT,  default=20"`
	Window time.Duration `env:"RATE_WINDOW, default=1m"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment win
// over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.IsDevelopment() {
		return nil, errors.New("config: JWT_SECRET is required outside development")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-me"
	}
	return &cfg, nil
}
