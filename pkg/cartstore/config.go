package cartstore

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Slot backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config carries environment-driven settings for a cart store.
type Config struct {
	SlotBackend       string
	SlotKey           string
	PostgresDSN       string
	RedisAddr         string
	ShopAPIURL        string
	LookupTimeout     time.Duration
	MaxCommitAttempts int
	Locale            string
	Currency          string
}

// DefaultConfig is the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		SlotBackend:       BackendMemory,
		SlotKey:           cartports.DefaultSlotKey,
		ShopAPIURL:        "http://localhost:3333",
		MaxCommitAttempts: cartapp.DefaultMaxCommitAttempts,
		Locale:            cartapp.DefaultLocale,
		Currency:          cartapp.DefaultCurrency,
	}
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	defaults := DefaultConfig()
	cfg := Config{
		SlotBackend: strings.ToLower(envDefault("CART_SLOT_BACKEND", defaults.SlotBackend)),
		SlotKey:     envDefault("CART_SLOT_KEY", defaults.SlotKey),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		ShopAPIURL:  envDefault("SHOP_API_URL", defaults.ShopAPIURL),
		Locale:      envDefault("CART_LOCALE", defaults.Locale),
		Currency:    envDefault("CART_CURRENCY", defaults.Currency),
	}
	if raw := strings.TrimSpace(os.Getenv("CART_LOOKUP_TIMEOUT_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("CART_LOOKUP_TIMEOUT_MS must be a non-negative integer")
		}
		cfg.LookupTimeout = time.Duration(ms) * time.Millisecond
	}
	cfg.MaxCommitAttempts = defaults.MaxCommitAttempts
	if raw := strings.TrimSpace(os.Getenv("CART_MAX_COMMIT_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("CART_MAX_COMMIT_ATTEMPTS must be a positive integer")
		}
		cfg.MaxCommitAttempts = attempts
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.SlotBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s slot backend", c.SlotBackend)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s slot backend", c.SlotBackend)
		}
	default:
		return fmt.Errorf("CART_SLOT_BACKEND must be one of %s, %s, %s; got %q", BackendMemory, BackendPostgres, BackendRedis, c.SlotBackend)
	}
	if strings.TrimSpace(c.ShopAPIURL) == "" {
		return fmt.Errorf("SHOP_API_URL is required")
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
