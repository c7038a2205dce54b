package stockd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries environment-driven settings for the inventory process.
type Config struct {
	Port        string
	PostgresDSN string
	SeedFile    string
	SkipSeed    bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "3333"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedFile:    strings.TrimSpace(os.Getenv("STOCKD_SEED")),
		SkipSeed:    isTruthy(os.Getenv("STOCKD_SKIP_SEED")),
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
