package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	goredis "github.com/go-redis/redis/v8"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

var _ ports.Slot = (*Slot)(nil)

const (
	defaultPort    = "6379"
	pingTimeout    = 5 * time.Second
	maxPingBackoff = 30 * time.Second
)

// Slot keeps the cart snapshot as a plain string value under one Redis key.
type Slot struct {
	client *goredis.Client
	key    string
	logger *slog.Logger
}

// NewSlot builds a slot for addr, which is either a redis:// URL or a host[:port].
func NewSlot(addr, key string, logger *slog.Logger) (*Slot, error) {
	opts, err := clientOptions(addr)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		key = ports.DefaultSlotKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	client := goredis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())
	return &Slot{client: client, key: key, logger: logger}, nil
}

func clientOptions(addr string) (*goredis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		return goredis.ParseURL(addr)
	}
	if !strings.Contains(addr, ":") {
		addr = addr + ":" + defaultPort
	}
	return &goredis.Options{
		Addr:         addr,
		MinIdleConns: 1,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  180 * time.Second,
	}, nil
}

// Initialize pings Redis with exponential backoff until it answers or attempts run out.
func (s *Slot) Initialize(ctx context.Context, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = s.Ping(ctx); lastErr == nil {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "redis cart slot ready", slog.Int("attempt", i+1))
			return nil
		}
		if i == attempts-1 {
			break
		}
		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > maxPingBackoff {
			backoff = maxPingBackoff
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "redis ping failed",
			slog.Int("attempt", i+1), slog.Duration("backoff", backoff), slog.String("error", lastErr.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis unreachable after %d attempts: %w", attempts, lastErr)
}

// Ping checks connectivity.
func (s *Slot) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Load returns the stored payload or ports.ErrSlotEmpty.
func (s *Slot) Load(ctx context.Context) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return payload, nil
}

// Store overwrites the payload without expiry.
func (s *Slot) Store(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Slot) Close() error {
	return s.client.Close()
}
