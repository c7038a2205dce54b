package stockd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	inventoryhttp "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/adapters/http"
	inventorymemory "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
	platformobservability "github.com/Apurer/rocketshoes-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
)

const serviceName = "rocketshoes-stockd"

//go:embed seed.json
var defaultSeed []byte

// Run boots the inventory HTTP API serving products and stock levels until ctx is done.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildInventoryRepository(ctx, cfg, logger)
	defer cleanupRepo()
	service := inventoryapp.NewService(repo)
	if !cfg.SkipSeed {
		if err := seed(ctx, service, cfg.SeedFile); err != nil {
			return err
		}
		logger.Info("inventory seeded", slog.String("source", seedSource(cfg.SeedFile)))
	}

	router := NewRouter(service)
	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inventory API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("inventory API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down inventory API")
		return srv.Shutdown(shutdownCtx)
	}
}

// NewRouter builds the traced gin engine exposing the inventory routes.
func NewRouter(service inventoryports.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	inventoryhttp.NewInventoryAPI(service).Register(router)
	return router
}

func buildInventoryRepository(ctx context.Context, cfg Config, logger *slog.Logger) (inventoryports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory inventory repository")
		return inventorymemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return inventorymemory.NewRepository(), func() {}
	}
	logger.Info("inventory repository configured with postgres")
	closeDB := platformpostgres.Closer(db)
	return inventorypostgres.NewRepository(db), func() { _ = closeDB() }
}

func seed(ctx context.Context, service inventoryports.Service, path string) error {
	payload := defaultSeed
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read inventory seed: %w", err)
		}
		payload = raw
	}
	items, err := inventoryapp.ParseSeed(payload)
	if err != nil {
		return err
	}
	return service.Seed(ctx, items)
}

func seedSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
