package ports

import (
	"context"

	inventorytypes "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
)

// Service exposes catalog and stock use cases to adapters.
type Service interface {
	Products(ctx context.Context) ([]*domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	StockLevels(ctx context.Context) ([]*domain.Stock, error)
	Stock(ctx context.Context, id int64) (*domain.Stock, error)
	SetStock(ctx context.Context, input inventorytypes.SetStockInput) (*domain.Stock, error)
	Seed(ctx context.Context, items []inventorytypes.SeedItem) error
}
