package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("inventory item not found")

// Repository persists catalog entries and their stock levels.
type Repository interface {
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SaveStock(ctx context.Context, stock *domain.Stock) (*domain.Stock, error)
	GetStock(ctx context.Context, id int64) (*domain.Stock, error)
	ListStock(ctx context.Context) ([]*domain.Stock, error)
}
