package ports

import (
	"context"

	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// Service exposes the cart use cases to adapters (inbound/driving port).
// Mutations return *domain.OperationError on failure.
type Service interface {
	Cart(ctx context.Context) domain.Cart
	Summary(ctx context.Context) carttypes.CartSummary
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, input carttypes.UpdateProductAmountInput) error
}
