package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// ErrNotFound is returned by lookups when the remote service does not know the product.
var ErrNotFound = errors.New("product not found")

// StockLookup reads the quantity currently available for a product.
type StockLookup interface {
	Stock(ctx context.Context, productID int64) (domain.StockRecord, error)
}

// ProductCatalog reads product metadata.
type ProductCatalog interface {
	Product(ctx context.Context, productID int64) (domain.ProductDetails, error)
}
