package shop

import (
	"context"
	"errors"
	"fmt"

	shopclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/shop"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Lookup implements the stock and catalog ports over the shop HTTP API.
type Lookup struct {
	client *shopclient.Client
}

// NewLookup wires a shop HTTP client into the lookup adapter.
func NewLookup(client *shopclient.Client) *Lookup {
	return &Lookup{client: client}
}

// Stock reads GET /stock/{id}.
func (l *Lookup) Stock(ctx context.Context, productID int64) (domain.StockRecord, error) {
	if l == nil || l.client == nil {
		return domain.StockRecord{}, errors.New("shop lookup not configured")
	}
	payload, err := l.client.GetStock(ctx, productID)
	if err != nil {
		return domain.StockRecord{}, translate(err)
	}
	return ToStockRecord(payload), nil
}

// Product reads GET /products/{id}.
func (l *Lookup) Product(ctx context.Context, productID int64) (domain.ProductDetails, error) {
	if l == nil || l.client == nil {
		return domain.ProductDetails{}, errors.New("shop lookup not configured")
	}
	payload, err := l.client.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductDetails{}, translate(err)
	}
	return ToProductDetails(payload), nil
}

func translate(err error) error {
	if errors.Is(err, shopclient.ErrNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	return err
}

var (
	_ ports.StockLookup    = (*Lookup)(nil)
	_ ports.ProductCatalog = (*Lookup)(nil)
)
