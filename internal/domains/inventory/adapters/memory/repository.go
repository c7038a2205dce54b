package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog and stock adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	stock    map[int64]*domain.Stock
}

func NewRepository() *Repository {
	return &Repository{
		products: map[int64]*domain.Product{},
		stock:    map[int64]*domain.Stock{},
	}
}

func (r *Repository) SaveProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) SaveStock(_ context.Context, stock *domain.Stock) (*domain.Stock, error) {
	if stock == nil {
		return nil, errors.New("stock is nil")
	}
	clone := *stock
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetStock(_ context.Context, id int64) (*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stock, ok := r.stock[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *stock
	return &clone, nil
}

func (r *Repository) ListStock(_ context.Context) ([]*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Stock, 0, len(r.stock))
	for _, stock := range r.stock {
		clone := *stock
		list = append(list, &clone)
	}
	return list, nil
}
