package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	inventorytypes "github.com/Apurer/rocketshoes-cart/internal/domains/inventory/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
)

// Service orchestrates catalog and stock use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Products lists the catalog ordered by id.
func (s *Service) Products(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, mapError(domain.ErrInvalidProductID)
	}
	return s.repo.GetProduct(ctx, id)
}

// StockLevels lists every stock level ordered by id.
func (s *Service) StockLevels(ctx context.Context) ([]*domain.Stock, error) {
	levels, err := s.repo.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

func (s *Service) Stock(ctx context.Context, id int64) (*domain.Stock, error) {
	if id <= 0 {
		return nil, mapError(domain.ErrInvalidProductID)
	}
	return s.repo.GetStock(ctx, id)
}

// SetStock replaces the stock level of a catalog product.
func (s *Service) SetStock(ctx context.Context, input inventorytypes.SetStockInput) (*domain.Stock, error) {
	stock, err := domain.NewStock(input.ProductID, input.Amount)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	return s.repo.SaveStock(ctx, stock)
}

// Seed upserts every item and its stock level.
func (s *Service) Seed(ctx context.Context, items []inventorytypes.SeedItem) error {
	for _, item := range items {
		product, err := domain.NewProduct(item.ID, item.Title, item.Price, item.Image)
		if err != nil {
			return fmt.Errorf("seed product %d: %w", item.ID, mapError(err))
		}
		stock, err := domain.NewStock(item.ID, item.Amount)
		if err != nil {
			return fmt.Errorf("seed stock %d: %w", item.ID, mapError(err))
		}
		if _, err := s.repo.SaveProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %d: %w", item.ID, err)
		}
		if _, err := s.repo.SaveStock(ctx, stock); err != nil {
			return fmt.Errorf("seed stock %d: %w", item.ID, err)
		}
	}
	return nil
}

// ParseSeed decodes a JSON array of seed items.
func ParseSeed(payload []byte) ([]inventorytypes.SeedItem, error) {
	var items []inventorytypes.SeedItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("parse inventory seed: %w", err)
	}
	return items, nil
}

var _ ports.Service = (*Service)(nil)
