package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// DefaultMaxCommitAttempts bounds how often a mutation is re-planned after losing a commit race.
const DefaultMaxCommitAttempts = 3

// Service owns the cart state and orchestrates the cart use cases.
//
// Lookups run without holding the lock. A mutation commits only if the cart revision
// it planned against is still current, otherwise it is planned again from the fresh cart.
type Service struct {
	slot    ports.Slot
	stock   ports.StockLookup
	catalog ports.ProductCatalog

	logger        *slog.Logger
	formatter     PriceFormatter
	maxAttempts   int
	lookupTimeout time.Duration

	mu   sync.Mutex
	cart domain.Cart
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxCommitAttempts overrides DefaultMaxCommitAttempts. Values below one are ignored.
func WithMaxCommitAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// WithLookupTimeout bounds every stock and catalog call. Zero disables the bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.lookupTimeout = d
	}
}

// WithPriceFormatter sets how Summary renders prices.
func WithPriceFormatter(f PriceFormatter) Option {
	return func(s *Service) {
		s.formatter = f
	}
}

// NewService loads the cart from slot and wires the lookups.
// An unreadable snapshot yields an empty cart; a slot that cannot be read at all is an error.
func NewService(ctx context.Context, slot ports.Slot, stock ports.StockLookup, catalog ports.ProductCatalog, opts ...Option) (*Service, error) {
	if slot == nil || stock == nil || catalog == nil {
		return nil, errors.New("cart service requires a slot, a stock lookup and a product catalog")
	}
	s := &Service{
		slot:        slot,
		stock:       stock,
		catalog:     catalog,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts: DefaultMaxCommitAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cart = cart
	return s, nil
}

func (s *Service) load(ctx context.Context) (domain.Cart, error) {
	payload, err := s.slot.Load(ctx)
	if errors.Is(err, ports.ErrSlotEmpty) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart slot: %w", err)
	}
	cart, err := DecodeSnapshot(payload)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unreadable cart snapshot", slog.String("error", err.Error()))
		return domain.Cart{}, nil
	}
	return cart, nil
}

// Cart returns a copy of the current cart.
func (s *Service) Cart(_ context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Summary returns the display read model of the current cart.
func (s *Service) Summary(ctx context.Context) carttypes.CartSummary {
	return Summarize(s.Cart(ctx), s.formatter)
}

// AddProduct puts one more unit of productID in the cart.
// A product already in the cart goes through the same stock check as UpdateProductAmount.
func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	return s.mutate(ctx, domain.OpAdd, productID, func(ctx context.Context, current domain.Cart) (domain.Cart, error) {
		if existing, ok := current.Find(productID); ok {
			return s.planAmount(ctx, domain.OpAdd, current, productID, existing.Amount+1)
		}
		stock, err := s.lookupStock(ctx, domain.OpAdd, productID)
		if err != nil {
			return domain.Cart{}, err
		}
		if !stock.Allows(1) {
			return domain.Cart{}, domain.Fail(domain.OpAdd, domain.KindStockExceeded, productID, domain.ErrStockExceeded)
		}
		details, err := s.lookupProduct(ctx, domain.OpAdd, productID)
		if err != nil {
			return domain.Cart{}, err
		}
		details.ID = productID
		product, err := domain.NewProduct(details, 1)
		if err != nil {
			return domain.Cart{}, mapError(domain.OpAdd, productID, err)
		}
		next, err := current.Append(product)
		if err != nil {
			return domain.Cart{}, mapError(domain.OpAdd, productID, err)
		}
		return next, nil
	})
}

// RemoveProduct drops productID from the cart.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	return s.mutate(ctx, domain.OpRemove, productID, func(_ context.Context, current domain.Cart) (domain.Cart, error) {
		next, err := current.Remove(productID)
		if err != nil {
			return domain.Cart{}, mapError(domain.OpRemove, productID, err)
		}
		return next, nil
	})
}

// UpdateProductAmount sets the absolute amount of a product in the cart.
// Amounts below one are ignored without error.
func (s *Service) UpdateProductAmount(ctx context.Context, input carttypes.UpdateProductAmountInput) error {
	if input.Amount < 1 {
		return nil
	}
	return s.mutate(ctx, domain.OpUpdate, input.ProductID, func(ctx context.Context, current domain.Cart) (domain.Cart, error) {
		return s.planAmount(ctx, domain.OpUpdate, current, input.ProductID, input.Amount)
	})
}

// planAmount checks stock before looking the product up in the cart.
func (s *Service) planAmount(ctx context.Context, op domain.Operation, current domain.Cart, productID int64, amount int) (domain.Cart, error) {
	stock, err := s.lookupStock(ctx, op, productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !stock.Allows(amount) {
		return domain.Cart{}, domain.Fail(op, domain.KindStockExceeded, productID, domain.ErrStockExceeded)
	}
	next, err := current.WithAmount(productID, amount)
	if err != nil {
		return domain.Cart{}, mapError(op, productID, err)
	}
	return next, nil
}

type planFunc func(ctx context.Context, current domain.Cart) (domain.Cart, error)

func (s *Service) mutate(ctx context.Context, op domain.Operation, productID int64, plan planFunc) error {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		current := s.Cart(ctx)
		next, err := plan(ctx, current)
		if err != nil {
			return mapError(op, productID, err)
		}
		err = s.commit(ctx, current.Revision, next)
		if errors.Is(err, domain.ErrRevisionConflict) {
			continue
		}
		if err != nil {
			return domain.Fail(op, domain.KindPersistence, productID, err)
		}
		return nil
	}
	return domain.Fail(op, domain.KindConflict, productID, domain.ErrRevisionConflict)
}

// commit persists next and installs it, provided the cart is still at base.
func (s *Service) commit(ctx context.Context, base uint64, next domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Revision != base {
		return domain.ErrRevisionConflict
	}
	payload, err := EncodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.slot.Store(ctx, payload); err != nil {
		return fmt.Errorf("store cart slot: %w", err)
	}
	next.Revision = base + 1
	s.cart = next
	return nil
}

func (s *Service) lookupStock(ctx context.Context, op domain.Operation, productID int64) (domain.StockRecord, error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()
	stock, err := s.stock.Stock(ctx, productID)
	if err != nil {
		return domain.StockRecord{}, domain.Fail(op, domain.KindLookupFailure, productID, fmt.Errorf("stock lookup: %w", err))
	}
	return stock, nil
}

func (s *Service) lookupProduct(ctx context.Context, op domain.Operation, productID int64) (domain.ProductDetails, error) {
	ctx, cancel := s.lookupContext(ctx)
	defer cancel()
	details, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.ProductDetails{}, domain.Fail(op, domain.KindLookupFailure, productID, fmt.Errorf("catalog lookup: %w", err))
	}
	return details, nil
}

func (s *Service) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.lookupTimeout)
}

var _ ports.Service = (*Service)(nil)
