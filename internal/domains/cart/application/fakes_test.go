package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

var errUnavailable = errors.New("service unavailable")

type fakeStock struct {
	mu       sync.Mutex
	amounts  map[int64]int
	err      error
	calls    int
	onLookup func(ctx context.Context, productID int64)
}

func newFakeStock(amounts map[int64]int) *fakeStock {
	return &fakeStock{amounts: amounts}
}

func (f *fakeStock) Stock(ctx context.Context, productID int64) (domain.StockRecord, error) {
	f.mu.Lock()
	f.calls++
	hook := f.onLookup
	err := f.err
	amount, ok := f.amounts[productID]
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, productID)
	}
	if err != nil {
		return domain.StockRecord{}, err
	}
	if !ok {
		return domain.StockRecord{}, errors.New("unknown product")
	}
	return domain.StockRecord{ID: productID, Amount: amount}, nil
}

func (f *fakeStock) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]domain.ProductDetails
	err      error
	calls    int
}

func newFakeCatalog(products ...domain.ProductDetails) *fakeCatalog {
	c := &fakeCatalog{products: map[int64]domain.ProductDetails{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (f *fakeCatalog) Product(_ context.Context, productID int64) (domain.ProductDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.ProductDetails{}, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.ProductDetails{}, errors.New("unknown product")
	}
	return p, nil
}

func (f *fakeCatalog) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type failingSlot struct {
	*cartmemory.Slot
	loadErr  error
	storeErr error
}

func (f *failingSlot) Load(ctx context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Slot.Load(ctx)
}

func (f *failingSlot) Store(ctx context.Context, payload []byte) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	return f.Slot.Store(ctx, payload)
}

func shoe() domain.ProductDetails {
	return domain.ProductDetails{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Image: "x"}
}

func sneaker() domain.ProductDetails {
	return domain.ProductDetails{ID: 9, Title: "Sneaker", Price: decimal.RequireFromString("59.90"), Image: "y"}
}

func newTestService(t *testing.T, slot *cartmemory.Slot, stock *fakeStock, catalog *fakeCatalog, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), slot, stock, catalog, opts...)
	require.NoError(t, err)
	return svc
}

func seededSlot(t *testing.T, items ...domain.Product) *cartmemory.Slot {
	t.Helper()
	cart, err := domain.NewCart(items)
	require.NoError(t, err)
	payload, err := EncodeSnapshot(cart)
	require.NoError(t, err)
	return cartmemory.NewSlotWith(payload)
}

func requireKind(t *testing.T, err error, op domain.Operation, kind domain.FailureKind) {
	t.Helper()
	var opErr *domain.OperationError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, op, opErr.Op)
	require.Equal(t, kind, opErr.Kind, "error: %v", err)
}

func assertItems(t *testing.T, expected, actual []domain.Product) {
	t.Helper()
	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})
	diff := cmp.Diff(expected, actual, decimalComparer, cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}
