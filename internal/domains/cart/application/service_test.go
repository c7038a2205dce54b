package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	cartmemory "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

func TestNewService_EmptySlot(t *testing.T) {
	svc := newTestService(t, cartmemory.NewSlot(), newFakeStock(nil), newFakeCatalog())
	require.Empty(t, svc.Cart(context.Background()).Items)
}

func TestNewService_CorruptSnapshotFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "{oops"},
		{name: "object instead of array", payload: `{"id":1}`},
		{name: "zero amount", payload: `[{"id":1,"title":"a","price":1,"image":"","amount":0}]`},
		{name: "duplicate ids", payload: `[{"id":1,"price":1,"amount":1},{"id":1,"price":1,"amount":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, cartmemory.NewSlotWith([]byte(tt.payload)), newFakeStock(nil), newFakeCatalog())
			require.Empty(t, svc.Cart(context.Background()).Items)
		})
	}
}

func TestNewService_SlotReadFailure(t *testing.T) {
	slot := &failingSlot{Slot: cartmemory.NewSlot(), loadErr: errUnavailable}
	_, err := NewService(context.Background(), slot, newFakeStock(nil), newFakeCatalog())
	require.ErrorIs(t, err, errUnavailable)
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	_, err := NewService(context.Background(), nil, newFakeStock(nil), newFakeCatalog())
	require.Error(t, err)
}

func TestAddProduct_FirstAdd(t *testing.T) {
	ctx := context.Background()
	slot := cartmemory.NewSlot()
	stock := newFakeStock(map[int64]int{7: 5})
	catalog := newFakeCatalog(shoe())
	svc := newTestService(t, slot, stock, catalog)

	require.NoError(t, svc.AddProduct(ctx, 7))

	assertItems(t, []domain.Product{
		{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Image: "x", Amount: 1},
	}, svc.Cart(ctx).Items)
	require.Equal(t, 1, stock.Calls())
	require.Equal(t, 1, catalog.Calls())
	require.Equal(t, 1, slot.Writes())

	payload, err := slot.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":7,"title":"Shoe","price":100,"image":"x","amount":1}]`, string(payload))
}

func TestAddProduct_TwiceFollowsUpdatePath(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(map[int64]int{7: 5})
	catalog := newFakeCatalog(shoe())
	svc := newTestService(t, cartmemory.NewSlot(), stock, catalog)

	require.NoError(t, svc.AddProduct(ctx, 7))
	require.NoError(t, svc.AddProduct(ctx, 7))

	items := svc.Cart(ctx).Items
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Amount)
	require.Equal(t, 2, stock.Calls())
	require.Equal(t, 1, catalog.Calls(), "catalog is only read on the first add")
}

func TestAddProduct_Failures(t *testing.T) {
	tests := []struct {
		name         string
		stock        *fakeStock
		catalog      *fakeCatalog
		seed         []domain.Product
		wantKind     domain.FailureKind
		wantCatalogN int
	}{
		{
			name:     "out of stock on first add",
			stock:    newFakeStock(map[int64]int{7: 0}),
			catalog:  newFakeCatalog(shoe()),
			wantKind: domain.KindStockExceeded,
		},
		{
			name:     "out of stock on increment",
			stock:    newFakeStock(map[int64]int{7: 3}),
			catalog:  newFakeCatalog(shoe()),
			seed:     []domain.Product{{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Amount: 3}},
			wantKind: domain.KindStockExceeded,
		},
		{
			name:     "stock lookup fails",
			stock:    &fakeStock{err: errUnavailable},
			catalog:  newFakeCatalog(shoe()),
			wantKind: domain.KindLookupFailure,
		},
		{
			name:         "catalog lookup fails",
			stock:        newFakeStock(map[int64]int{7: 5}),
			catalog:      &fakeCatalog{err: errUnavailable},
			wantKind:     domain.KindLookupFailure,
			wantCatalogN: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			slot := seededSlot(t, tt.seed...)
			svc := newTestService(t, slot, tt.stock, tt.catalog)
			before := svc.Cart(ctx)

			err := svc.AddProduct(ctx, 7)
			requireKind(t, err, domain.OpAdd, tt.wantKind)

			assertItems(t, before.Items, svc.Cart(ctx).Items)
			require.Equal(t, 0, slot.Writes())
			require.Equal(t, tt.wantCatalogN, tt.catalog.Calls())
		})
	}
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()
	a := domain.Product{ID: 1, Title: "a", Price: decimal.NewFromInt(10), Amount: 1}
	b := domain.Product{ID: 2, Title: "b", Price: decimal.NewFromInt(20), Amount: 2}
	c := domain.Product{ID: 3, Title: "c", Price: decimal.NewFromInt(30), Amount: 3}
	slot := seededSlot(t, a, b, c)
	svc := newTestService(t, slot, newFakeStock(nil), newFakeCatalog())

	require.NoError(t, svc.RemoveProduct(ctx, 2))
	assertItems(t, []domain.Product{a, c}, svc.Cart(ctx).Items)
	require.Equal(t, 1, slot.Writes())
}

func TestRemoveProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	a := domain.Product{ID: 1, Title: "a", Price: decimal.NewFromInt(10), Amount: 1}
	slot := seededSlot(t, a)
	svc := newTestService(t, slot, newFakeStock(nil), newFakeCatalog())

	err := svc.RemoveProduct(ctx, 99)
	requireKind(t, err, domain.OpRemove, domain.KindNotFound)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assertItems(t, []domain.Product{a}, svc.Cart(ctx).Items)
	require.Equal(t, 0, slot.Writes())
}

func TestUpdateProductAmount_NonPositiveIsNoop(t *testing.T) {
	ctx := context.Background()
	seed := domain.Product{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Amount: 2}
	slot := seededSlot(t, seed)
	stock := newFakeStock(map[int64]int{7: 10})
	svc := newTestService(t, slot, stock, newFakeCatalog())

	for _, amount := range []int{0, -1, -100} {
		require.NoError(t, svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 7, Amount: amount}))
	}
	assertItems(t, []domain.Product{seed}, svc.Cart(ctx).Items)
	require.Equal(t, 0, stock.Calls())
	require.Equal(t, 0, slot.Writes())
}

func TestUpdateProductAmount_ExceedsStock(t *testing.T) {
	ctx := context.Background()
	seed := domain.Product{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Image: "x", Amount: 3}
	slot := seededSlot(t, seed)
	svc := newTestService(t, slot, newFakeStock(map[int64]int{7: 3}), newFakeCatalog())

	err := svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 7, Amount: 4})
	requireKind(t, err, domain.OpUpdate, domain.KindStockExceeded)
	assertItems(t, []domain.Product{seed}, svc.Cart(ctx).Items)
	require.Equal(t, 0, slot.Writes())
}

func TestUpdateProductAmount_StockCheckedBeforeMembership(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, cartmemory.NewSlot(), newFakeStock(map[int64]int{7: 1}), newFakeCatalog())

	err := svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 7, Amount: 2})
	requireKind(t, err, domain.OpUpdate, domain.KindStockExceeded)

	err = svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 7, Amount: 1})
	requireKind(t, err, domain.OpUpdate, domain.KindNotFound)
}

func TestUpdateProductAmount_LookupFailure(t *testing.T) {
	ctx := context.Background()
	seed := domain.Product{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Amount: 1}
	svc := newTestService(t, seededSlot(t, seed), &fakeStock{err: errUnavailable}, newFakeCatalog())

	err := svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 7, Amount: 2})
	requireKind(t, err, domain.OpUpdate, domain.KindLookupFailure)
	require.ErrorIs(t, err, errUnavailable)
}

func TestUpdateProductAmount_SetsOnlyTarget(t *testing.T) {
	ctx := context.Background()
	a := domain.Product{ID: 1, Title: "a", Price: decimal.NewFromInt(10), Amount: 1}
	b := domain.Product{ID: 2, Title: "b", Price: decimal.NewFromInt(20), Amount: 1}
	slot := seededSlot(t, a, b)
	svc := newTestService(t, slot, newFakeStock(map[int64]int{1: 10, 2: 10}), newFakeCatalog())

	require.NoError(t, svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: 2, Amount: 5}))

	b.Amount = 5
	assertItems(t, []domain.Product{a, b}, svc.Cart(ctx).Items)
	require.Equal(t, 1, slot.Writes())
}

func TestMutation_PersistFailureLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	slot := &failingSlot{Slot: cartmemory.NewSlot(), storeErr: errUnavailable}
	svc, err := NewService(ctx, slot, newFakeStock(map[int64]int{7: 5}), newFakeCatalog(shoe()))
	require.NoError(t, err)

	err = svc.AddProduct(ctx, 7)
	requireKind(t, err, domain.OpAdd, domain.KindPersistence)
	require.Empty(t, svc.Cart(ctx).Items)
	require.Equal(t, uint64(0), svc.Cart(ctx).Revision)
}

func TestMutation_LookupTimeout(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStock(map[int64]int{7: 5})
	stock.onLookup = func(ctx context.Context, _ int64) {
		<-ctx.Done()
	}
	svc := newTestService(t, cartmemory.NewSlot(), stock, newFakeCatalog(shoe()), WithLookupTimeout(20*time.Millisecond))
	svc.stock = &deadlineStock{inner: stock}

	err := svc.AddProduct(ctx, 7)
	requireKind(t, err, domain.OpAdd, domain.KindLookupFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, svc.Cart(ctx).Items)
}

// deadlineStock surfaces the context error once the wrapped lookup returns.
type deadlineStock struct {
	inner *fakeStock
}

func (d *deadlineStock) Stock(ctx context.Context, productID int64) (domain.StockRecord, error) {
	record, err := d.inner.Stock(ctx, productID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.StockRecord{}, ctxErr
	}
	return record, err
}

func TestMutation_RetriesAfterConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	other := domain.Product{ID: 2, Title: "other", Price: decimal.NewFromInt(5), Amount: 1}
	slot := seededSlot(t, other)
	stock := newFakeStock(map[int64]int{7: 5})
	svc := newTestService(t, slot, stock, newFakeCatalog(shoe()))

	var interleaved atomic.Bool
	stock.onLookup = func(ctx context.Context, productID int64) {
		if productID == 7 && interleaved.CompareAndSwap(false, true) {
			require.NoError(t, svc.RemoveProduct(ctx, 2))
		}
	}

	require.NoError(t, svc.AddProduct(ctx, 7))

	cart := svc.Cart(ctx)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(7), cart.Items[0].ID)
	require.Equal(t, uint64(2), cart.Revision)
	require.Equal(t, 2, stock.Calls(), "the add is planned again after losing the race")

	reloaded := newTestService(t, slot, stock, newFakeCatalog())
	assertItems(t, cart.Items, reloaded.Cart(ctx).Items)
}

func TestMutation_ConflictWhenAttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	other := domain.Product{ID: 2, Title: "other", Price: decimal.NewFromInt(5), Amount: 1}
	stock := newFakeStock(map[int64]int{7: 5})
	svc := newTestService(t, seededSlot(t, other), stock, newFakeCatalog(shoe()), WithMaxCommitAttempts(1))

	var interleaved atomic.Bool
	stock.onLookup = func(ctx context.Context, productID int64) {
		if productID == 7 && interleaved.CompareAndSwap(false, true) {
			require.NoError(t, svc.RemoveProduct(ctx, 2))
		}
	}

	err := svc.AddProduct(ctx, 7)
	requireKind(t, err, domain.OpAdd, domain.KindConflict)
	require.ErrorIs(t, err, domain.ErrRevisionConflict)
	require.Empty(t, svc.Cart(ctx).Items, "the intervening remove is kept, the stale add is rejected")
}

func TestMutation_ConcurrentAddsNeverExceedStock(t *testing.T) {
	ctx := context.Background()
	const available = 4
	const callers = 16
	slot := cartmemory.NewSlot()
	svc := newTestService(t, slot, newFakeStock(map[int64]int{7: available}), newFakeCatalog(shoe()), WithMaxCommitAttempts(callers))

	var succeeded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			if err := svc.AddProduct(gctx, 7); err == nil {
				succeeded.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	items := svc.Cart(ctx).Items
	require.Len(t, items, 1)
	require.LessOrEqual(t, items[0].Amount, available)
	require.Equal(t, int64(items[0].Amount), succeeded.Load())

	reloaded := newTestService(t, slot, newFakeStock(nil), newFakeCatalog())
	assertItems(t, items, reloaded.Cart(ctx).Items)
}

func TestMutation_RandomSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	faker := gofakeit.New(42)

	stockLevels := map[int64]int{}
	var products []domain.ProductDetails
	for id := int64(1); id <= 6; id++ {
		stockLevels[id] = faker.IntRange(0, 5)
		products = append(products, domain.ProductDetails{
			ID:    id,
			Title: faker.ProductName(),
			Price: decimal.NewFromFloat(faker.Price(1, 500)).Round(2),
			Image: faker.URL(),
		})
	}
	slot := cartmemory.NewSlot()
	svc := newTestService(t, slot, newFakeStock(stockLevels), newFakeCatalog(products...))

	for step := 0; step < 200; step++ {
		id := int64(faker.IntRange(1, 7))
		switch faker.IntRange(0, 2) {
		case 0:
			_ = svc.AddProduct(ctx, id)
		case 1:
			_ = svc.RemoveProduct(ctx, id)
		default:
			_ = svc.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: id, Amount: faker.IntRange(-2, 7)})
		}

		cart := svc.Cart(ctx)
		seen := map[int64]bool{}
		for _, item := range cart.Items {
			assert.GreaterOrEqual(t, item.Amount, 1)
			assert.LessOrEqual(t, item.Amount, stockLevels[item.ID])
			assert.False(t, seen[item.ID], "duplicate product %d", item.ID)
			seen[item.ID] = true
		}

		reloaded := newTestService(t, slot, newFakeStock(nil), newFakeCatalog())
		assertItems(t, cart.Items, reloaded.Cart(ctx).Items)
	}
}

func TestCart_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	seed := domain.Product{ID: 7, Title: "Shoe", Price: decimal.NewFromInt(100), Amount: 1}
	svc := newTestService(t, seededSlot(t, seed), newFakeStock(nil), newFakeCatalog())

	cart := svc.Cart(ctx)
	cart.Items[0].Amount = 99

	require.Equal(t, 1, svc.Cart(ctx).Items[0].Amount)
}

func TestOperationError_Message(t *testing.T) {
	err := domain.Fail(domain.OpUpdate, domain.KindStockExceeded, 7, domain.ErrStockExceeded)
	require.Equal(t, "update product 7: stock_exceeded: requested quantity exceeds available stock", err.Error())
	require.True(t, errors.Is(err, domain.ErrStockExceeded))
}
