// Package cartstore is the embeddable shopping cart: it keeps the product line items of one
// shopper, persists them after every change and checks each quantity against the shop's stock.
//
// Mutations never return errors. Failures are reported through the configured Notifier with
// one of four fixed messages.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	shopclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/shop"
	cartshop "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/external/shop"
	cartmemory "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	cartnotification "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notification"
	cartobs "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
)

type (
	// Cart is an ordered list of line items.
	Cart = cartdomain.Cart
	// Product is a line item.
	Product = cartdomain.Product
	// Summary is the display read model of a cart.
	Summary = carttypes.CartSummary
	// SummaryLine is one line of a Summary.
	SummaryLine = carttypes.SummaryLine
	// Notifier receives user-facing failure messages.
	Notifier = cartports.Notifier
	// NotifierFunc adapts a function to Notifier.
	NotifierFunc = cartports.NotifierFunc
	// Slot is the durable storage of the serialized cart.
	Slot = cartports.Slot
	// StockLookup reads available quantities.
	StockLookup = cartports.StockLookup
	// ProductCatalog reads product metadata.
	ProductCatalog = cartports.ProductCatalog
)

// User-facing failure messages.
const (
	MsgAddFailed     = cartports.MsgAddFailed
	MsgRemoveFailed  = cartports.MsgRemoveFailed
	MsgStockExceeded = cartports.MsgStockExceeded
	MsgUpdateFailed  = cartports.MsgUpdateFailed
)

// Store is the cart handed to the UI.
type Store struct {
	boundary *cartnotification.Store
	closers  []func() error
}

// Option customizes New.
type Option func(*options)

type options struct {
	notifier   Notifier
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	httpClient *http.Client
	slot       Slot
	stock      StockLookup
	catalog    ProductCatalog
}

// WithNotifier sets where failure messages go. Defaults to a warn-level log line.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer traces every cart operation.
func WithTracer(tr trace.Tracer) Option {
	return func(o *options) { o.tracer = tr }
}

// WithMeter counts committed and failed mutations.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithHTTPClient overrides the client used to reach the shop API.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithSlot bypasses the configured slot backend.
func WithSlot(slot Slot) Option {
	return func(o *options) { o.slot = slot }
}

// WithLookups bypasses the shop API client.
func WithLookups(stock StockLookup, catalog ProductCatalog) Option {
	return func(o *options) {
		o.stock = stock
		o.catalog = catalog
	}
}

// New builds a Store from cfg and loads the persisted cart.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.notifier == nil {
		o.notifier = cartnotification.NewLogNotifier(o.logger)
	}

	store := &Store{}
	slot, err := store.buildSlot(ctx, cfg, o)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	stock, catalog := o.stock, o.catalog
	if stock == nil || catalog == nil {
		client, err := shopclient.NewShopClient(cfg.ShopAPIURL, o.httpClient)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		lookup := cartshop.NewLookup(client)
		if stock == nil {
			stock = lookup
		}
		if catalog == nil {
			catalog = lookup
		}
	}
	formatter, err := cartapp.NewPriceFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	core, err := cartapp.NewService(ctx, slot, stock, catalog,
		cartapp.WithLogger(o.logger),
		cartapp.WithMaxCommitAttempts(cfg.MaxCommitAttempts),
		cartapp.WithLookupTimeout(cfg.LookupTimeout),
		cartapp.WithPriceFormatter(formatter),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	service := cartobs.New(core,
		cartobs.WithLogger(o.logger),
		cartobs.WithTracer(o.tracer),
		cartobs.WithMeter(o.meter),
	)
	store.boundary = cartnotification.NewStore(service, o.notifier)
	return store, nil
}

func (s *Store) buildSlot(ctx context.Context, cfg Config, o options) (Slot, error) {
	if o.slot != nil {
		return o.slot, nil
	}
	switch cfg.SlotBackend {
	case BackendPostgres:
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect cart slot database: %w", err)
		}
		s.closers = append(s.closers, platformpostgres.Closer(db))
		return cartpostgres.NewSlot(db, cfg.SlotKey), nil
	case BackendRedis:
		slot, err := cartredis.NewSlot(cfg.RedisAddr, cfg.SlotKey, o.logger)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, slot.Close)
		if err := slot.Initialize(ctx, 5); err != nil {
			return nil, err
		}
		return slot, nil
	default:
		return cartmemory.NewSlot(), nil
	}
}

// Cart returns a copy of the current cart.
func (s *Store) Cart(ctx context.Context) Cart {
	return s.boundary.Cart(ctx)
}

// Summary returns the cart size, per-line subtotals, the total and their formatted forms.
func (s *Store) Summary(ctx context.Context) Summary {
	return s.boundary.Summary(ctx)
}

// AddProduct adds one unit of productID.
func (s *Store) AddProduct(ctx context.Context, productID int64) {
	s.boundary.AddProduct(ctx, productID)
}

// RemoveProduct drops productID from the cart.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) {
	s.boundary.RemoveProduct(ctx, productID)
}

// UpdateProductAmount sets the amount of productID. Amounts below one are ignored.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) {
	s.boundary.UpdateProductAmount(ctx, carttypes.UpdateProductAmountInput{ProductID: productID, Amount: amount})
}

// Close releases slot connections.
func (s *Store) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, s.closers[i]())
	}
	s.closers = nil
	return err
}
