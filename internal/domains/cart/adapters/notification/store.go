package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Store is the UI-facing boundary of the cart. Mutations never return errors;
// failures are reported once through the Notifier.
type Store struct {
	inner    ports.Service
	notifier ports.Notifier
}

// NewStore wraps svc. A nil notifier drops messages.
func NewStore(svc ports.Service, notifier ports.Notifier) *Store {
	if notifier == nil {
		notifier = ports.NoopNotifier
	}
	return &Store{inner: svc, notifier: notifier}
}

func (s *Store) Cart(ctx context.Context) domain.Cart {
	return s.inner.Cart(ctx)
}

func (s *Store) Summary(ctx context.Context) carttypes.CartSummary {
	return s.inner.Summary(ctx)
}

func (s *Store) AddProduct(ctx context.Context, productID int64) {
	s.report(ctx, domain.OpAdd, s.inner.AddProduct(ctx, productID))
}

func (s *Store) RemoveProduct(ctx context.Context, productID int64) {
	s.report(ctx, domain.OpRemove, s.inner.RemoveProduct(ctx, productID))
}

func (s *Store) UpdateProductAmount(ctx context.Context, input carttypes.UpdateProductAmountInput) {
	s.report(ctx, domain.OpUpdate, s.inner.UpdateProductAmount(ctx, input))
}

func (s *Store) report(ctx context.Context, op domain.Operation, err error) {
	if err == nil {
		return
	}
	s.notifier.Notify(ctx, Message(op, err))
}

// Message picks the user-facing text for a failed operation.
// Stock exhaustion has its own message whatever the operation; everything else is the
// generic message of op.
func Message(op domain.Operation, err error) string {
	var opErr *domain.OperationError
	if errors.As(err, &opErr) {
		op = opErr.Op
	}
	switch domain.KindOf(err) {
	case domain.KindStockExceeded:
		return ports.MsgStockExceeded
	case domain.KindNotFound, domain.KindLookupFailure, domain.KindConflict, domain.KindPersistence:
		return genericMessage(op)
	default:
		return genericMessage(op)
	}
}

func genericMessage(op domain.Operation) string {
	switch op {
	case domain.OpAdd:
		return ports.MsgAddFailed
	case domain.OpRemove:
		return ports.MsgRemoveFailed
	case domain.OpUpdate:
		return ports.MsgUpdateFailed
	default:
		return ports.MsgUpdateFailed
	}
}

// LogNotifier writes every message to a logger at warn level.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier builds a notifier for headless use.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) {
	n.logger.LogAttrs(ctx, slog.LevelWarn, "cart notification", slog.String("message", message))
}

// Recorder keeps every message it receives, in order.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = (*Recorder)(nil)
)
