package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	carttypes "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application/types"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Cart(ctx context.Context) cartdomain.Cart {
	ctx, span := s.tracer.Start(ctx, "CartService.Cart")
	defer span.End()

	cart := s.inner.Cart(ctx)
	span.SetAttributes(attribute.Int("cart.size", cart.Size()))
	return cart
}

func (s *Service) Summary(ctx context.Context) carttypes.CartSummary {
	ctx, span := s.tracer.Start(ctx, "CartService.Summary")
	defer span.End()

	summary := s.inner.Summary(ctx)
	span.SetAttributes(attribute.Int("cart.size", summary.Size), attribute.String("cart.total", summary.Total.String()))
	return summary
}

func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	ctx, span, attrs := s.start(ctx, "CartService.AddProduct", productID)
	defer span.End()

	s.logInfo(ctx, "adding product", attrs...)
	if err := s.inner.AddProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, cartdomain.OpAdd, err, "failed to add product", attrs...)
	}
	s.metrics.recordMutation(ctx, cartdomain.OpAdd)
	s.logInfo(ctx, "product added", attrs...)
	return nil
}

func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	ctx, span, attrs := s.start(ctx, "CartService.RemoveProduct", productID)
	defer span.End()

	s.logInfo(ctx, "removing product", attrs...)
	if err := s.inner.RemoveProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, cartdomain.OpRemove, err, "failed to remove product", attrs...)
	}
	s.metrics.recordMutation(ctx, cartdomain.OpRemove)
	s.logInfo(ctx, "product removed", attrs...)
	return nil
}

func (s *Service) UpdateProductAmount(ctx context.Context, input carttypes.UpdateProductAmountInput) error {
	ctx, span, attrs := s.start(ctx, "CartService.UpdateProductAmount", input.ProductID)
	defer span.End()
	span.SetAttributes(attribute.Int("cart.amount", input.Amount))
	attrs = append(attrs, slog.Int("cart.amount", input.Amount))

	s.logInfo(ctx, "updating product amount", attrs...)
	if err := s.inner.UpdateProductAmount(ctx, input); err != nil {
		return s.handleError(ctx, span, cartdomain.OpUpdate, err, "failed to update product amount", attrs...)
	}
	s.metrics.recordMutation(ctx, cartdomain.OpUpdate)
	s.logInfo(ctx, "product amount updated", attrs...)
	return nil
}

// start opens the span for a mutation and tags it with a fresh operation id shared with the logs.
func (s *Service) start(ctx context.Context, name string, productID int64) (context.Context, trace.Span, []slog.Attr) {
	operationID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("cart.product_id", productID),
		attribute.String("cart.operation_id", operationID),
	))
	return ctx, span, []slog.Attr{
		slog.Int64("cart.product_id", productID),
		slog.String("cart.operation_id", operationID),
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, op cartdomain.Operation, err error, msg string, attrs ...slog.Attr) error {
	kind := cartdomain.KindOf(err)
	if span != nil {
		span.SetAttributes(attribute.String("cart.failure_kind", kind.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.recordFailure(ctx, op, kind)
	s.logError(ctx, msg, err, append(attrs, slog.String("cart.failure_kind", kind.String()))...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
	failures  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of committed cart mutations"))
	failures, _ := m.Int64Counter("cart.service.failures", metric.WithDescription("Number of failed cart mutations"))
	return serviceMetrics{mutations: mutations, failures: failures}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op cartdomain.Operation) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", string(op))))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op cartdomain.Operation, kind cartdomain.FailureKind) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cart.operation", string(op)),
			attribute.String("cart.failure_kind", kind.String()),
		))
	}
}

var _ cartports.Service = (*Service)(nil)
