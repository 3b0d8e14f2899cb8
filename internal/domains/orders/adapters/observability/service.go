package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
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

func (s *Service) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Checkout", trace.WithAttributes(
		attribute.String("store.id", input.StoreID),
		attribute.Int("cart.lines", len(input.Lines))))
	defer span.End()

	s.logInfo(ctx, "checkout started", slog.String("store.id", input.StoreID), slog.Int("cart.lines", len(input.Lines)))
	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		// A payment session failure happens after the order was persisted.
		if errors.Is(err, ordersapp.ErrPaymentSession) {
			s.metrics.recordPlaced(ctx, input.StoreID)
			s.metrics.recordCheckout(ctx, "orphaned")
			s.logWarn(ctx, "payment session failed; order left unpaid", slog.String("store.id", input.StoreID))
		} else {
			s.recordCheckoutFailure(ctx, err)
		}
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.String("store.id", input.StoreID))
	}
	span.SetAttributes(attribute.String("order.id", result.OrderID))
	s.metrics.recordPlaced(ctx, input.StoreID)
	s.metrics.recordCheckout(ctx, "completed")
	s.logInfo(ctx, "checkout completed", slog.String("order.id", result.OrderID))
	return result, nil
}

func (s *Service) PlaceOrder(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.PlacedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder", trace.WithAttributes(attribute.String("store.id", input.StoreID)))
	defer span.End()

	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.recordCheckoutFailure(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("store.id", input.StoreID))
	}
	span.SetAttributes(attribute.String("order.id", result.Order.ID))
	s.metrics.recordPlaced(ctx, input.StoreID)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.Order.ID), slog.Int("order.items", len(result.Order.Items)))
	return result, nil
}

func (s *Service) StartPayment(ctx context.Context, placed orderstypes.PlacedOrder) (*orderstypes.CheckoutResult, error) {
	var orderID string
	if placed.Order != nil {
		orderID = placed.Order.ID
	}
	ctx, span := s.tracer.Start(ctx, "OrdersService.StartPayment", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.StartPayment(ctx, placed)
	if err != nil {
		s.metrics.recordCheckout(ctx, "orphaned")
		s.logWarn(ctx, "payment session failed; order left unpaid", slog.String("order.id", orderID))
		return nil, s.handleError(ctx, span, err, "failed to start payment", slog.String("order.id", orderID))
	}
	s.metrics.recordCheckout(ctx, "completed")
	s.logInfo(ctx, "payment session created", slog.String("order.id", orderID), slog.String("session.id", result.SessionID))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, query orderstypes.CustomerOrderQuery) (*orderstypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(
		attribute.String("store.id", query.StoreID), attribute.String("order.id", query.OrderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", query.OrderID))
	}
	span.SetAttributes(attribute.Bool("order.found", result != nil))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, query orderstypes.ListOrdersQuery) ([]*orderstypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders", trace.WithAttributes(attribute.String("store.id", query.StoreID)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("store.id", query.StoreID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input orderstypes.UpdateOrderInput) (*orderstypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrder", trace.WithAttributes(
		attribute.String("store.id", input.StoreID), attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", input.OrderID), slog.String("order.state_id", input.OrderStateID))
	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordUpdated(ctx, result.Order.OrderStateID)
	s.logInfo(ctx, "order updated", slog.String("order.id", result.Order.ID), slog.Bool("order.paid", result.Order.IsPaid))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, input orderstypes.DeleteOrderInput) (*orderstypes.DeleteResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(
		attribute.String("store.id", input.StoreID), attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", input.OrderID))
	result, err := s.inner.DeleteOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordDeleted(ctx, result.OrdersRemoved)
	s.logInfo(ctx, "order deleted", slog.String("order.id", input.OrderID), slog.Int64("items.removed", result.ItemsRemoved))
	return result, nil
}

func (s *Service) ListOrderStates(ctx context.Context) ([]ordersdomain.OrderState, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrderStates")
	defer span.End()

	result, err := s.inner.ListOrderStates(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list order states")
	}
	span.SetAttributes(attribute.Int("order_states.count", len(result)))
	return result, nil
}

func (s *Service) PurgeStaleOrders(ctx context.Context, input orderstypes.PurgeInput) (*orderstypes.PurgeResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PurgeStaleOrders", trace.WithAttributes(
		attribute.String("purge.older_than", input.OlderThan.String()), attribute.Bool("purge.dry_run", input.DryRun)))
	defer span.End()

	result, err := s.inner.PurgeStaleOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to purge stale orders")
	}
	s.metrics.recordDeleted(ctx, int64(result.Deleted))
	s.logInfo(ctx, "stale orders purged", slog.Int("matched", result.Matched), slog.Int("deleted", result.Deleted))
	return result, nil
}

func (s *Service) recordCheckoutFailure(ctx context.Context, err error) {
	var shortage *ordersapp.StockShortageError
	switch {
	case errors.As(err, &shortage):
		s.metrics.recordCheckout(ctx, "out_of_stock")
	case errors.Is(err, ordersapp.ErrInvalidInput):
		s.metrics.recordCheckout(ctx, "invalid")
	default:
		s.metrics.recordCheckout(ctx, "failed")
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
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

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	checkouts     metric.Int64Counter
	ordersPlaced  metric.Int64Counter
	ordersUpdated metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	checkouts, _ := m.Int64Counter("orders.service.checkouts", metric.WithDescription("Checkout attempts by outcome"))
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersUpdated, _ := m.Int64Counter("orders.service.orders_updated", metric.WithDescription("Number of orders updated"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{checkouts: checkouts, ordersPlaced: ordersPlaced, ordersUpdated: ordersUpdated, ordersDeleted: ordersDeleted}
}

func (m serviceMetrics) recordCheckout(ctx context.Context, outcome string) {
	if m.checkouts != nil {
		m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, storeID string) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("store.id", storeID)))
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, stateID string) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.state_id", stateID)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context, n int64) {
	if m.ordersDeleted != nil && n > 0 {
		m.ordersDeleted.Add(ctx, n)
	}
}

var _ ordersports.Service = (*Service)(nil)
