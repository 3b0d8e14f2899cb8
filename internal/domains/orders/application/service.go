package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

const defaultPurgeLimit = 100

// Config holds the checkout and lifecycle settings.
type Config struct {
	Currency       string
	InitialStateID string
	// StorefrontURL is the base the payment provider redirects back to.
	StorefrontURL string
	// RequireDeleteAuthorization enables the principal and ownership checks on delete.
	RequireDeleteAuthorization bool
}

// Service orchestrates the checkout and order lifecycle use cases.
type Service struct {
	repo     ports.Repository
	states   ports.StateRepository
	catalog  ports.CatalogReader
	stores   ports.StoreDirectory
	payments ports.PaymentSessionProvider
	events   ports.EventPublisher
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithEventPublisher announces order changes. Publishing is best effort.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the orders service with its collaborators.
func NewService(
	repo ports.Repository,
	states ports.StateRepository,
	catalog ports.CatalogReader,
	stores ports.StoreDirectory,
	payments ports.PaymentSessionProvider,
	cfg Config,
	opts ...Option,
) *Service {
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "USD"
	}
	if strings.TrimSpace(cfg.InitialStateID) == "" {
		cfg.InitialStateID = "1"
	}
	s := &Service{
		repo:     repo,
		states:   states,
		catalog:  catalog,
		stores:   stores,
		payments: payments,
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Checkout places the order and then requests its payment session.
// A failed session leaves the persisted order unpaid; nothing is rolled back.
func (s *Service) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	placed, err := s.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.StartPayment(ctx, *placed)
}

// PlaceOrder validates the cart against the catalog and persists an unpaid order in the initial state.
func (s *Service) PlaceOrder(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.PlacedOrder, error) {
	cart, err := domain.NewCart(input.Lines)
	if err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(input.StoreID) == "" {
		return nil, missingField("store_id")
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, missingField("userId")
	}

	ids := cart.ProductIDs()
	found, err := s.catalog.FindProducts(ctx, input.StoreID, ids)
	if err != nil {
		return nil, err
	}
	products := domain.IndexProducts(found)
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrCatalogInconsistent, id)
		}
	}

	initial, err := s.states.Get(ctx, s.cfg.InitialStateID)
	if err != nil {
		if errors.Is(err, ports.ErrStateNotFound) {
			return nil, fmt.Errorf("%w: id %q", ErrInitialStateMissing, s.cfg.InitialStateID)
		}
		return nil, err
	}

	if shortages := cart.FindShortages(products); len(shortages) > 0 {
		return nil, &StockShortageError{Shortages: shortages}
	}

	lineItems := cart.PriceLines(products, s.cfg.Currency)
	if len(lineItems) == 0 {
		return nil, ErrNoLineItems
	}
	items := make([]domain.OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, domain.OrderItem{ID: s.newID(), ProductID: line.ProductID, Quantity: line.Quantity})
	}
	order, err := domain.NewOrder(s.newID(), input.StoreID, input.UserID, initial.ID, items, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderPlaced{
		BaseEvent:    domain.BaseEvent{OrderID: saved.ID, StoreID: saved.StoreID, Timestamp: saved.CreatedAt},
		UserID:       saved.UserID,
		OrderStateID: saved.OrderStateID,
		ItemCount:    len(saved.Items),
	})
	return &orderstypes.PlacedOrder{Order: saved, LineItems: lineItems}, nil
}

// StartPayment requests the hosted payment session for a placed order.
func (s *Service) StartPayment(ctx context.Context, placed orderstypes.PlacedOrder) (*orderstypes.CheckoutResult, error) {
	if placed.Order == nil {
		return nil, errors.New("placed order is nil")
	}
	orderID := placed.Order.ID
	session, err := s.payments.CreateSession(ctx, domain.PaymentSessionRequest{
		OrderID:               orderID,
		LineItems:             placed.LineItems,
		SuccessURL:            s.redirectURL("success", orderID),
		CancelURL:             s.redirectURL("canceled", orderID),
		RequireBillingAddress: true,
		RequirePhone:          true,
		Metadata:              map[string]string{"order_id": orderID},
	})
	if err != nil {
		return nil, fmt.Errorf("%w for order %s: %w", ErrPaymentSession, orderID, err)
	}
	if session == nil || session.URL == "" {
		return nil, fmt.Errorf("%w for order %s: empty redirect url", ErrPaymentSession, orderID)
	}
	return &orderstypes.CheckoutResult{OrderID: orderID, SessionID: session.ID, URL: session.URL}, nil
}

func (s *Service) redirectURL(outcome, orderID string) string {
	base := strings.TrimRight(s.cfg.StorefrontURL, "/")
	return base + "/cart?" + outcome + "=1&orderId=" + url.QueryEscape(orderID)
}

// GetOrder returns the customer's order, or nil when nothing matches.
func (s *Service) GetOrder(ctx context.Context, query orderstypes.CustomerOrderQuery) (*orderstypes.OrderView, error) {
	if missing := query.MissingFields(); len(missing) > 0 {
		return nil, missingField(missing[0])
	}
	order, err := s.repo.FindForCustomer(ctx, query.StoreID, query.OrderID, query.UserID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, query.StoreID, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListOrders returns the customer's orders in the store, newest first.
func (s *Service) ListOrders(ctx context.Context, query orderstypes.ListOrdersQuery) ([]*orderstypes.OrderView, error) {
	if missing := query.MissingFields(); len(missing) > 0 {
		return nil, missingField(missing[0])
	}
	orders, err := s.repo.ListForCustomer(ctx, query.StoreID, query.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, query.StoreID, orders)
}

// UpdateOrder overwrites state, paid flag, phone and address of a store's order.
// The order owner is taken from the input as supplied, not from the principal.
func (s *Service) UpdateOrder(ctx context.Context, input orderstypes.UpdateOrderInput) (*orderstypes.OrderView, error) {
	if strings.TrimSpace(input.PrincipalID) == "" {
		return nil, ErrUnauthenticated
	}
	if missing := input.MissingFields(); len(missing) > 0 {
		return nil, missingField(missing[0])
	}
	owner, err := s.stores.IsOwner(ctx, input.StoreID, input.PrincipalID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrForbidden
	}
	if _, err := s.states.Get(ctx, input.OrderStateID); err != nil {
		if errors.Is(err, ports.ErrStateNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}
	updated, err := s.repo.Update(ctx, input.StoreID, input.OrderID, input.UserID, input.Change())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderUpdated{
		BaseEvent:    domain.BaseEvent{OrderID: updated.ID, StoreID: updated.StoreID, Timestamp: s.now()},
		OrderStateID: updated.OrderStateID,
		IsPaid:       updated.IsPaid,
	})
	views, err := s.buildViews(ctx, input.StoreID, []*domain.Order{updated})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// DeleteOrder removes all items of the order and then the order itself.
func (s *Service) DeleteOrder(ctx context.Context, input orderstypes.DeleteOrderInput) (*orderstypes.DeleteResult, error) {
	if missing := input.MissingFields(); len(missing) > 0 {
		return nil, missingField(missing[0])
	}
	if s.cfg.RequireDeleteAuthorization {
		if strings.TrimSpace(input.PrincipalID) == "" {
			return nil, ErrUnauthenticated
		}
		owner, err := s.stores.IsOwner(ctx, input.StoreID, input.PrincipalID)
		if err != nil {
			return nil, err
		}
		if !owner {
			return nil, ErrForbidden
		}
	}
	order, err := s.repo.Find(ctx, input.StoreID, input.OrderID)
	if err != nil {
		return nil, err
	}
	return s.removeOrder(ctx, order)
}

func (s *Service) removeOrder(ctx context.Context, order *domain.Order) (*orderstypes.DeleteResult, error) {
	itemsRemoved, err := s.repo.DeleteItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	ordersRemoved, err := s.repo.Delete(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderDeleted{
		BaseEvent:    domain.BaseEvent{OrderID: order.ID, StoreID: order.StoreID, Timestamp: s.now()},
		ItemsRemoved: itemsRemoved,
	})
	return &orderstypes.DeleteResult{OrdersRemoved: ordersRemoved, ItemsRemoved: itemsRemoved}, nil
}

// ListOrderStates returns the lookup table ordered by id.
func (s *Service) ListOrderStates(ctx context.Context) ([]domain.OrderState, error) {
	return s.states.List(ctx)
}

// PurgeStaleOrders deletes unpaid orders still in the initial state after the given age.
func (s *Service) PurgeStaleOrders(ctx context.Context, input orderstypes.PurgeInput) (*orderstypes.PurgeResult, error) {
	if input.OlderThan <= 0 {
		return nil, fmt.Errorf("%w: purge age must be positive", ErrInvalidInput)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPurgeLimit
	}
	stale, err := s.repo.ListStale(ctx, s.cfg.InitialStateID, s.now().Add(-input.OlderThan), limit)
	if err != nil {
		return nil, err
	}
	result := &orderstypes.PurgeResult{Matched: len(stale)}
	for _, order := range stale {
		if input.DryRun {
			result.OrderIDs = append(result.OrderIDs, order.ID)
			continue
		}
		if _, err := s.removeOrder(ctx, order); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return result, err
		}
		result.Deleted++
		result.OrderIDs = append(result.OrderIDs, order.ID)
	}
	return result, nil
}

func (s *Service) buildViews(ctx context.Context, storeID string, orders []*domain.Order) ([]*orderstypes.OrderView, error) {
	var ids []string
	seen := map[string]struct{}{}
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	products := map[string]domain.Product{}
	if len(ids) > 0 {
		found, err := s.catalog.FindProducts(ctx, storeID, ids)
		if err != nil {
			return nil, err
		}
		products = domain.IndexProducts(found)
	}
	states, err := s.states.List(ctx)
	if err != nil {
		return nil, err
	}
	stateByID := make(map[string]domain.OrderState, len(states))
	for _, st := range states {
		stateByID[st.ID] = st
	}
	prices := domain.Prices(products)

	views := make([]*orderstypes.OrderView, 0, len(orders))
	for _, order := range orders {
		view := &orderstypes.OrderView{
			Order:      order,
			Items:      make([]orderstypes.ItemView, 0, len(order.Items)),
			TotalPrice: domain.Total(order.Items, prices),
		}
		if st, ok := stateByID[order.OrderStateID]; ok {
			st := st
			view.State = &st
		}
		for _, item := range order.Items {
			iv := orderstypes.ItemView{Item: item}
			if p, ok := products[item.ProductID]; ok {
				p := p
				iv.Product = &p
			}
			view.Items = append(view.Items, iv)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) publish(ctx context.Context, events ...domain.Event) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, ev := range events {
			s.logger.WarnContext(ctx, "failed to publish order event",
				slog.String("event", ev.EventName()),
				slog.String("order.id", ev.AggregateID()),
				slog.String("error", err.Error()))
		}
	}
}

var _ ports.Service = (*Service)(nil)
