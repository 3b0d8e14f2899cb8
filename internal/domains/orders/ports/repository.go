package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrStateNotFound = errors.New("order state not found")
	// ErrOrderHasItems is returned when an order is deleted while items still reference it.
	ErrOrderHasItems = errors.New("order still has items")
)

// Repository persists orders and their items.
type Repository interface {
	// Create stores the order and all of its items in one atomic call.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Find(ctx context.Context, storeID, orderID string) (*domain.Order, error)
	FindForCustomer(ctx context.Context, storeID, orderID, userID string) (*domain.Order, error)
	// ListForCustomer returns the customer's orders in the store, newest first.
	ListForCustomer(ctx context.Context, storeID, userID string) ([]*domain.Order, error)
	// Update applies change to the order matching store, order and customer. No match yields ErrNotFound.
	Update(ctx context.Context, storeID, orderID, userID string, change domain.Change) (*domain.Order, error)
	DeleteItems(ctx context.Context, orderID string) (int64, error)
	// Delete removes the order row only. It fails with ErrOrderHasItems while items remain.
	Delete(ctx context.Context, orderID string) (int64, error)
	// ListStale returns unpaid orders in stateID created before the cutoff, oldest first.
	ListStale(ctx context.Context, stateID string, before time.Time, limit int) ([]*domain.Order, error)
}

// StateRepository reads the order state lookup table.
type StateRepository interface {
	// List returns every state ordered by id.
	List(ctx context.Context) ([]domain.OrderState, error)
	Get(ctx context.Context, id string) (*domain.OrderState, error)
}
