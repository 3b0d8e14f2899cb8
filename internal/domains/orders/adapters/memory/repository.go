package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Items live in their own table and are never cascaded.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	items  map[string][]domain.OrderItem
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[string]domain.Order{},
		items:  map[string][]domain.OrderItem{},
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return nil, errors.New("order already exists")
	}
	row := *order
	row.Items = nil
	r.orders[order.ID] = row
	r.items[order.ID] = append([]domain.OrderItem(nil), order.Items...)
	return r.load(order.ID), nil
}

func (r *Repository) Find(_ context.Context, storeID, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.orders[orderID]
	if !ok || row.StoreID != storeID {
		return nil, ports.ErrNotFound
	}
	return r.load(orderID), nil
}

func (r *Repository) FindForCustomer(_ context.Context, storeID, orderID, userID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.orders[orderID]
	if !ok || row.StoreID != storeID || row.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return r.load(orderID), nil
}

func (r *Repository) ListForCustomer(_ context.Context, storeID, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for id, row := range r.orders {
		if row.StoreID == storeID && row.UserID == userID {
			list = append(list, r.load(id))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) Update(_ context.Context, storeID, orderID, userID string, change domain.Change) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.orders[orderID]
	if !ok || row.StoreID != storeID || row.UserID != userID {
		return nil, ports.ErrNotFound
	}
	row.Apply(change, time.Now().UTC())
	r.orders[orderID] = row
	return r.load(orderID), nil
}

func (r *Repository) DeleteItems(_ context.Context, orderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items[orderID]))
	delete(r.items, orderID)
	return n, nil
}

func (r *Repository) Delete(_ context.Context, orderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items[orderID]) > 0 {
		return 0, ports.ErrOrderHasItems
	}
	if _, ok := r.orders[orderID]; !ok {
		return 0, nil
	}
	delete(r.orders, orderID)
	return 1, nil
}

func (r *Repository) ListStale(_ context.Context, stateID string, before time.Time, limit int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for id, row := range r.orders {
		if !row.IsPaid && row.OrderStateID == stateID && row.CreatedAt.Before(before) {
			list = append(list, r.load(id))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ItemsOf returns the stored items of an order, including orphans left after a failed delete.
func (r *Repository) ItemsOf(orderID string) []domain.OrderItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.OrderItem(nil), r.items[orderID]...)
}

// load must be called with the lock held.
func (r *Repository) load(orderID string) *domain.Order {
	order := r.orders[orderID]
	order.Items = append([]domain.OrderItem(nil), r.items[orderID]...)
	return &order
}
