package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrderID    = errors.New("order id is required")
	ErrEmptyStoreID    = errors.New("store id is required")
	ErrEmptyUserID     = errors.New("customer id is required")
	ErrEmptyStateID    = errors.New("order state id is required")
	ErrNoOrderItems    = errors.New("order must contain at least one item")
	ErrItemOwnership   = errors.New("order item belongs to another order")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Order is a customer purchase within a store. Items are owned exclusively by the order.
type Order struct {
	ID           string
	StoreID      string
	UserID       string
	IsPaid       bool
	OrderStateID string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []OrderItem
}

// OrderItem is one cart line captured at checkout. Price is not stored; it is read from the catalog.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
}

// NewOrder builds an unpaid order in the given initial state.
func NewOrder(id, storeID, userID, initialStateID string, items []OrderItem, createdAt time.Time) (*Order, error) {
	o := &Order{
		ID:           strings.TrimSpace(id),
		StoreID:      strings.TrimSpace(storeID),
		UserID:       strings.TrimSpace(userID),
		OrderStateID: strings.TrimSpace(initialStateID),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
		Items:        make([]OrderItem, 0, len(items)),
	}
	for _, item := range items {
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate enforces the order invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyOrderID
	}
	if o.StoreID == "" {
		return ErrEmptyStoreID
	}
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	if o.OrderStateID == "" {
		return ErrEmptyStateID
	}
	if len(o.Items) == 0 {
		return ErrNoOrderItems
	}
	for _, item := range o.Items {
		if item.OrderID != o.ID {
			return ErrItemOwnership
		}
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrEmptyProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Apply overwrites the mutable fields of the order.
func (o *Order) Apply(change Change, at time.Time) {
	o.OrderStateID = change.OrderStateID
	o.IsPaid = change.IsPaid
	o.Phone = change.Phone
	o.Address = change.Address
	o.UpdatedAt = at
}

// Change carries the fields an order update may overwrite.
type Change struct {
	OrderStateID string
	IsPaid       bool
	Phone        string
	Address      string
}

// Total sums quantity times the current price of each item. Items whose product is unknown count as zero.
func Total(items []OrderItem, prices map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
