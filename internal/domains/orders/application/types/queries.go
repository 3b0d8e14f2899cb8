package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// CustomerOrderQuery addresses one order of one customer within a store.
type CustomerOrderQuery struct {
	StoreID string
	OrderID string
	UserID  string
}

// MissingFields lists absent identifiers in request order.
func (q CustomerOrderQuery) MissingFields() []string {
	return missing(
		field{"store_id", q.StoreID},
		field{"order_id", q.OrderID},
		field{"userId", q.UserID},
	)
}

// ListOrdersQuery selects a customer's orders within a store.
type ListOrdersQuery struct {
	StoreID string
	UserID  string
}

func (q ListOrdersQuery) MissingFields() []string {
	return missing(field{"store_id", q.StoreID}, field{"userId", q.UserID})
}

// OrderView is an order with its items, their current products, its state and the derived total.
type OrderView struct {
	Order      *domain.Order
	Items      []ItemView
	State      *domain.OrderState
	TotalPrice decimal.Decimal
}

// ItemView pairs an order item with the product it references. Product is nil when the catalog no longer has it.
type ItemView struct {
	Item    domain.OrderItem
	Product *domain.Product
}

type field struct {
	name  string
	value string
}

func missing(fields ...field) []string {
	var names []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			names = append(names, f.name)
		}
	}
	return names
}
