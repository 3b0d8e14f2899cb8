package types

import "github.com/Apurer/store-admin-api/internal/domains/orders/domain"

// CheckoutInput is a storefront cart submitted for payment.
type CheckoutInput struct {
	StoreID string
	UserID  string
	Lines   []domain.CartLine
}

// PlacedOrder is the persisted order together with the priced lines it will be charged for.
type PlacedOrder struct {
	Order     *domain.Order
	LineItems []domain.PricedLineItem
}

// CheckoutResult carries the hosted payment redirect.
type CheckoutResult struct {
	OrderID   string
	SessionID string
	URL       string
}
