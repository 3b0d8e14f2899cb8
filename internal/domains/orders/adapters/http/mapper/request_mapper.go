package mapper

import (
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// CheckoutItem is one cart line in the checkout body.
type CheckoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest is the body of POST /{store_id}/checkout.
type CheckoutRequest struct {
	Items  []CheckoutItem `json:"items" binding:"dive"`
	UserID string         `json:"userId"`
}

// UpdateOrderRequest is the body of PATCH /{store_id}/orders/{order_id}.
// Pointers distinguish absent fields from zero values.
type UpdateOrderRequest struct {
	UserID       *string `json:"userId"`
	OrderStateID *string `json:"order_state_id"`
	IsPaid       *bool   `json:"isPaid"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}

// ToCheckoutInput keeps duplicate lines as separate cart lines.
func ToCheckoutInput(storeID string, req CheckoutRequest) orderstypes.CheckoutInput {
	lines := make([]domain.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return orderstypes.CheckoutInput{StoreID: storeID, UserID: req.UserID, Lines: lines}
}

// ToUpdateInput maps absent body fields to empty values so the service reports them as missing.
func ToUpdateInput(storeID, orderID, principalID string, req UpdateOrderRequest) orderstypes.UpdateOrderInput {
	return orderstypes.UpdateOrderInput{
		StoreID:      storeID,
		OrderID:      orderID,
		PrincipalID:  principalID,
		UserID:       deref(req.UserID),
		OrderStateID: deref(req.OrderStateID),
		IsPaid:       req.IsPaid,
		Phone:        deref(req.Phone),
		Address:      deref(req.Address),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
