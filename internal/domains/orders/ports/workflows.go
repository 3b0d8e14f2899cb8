package ports

import (
	"context"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
)

// CheckoutWorkflows runs the checkout sequence, either inline or on a durable engine.
type CheckoutWorkflows interface {
	Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error)
}
