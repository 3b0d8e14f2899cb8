package ports

import (
	"context"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// Service defines the orders use cases exposed to adapters (inbound/driving port).
type Service interface {
	Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error)
	PlaceOrder(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.PlacedOrder, error)
	StartPayment(ctx context.Context, placed orderstypes.PlacedOrder) (*orderstypes.CheckoutResult, error)
	GetOrder(ctx context.Context, query orderstypes.CustomerOrderQuery) (*orderstypes.OrderView, error)
	ListOrders(ctx context.Context, query orderstypes.ListOrdersQuery) ([]*orderstypes.OrderView, error)
	UpdateOrder(ctx context.Context, input orderstypes.UpdateOrderInput) (*orderstypes.OrderView, error)
	DeleteOrder(ctx context.Context, input orderstypes.DeleteOrderInput) (*orderstypes.DeleteResult, error)
	ListOrderStates(ctx context.Context) ([]domain.OrderState, error)
	PurgeStaleOrders(ctx context.Context, input orderstypes.PurgeInput) (*orderstypes.PurgeResult, error)
}
