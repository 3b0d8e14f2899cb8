package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName validates the cart and persists the unpaid order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// StartPaymentActivityName requests the hosted payment session for a placed order.
	StartPaymentActivityName = "orders.activities.StartPayment"
)

// Activities groups the checkout steps that run on the worker.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs checkout steps one to five.
func (a *Activities) PlaceOrder(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.PlacedOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "storeId", input.StoreID)
		return nil, EncodeError(errors.New("place order activity not initialized"))
	}
	logger.Info("PlaceOrder activity started", "storeId", input.StoreID, "lines", len(input.Lines))
	placed, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "storeId", input.StoreID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", placed.Order.ID)
	return placed, nil
}

// StartPayment runs checkout steps six and seven. A failure here leaves the order unpaid.
func (a *Activities) StartPayment(ctx context.Context, placed orderstypes.PlacedOrder) (*orderstypes.CheckoutResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("start payment activity not initialized")
		return nil, EncodeError(errors.New("start payment activity not initialized"))
	}
	var orderID string
	if placed.Order != nil {
		orderID = placed.Order.ID
	}
	logger.Info("StartPayment activity started", "orderId", orderID)
	result, err := a.service.StartPayment(ctx, placed)
	if err != nil {
		logger.Error("StartPayment activity failed", "orderId", orderID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("StartPayment activity completed", "orderId", orderID)
	return result, nil
}
