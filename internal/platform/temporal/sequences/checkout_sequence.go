package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	checkoutactivities "github.com/Apurer/store-admin-api/internal/platform/temporal/activities/checkout"
)

// RunCheckoutSequence places the order and then requests its payment session.
// Each step is attempted once; the order is not rolled back when the session fails.
func RunCheckoutSequence(ctx workflow.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "storeId", input.StoreID)
	singleAttempt := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, singleAttempt)

	var placed orderstypes.PlacedOrder
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.PlaceOrderActivityName, input).Get(ctx, &placed); err != nil {
		logger.Error("checkout sequence failed to place order", "storeId", input.StoreID, "error", err)
		return nil, err
	}
	orderID := ""
	if placed.Order != nil {
		orderID = placed.Order.ID
	}
	logger.Info("checkout sequence placed order", "orderId", orderID)

	var result orderstypes.CheckoutResult
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.StartPaymentActivityName, placed).Get(ctx, &result); err != nil {
		logger.Warn("checkout sequence left order unpaid", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("checkout sequence completed", "orderId", orderID)
	return &result, nil
}
