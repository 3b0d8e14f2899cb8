package storeserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

// CheckoutAPI turns a storefront cart into an order and a hosted payment page.
type CheckoutAPI struct {
	service   ordersports.Service
	workflows ordersports.CheckoutWorkflows
	logger    *slog.Logger
}

// NewCheckoutAPI creates a CheckoutAPI. When workflows is nil checkout runs on the service directly.
func NewCheckoutAPI(service ordersports.Service, workflows ordersports.CheckoutWorkflows, logger *slog.Logger) CheckoutAPI {
	return CheckoutAPI{service: service, workflows: workflows, logger: orDiscard(logger)}
}

// CheckoutResponse carries the payment page the storefront redirects to.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// Post /:store_id/checkout
// Creates an unpaid order and returns the payment session URL
func (api *CheckoutAPI) Checkout(c *gin.Context) {
	storeID, ok := bindPathParam(c, "store_id")
	if !ok {
		return
	}
	var payload ordershttpmapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := api.checkout(c.Request.Context(), ordershttpmapper.ToCheckoutInput(storeID, payload))
	if err != nil {
		respondOrdersError(c, api.logger, opCheckout, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutResponse{URL: result.URL})
}

func (api *CheckoutAPI) checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
