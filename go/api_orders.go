package storeserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	"github.com/Apurer/store-admin-api/internal/platform/auth"
)

// OrdersAPI exposes the order lifecycle to the storefront and the dashboard.
type OrdersAPI struct {
	service ordersports.Service
	logger  *slog.Logger
}

// NewOrdersAPI creates an OrdersAPI backed by the orders service.
func NewOrdersAPI(service ordersports.Service, logger *slog.Logger) OrdersAPI {
	return OrdersAPI{service: service, logger: orDiscard(logger)}
}

// DeleteCount mirrors the count envelope of a bulk delete.
type DeleteCount struct {
	Count int64 `json:"count"`
}

// DeleteOrderResponse reports what the two-phase delete removed.
type DeleteOrderResponse struct {
	OrderRemoved DeleteCount `json:"orderRemoved"`
	ItemsRemoved DeleteCount `json:"itemsRemoved"`
}

// Get /:store_id/orders/:order_id
// Finds a customer's order; answers null when nothing matches
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	storeID, ok := bindPathParam(c, "store_id")
	if !ok {
		return
	}
	orderID, ok := bindPathParam(c, "order_id")
	if !ok {
		return
	}
	userID, ok := bindOptionalQuery(c, "userId")
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), orderstypes.CustomerOrderQuery{StoreID: storeID, OrderID: orderID, UserID: userID})
	if err != nil {
		respondOrdersError(c, api.logger, opOrdersGet, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromView(view))
}

// Get /:store_id/orders
// Lists a customer's orders, newest first
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	storeID, ok := bindPathParam(c, "store_id")
	if !ok {
		return
	}
	userID, ok := bindOptionalQuery(c, "userId")
	if !ok {
		return
	}
	views, err := api.service.ListOrders(c.Request.Context(), orderstypes.ListOrdersQuery{StoreID: storeID, UserID: userID})
	if err != nil {
		respondOrdersError(c, api.logger, opOrdersList, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromViews(views))
}

// Patch /:store_id/orders/:order_id
// Changes state, payment flag and contact details of an order
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	storeID, ok := bindPathParam(c, "store_id")
	if !ok {
		return
	}
	orderID, ok := bindPathParam(c, "order_id")
	if !ok {
		return
	}
	principal := auth.PrincipalFrom(c)
	if principal == "" {
		respondOrdersError(c, api.logger, opOrdersPatch, ordersapp.ErrUnauthenticated)
		return
	}
	var payload ordershttpmapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := ordershttpmapper.ToUpdateInput(storeID, orderID, principal, payload)
	view, err := api.service.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		respondOrdersError(c, api.logger, opOrdersPatch, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromView(view))
}

// Delete /:store_id/orders/:order_id
// Removes the order's items and then the order
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	storeID, ok := bindPathParam(c, "store_id")
	if !ok {
		return
	}
	orderID, ok := bindPathParam(c, "order_id")
	if !ok {
		return
	}
	input := orderstypes.DeleteOrderInput{StoreID: storeID, OrderID: orderID, PrincipalID: auth.PrincipalFrom(c)}
	result, err := api.service.DeleteOrder(c.Request.Context(), input)
	if err != nil {
		respondOrdersError(c, api.logger, opOrdersDelete, err)
		return
	}
	c.JSON(http.StatusOK, DeleteOrderResponse{
		OrderRemoved: DeleteCount{Count: result.OrdersRemoved},
		ItemsRemoved: DeleteCount{Count: result.ItemsRemoved},
	})
}
