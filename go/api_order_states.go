package storeserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

// OrderStatesAPI serves the order state lookup table.
type OrderStatesAPI struct {
	service ordersports.Service
	logger  *slog.Logger
}

func NewOrderStatesAPI(service ordersports.Service, logger *slog.Logger) OrderStatesAPI {
	return OrderStatesAPI{service: service, logger: orDiscard(logger)}
}

// Get /:store_id/orderstates
// Lists every order state ordered by id
func (api *OrderStatesAPI) ListOrderStates(c *gin.Context) {
	if _, ok := bindPathParam(c, "store_id"); !ok {
		return
	}
	states, err := api.service.ListOrderStates(c.Request.Context())
	if err != nil {
		respondOrdersError(c, api.logger, opOrderStatesList, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromStates(states))
}
