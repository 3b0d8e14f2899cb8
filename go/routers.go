package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouterWithGinEngine adds the routes to an existing engine so callers can install middleware first.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc is the default handler for not yet implemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handlers of each API.
type ApiHandleFunctions struct {
	CheckoutAPI    CheckoutAPI
	OrdersAPI      OrdersAPI
	OrderStatesAPI OrderStatesAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Checkout", http.MethodPost, "/:store_id/checkout", handleFunctions.CheckoutAPI.Checkout},
		{"ListOrders", http.MethodGet, "/:store_id/orders", handleFunctions.OrdersAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/:store_id/orders/:order_id", handleFunctions.OrdersAPI.GetOrder},
		{"UpdateOrder", http.MethodPatch, "/:store_id/orders/:order_id", handleFunctions.OrdersAPI.UpdateOrder},
		{"DeleteOrder", http.MethodDelete, "/:store_id/orders/:order_id", handleFunctions.OrdersAPI.DeleteOrder},
		{"ListOrderStates", http.MethodGet, "/:store_id/orderstates", handleFunctions.OrderStatesAPI.ListOrderStates},
	}
}
