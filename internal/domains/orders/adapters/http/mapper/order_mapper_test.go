package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

func TestFromView_UsesStorefrontFieldNames(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	view := &orderstypes.OrderView{
		Order: &domain.Order{ID: "o-1", StoreID: "s-1", UserID: "u-1", OrderStateID: "1", CreatedAt: created},
		Items: []orderstypes.ItemView{
			{Item: domain.OrderItem{ID: "i-1", OrderID: "o-1", ProductID: "P1", Quantity: 2}, Product: &domain.Product{ID: "P1", Name: "Shirt", Price: decimal.RequireFromString("10.00")}},
			{Item: domain.OrderItem{ID: "i-2", OrderID: "o-1", ProductID: "gone", Quantity: 1}},
		},
		State:      &domain.OrderState{ID: "1", Name: "Created", Position: 1},
		TotalPrice: decimal.RequireFromString("20.00"),
	}

	raw, err := json.Marshal(FromView(view))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Equal(t, "o-1", decoded["order_id"])
	require.Equal(t, "u-1", decoded["userId"])
	require.Equal(t, false, decoded["isPaid"])
	require.Equal(t, "20", decoded["totalPrice"])
	require.Equal(t, "Created", decoded["orderState"].(map[string]any)["name"])
	items := decoded["orderItems"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, "Shirt", items[0].(map[string]any)["product"].(map[string]any)["name"])
	require.Nil(t, items[1].(map[string]any)["product"])
}

func TestFromView_NilIsNil(t *testing.T) {
	require.Nil(t, FromView(nil))
	require.Empty(t, FromViews(nil))
	require.NotNil(t, FromViews(nil))
}

func TestToUpdateInput_LeavesAbsentFieldsEmpty(t *testing.T) {
	paid := true
	state := "2"
	in := ToUpdateInput("s-1", "o-1", "owner-1", UpdateOrderRequest{OrderStateID: &state, IsPaid: &paid})
	require.Equal(t, []string{"userId", "phone", "address"}, in.MissingFields())
	require.Equal(t, "owner-1", in.PrincipalID)
}

func TestFromShortages(t *testing.T) {
	body := FromShortages([]domain.StockShortage{{Quantity: 10, Product: domain.Product{ID: "P1", Quantity: 5}}})
	require.Len(t, body.NonStockItems, 1)
	require.Equal(t, 10, body.NonStockItems[0].Quantity)
	require.Equal(t, 5, body.NonStockItems[0].Product.Quantity)
}
