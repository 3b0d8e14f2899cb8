package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewCart_RejectsEmptyAndInvalidLines(t *testing.T) {
	_, err := NewCart(nil)
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = NewCart([]CartLine{{ProductID: " ", Quantity: 1}})
	require.ErrorIs(t, err, ErrEmptyProductID)

	_, err = NewCart([]CartLine{{ProductID: "P1", Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_FindShortagesReportsEveryInsufficientProduct(t *testing.T) {
	cart, err := NewCart([]CartLine{
		{ProductID: "P1", Quantity: 10},
		{ProductID: "P2", Quantity: 1},
		{ProductID: "P3", Quantity: 4},
	})
	require.NoError(t, err)
	products := IndexProducts([]Product{
		{ID: "P1", Name: "Shirt", Price: decimal.RequireFromString("10.00"), Quantity: 5},
		{ID: "P2", Name: "Hat", Price: decimal.RequireFromString("3.50"), Quantity: 1},
		{ID: "P3", Name: "Sock", Price: decimal.RequireFromString("1.00"), Quantity: 3},
	})

	shortages := cart.FindShortages(products)
	require.Len(t, shortages, 2)
	require.Equal(t, "P1", shortages[0].Product.ID)
	require.Equal(t, 10, shortages[0].Quantity)
	require.Equal(t, "P3", shortages[1].Product.ID)
	require.Equal(t, 4, shortages[1].Quantity)
}

func TestCart_DuplicateLinesShareStock(t *testing.T) {
	cart, err := NewCart([]CartLine{
		{ProductID: "P1", Quantity: 3},
		{ProductID: "P1", Quantity: 3},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"P1"}, cart.ProductIDs())

	shortages := cart.FindShortages(IndexProducts([]Product{{ID: "P1", Quantity: 5}}))
	require.Len(t, shortages, 1)
	require.Equal(t, 6, shortages[0].Quantity)
}

func TestCart_PriceLinesConvertsToCents(t *testing.T) {
	cart, err := NewCart([]CartLine{{ProductID: "P1", Quantity: 2}})
	require.NoError(t, err)
	products := IndexProducts([]Product{{ID: "P1", Name: "Shirt", Price: decimal.RequireFromString("10.00"), Quantity: 5}})

	lines := cart.PriceLines(products, "USD")
	require.Equal(t, []PricedLineItem{{ProductID: "P1", Name: "Shirt", Quantity: 2, UnitAmount: 1000, Currency: "USD"}}, lines)
}

func TestToMinorUnits_RoundsHalfCents(t *testing.T) {
	require.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99")))
	require.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.005")))
	require.Equal(t, int64(0), ToMinorUnits(decimal.Zero))
}

func TestNewOrder_StartsUnpaidAndOwnsItems(t *testing.T) {
	now := time.Now().UTC()
	order, err := NewOrder("o-1", "s-1", "u-1", "1", []OrderItem{{ID: "i-1", ProductID: "P1", Quantity: 2}}, now)
	require.NoError(t, err)
	require.False(t, order.IsPaid)
	require.Equal(t, "1", order.OrderStateID)
	require.Equal(t, "o-1", order.Items[0].OrderID)

	_, err = NewOrder("o-2", "s-1", "u-1", "1", nil, now)
	require.ErrorIs(t, err, ErrNoOrderItems)
}

func TestTotal_UsesCurrentPrices(t *testing.T) {
	items := []OrderItem{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 3}}
	prices := map[string]decimal.Decimal{
		"P1": decimal.RequireFromString("10.00"),
		"P2": decimal.RequireFromString("0.50"),
	}
	require.True(t, decimal.RequireFromString("21.50").Equal(Total(items, prices)))

	prices["P1"] = decimal.RequireFromString("12.00")
	require.True(t, decimal.RequireFromString("25.50").Equal(Total(items, prices)))
}
