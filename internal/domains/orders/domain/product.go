package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the read-only catalog view the orders context works with.
type Product struct {
	ID         string
	StoreID    string
	Name       string
	Price      decimal.Decimal
	Quantity   int
	Images     []string
	IsFeatured bool
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IndexProducts keys products by id.
func IndexProducts(products []Product) map[string]Product {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index
}

// Prices extracts the current price of each product.
func Prices(products map[string]Product) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(products))
	for id, p := range products {
		prices[id] = p.Price
	}
	return prices
}
