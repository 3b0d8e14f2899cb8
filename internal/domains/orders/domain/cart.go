package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cart has no items")
	ErrEmptyProductID = errors.New("product id is required")
)

// CartLine is one {product, quantity} pair submitted for checkout.
type CartLine struct {
	ProductID string
	Quantity  int
}

// Cart is a validated, non-empty list of cart lines in submission order.
type Cart []CartLine

// NewCart validates lines. Duplicate product lines are kept as separate lines.
func NewCart(lines []CartLine) (Cart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	cart := make(Cart, 0, len(lines))
	for _, line := range lines {
		line.ProductID = strings.TrimSpace(line.ProductID)
		if line.ProductID == "" {
			return nil, ErrEmptyProductID
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		cart = append(cart, line)
	}
	return cart, nil
}

// ProductIDs returns the distinct product ids in first-seen order.
func (c Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c))
	ids := make([]string, 0, len(c))
	for _, line := range c {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

// Demand totals the requested quantity per product across all lines.
func (c Cart) Demand() map[string]int {
	demand := make(map[string]int, len(c))
	for _, line := range c {
		demand[line.ProductID] += line.Quantity
	}
	return demand
}

// StockShortage reports a product whose stock cannot cover the requested quantity.
type StockShortage struct {
	Quantity int
	Product  Product
}

// FindShortages compares demand against stock and returns every insufficient product, in cart order.
// Products missing from the map are ignored; callers resolve them first.
func (c Cart) FindShortages(products map[string]Product) []StockShortage {
	demand := c.Demand()
	var shortages []StockShortage
	for _, id := range c.ProductIDs() {
		product, ok := products[id]
		if !ok {
			continue
		}
		if requested := demand[id]; requested > product.Quantity {
			shortages = append(shortages, StockShortage{Quantity: requested, Product: product})
		}
	}
	return shortages
}

// PricedLineItem is a cart line resolved to an amount the payment provider can charge.
type PricedLineItem struct {
	ProductID  string
	Name       string
	Quantity   int
	UnitAmount int64
	Currency   string
}

// PriceLines builds one priced line per cart line using the catalog price at this instant.
func (c Cart) PriceLines(products map[string]Product, currency string) []PricedLineItem {
	lines := make([]PricedLineItem, 0, len(c))
	for _, line := range c {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, PricedLineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   line.Quantity,
			UnitAmount: ToMinorUnits(product.Price),
			Currency:   currency,
		})
	}
	return lines
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a two-decimal currency amount into cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
