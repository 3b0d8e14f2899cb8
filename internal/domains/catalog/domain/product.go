package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductID = errors.New("product id is required")
	ErrEmptyStoreID   = errors.New("store id is required")
	ErrEmptyName      = errors.New("product name is required")
	ErrNegativePrice  = errors.New("product price must not be negative")
	ErrNegativeStock  = errors.New("product quantity must not be negative")
)

// Product is the catalog entry a cart line points at.
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

// NewProduct validates and constructs a Product.
func NewProduct(id, storeID, name string, price decimal.Decimal, quantity int) (*Product, error) {
	p := &Product{
		ID:       strings.TrimSpace(id),
		StoreID:  strings.TrimSpace(storeID),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the product invariants.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyProductID
	}
	if p.StoreID == "" {
		return ErrEmptyStoreID
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// HasStock reports whether requested units are available.
func (p *Product) HasStock(requested int) bool {
	return requested <= p.Quantity
}

// ReplaceImages swaps the image list, dropping blank entries.
func (p *Product) ReplaceImages(urls []string) {
	images := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			images = append(images, u)
		}
	}
	p.Images = images
}
