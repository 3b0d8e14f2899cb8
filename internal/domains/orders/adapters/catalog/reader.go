package catalog

import (
	"context"

	catalogdomain "github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/store-admin-api/internal/domains/catalog/ports"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var (
	_ ports.CatalogReader  = (*Reader)(nil)
	_ ports.StoreDirectory = (*StoreDirectory)(nil)
)

// Reader exposes the catalog context to the orders context.
type Reader struct {
	products catalogports.Repository
}

func NewReader(products catalogports.Repository) *Reader {
	return &Reader{products: products}
}

func (r *Reader) FindProducts(ctx context.Context, storeID string, ids []string) ([]domain.Product, error) {
	found, err := r.products.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(found))
	for _, p := range found {
		products = append(products, toOrdersProduct(p))
	}
	return products, nil
}

func toOrdersProduct(p catalogdomain.Product) domain.Product {
	return domain.Product{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   p.Quantity,
		Images:     append([]string(nil), p.Images...),
		IsFeatured: p.IsFeatured,
		IsArchived: p.IsArchived,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// StoreDirectory answers ownership questions from the catalog's store records.
type StoreDirectory struct {
	stores catalogports.StoreRepository
}

func NewStoreDirectory(stores catalogports.StoreRepository) *StoreDirectory {
	return &StoreDirectory{stores: stores}
}

func (d *StoreDirectory) IsOwner(ctx context.Context, storeID, userID string) (bool, error) {
	return d.stores.IsOwner(ctx, storeID, userID)
}
