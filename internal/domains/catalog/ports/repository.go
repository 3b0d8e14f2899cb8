package ports

import (
	"context"
	"errors"

	"github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStoreNotFound   = errors.New("store not found")
)

// Repository reads and writes catalog products.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products of storeID among ids. Unknown ids are skipped, not errors.
	FindByIDs(ctx context.Context, storeID string, ids []string) ([]domain.Product, error)
}

// StoreRepository exposes store records and ownership.
type StoreRepository interface {
	Save(ctx context.Context, store *domain.Store) (*domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	IsOwner(ctx context.Context, storeID, userID string) (bool, error)
}
