package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
	"github.com/Apurer/store-admin-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository      = (*Repository)(nil)
	_ ports.StoreRepository = (*StoreRepository)(nil)
)

// Repository is an in-memory product catalog.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	clone := cloneProduct(product)
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.products[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) FindByIDs(_ context.Context, storeID string, ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(ids))
	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		product, ok := r.products[id]
		if !ok || product.StoreID != storeID {
			continue
		}
		result = append(result, *cloneProduct(product))
	}
	return result, nil
}

// Delete drops a product; used by tests to simulate catalog drift.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	if p.Images != nil {
		clone.Images = append([]string(nil), p.Images...)
	}
	return &clone
}

// StoreRepository is an in-memory store directory.
type StoreRepository struct {
	stores sync.Map
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{}
}

func (r *StoreRepository) Save(_ context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	clone := *store
	r.stores.Store(clone.ID, clone)
	return &clone, nil
}

func (r *StoreRepository) GetByID(_ context.Context, id string) (*domain.Store, error) {
	value, ok := r.stores.Load(id)
	if !ok {
		return nil, ports.ErrStoreNotFound
	}
	store := value.(domain.Store)
	return &store, nil
}

func (r *StoreRepository) IsOwner(ctx context.Context, storeID, userID string) (bool, error) {
	store, err := r.GetByID(ctx, storeID)
	if errors.Is(err, ports.ErrStoreNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return store.OwnedBy(userID), nil
}
