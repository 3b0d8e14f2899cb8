package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
	"github.com/Apurer/store-admin-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository      = (*Repository)(nil)
	_ ports.StoreRepository = (*StoreRepository)(nil)
)

// Repository reads catalog products from PostgreSQL using GORM. Schema is owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed product repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID         string          `gorm:"primaryKey;column:product_id;size:64"`
	StoreID    string          `gorm:"column:store_id;size:64;index"`
	Name       string          `gorm:"column:name"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity   int             `gorm:"column:quantity"`
	Images     pq.StringArray  `gorm:"column:images;type:text[]"`
	IsFeatured bool            `gorm:"column:is_featured"`
	IsArchived bool            `gorm:"column:is_archived"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"price":       record.Price,
				"quantity":    record.Quantity,
				"images":      record.Images,
				"is_featured": record.IsFeatured,
				"is_archived": record.IsArchived,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a single product.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByIDs loads the store's products with the given ids in a single query.
func (r *Repository) FindByIDs(ctx context.Context, storeID string, ids []string) ([]domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id IN ?", storeID, ids).
		Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, *records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   p.Quantity,
		Images:     pq.StringArray(p.Images),
		IsFeatured: p.IsFeatured,
		IsArchived: p.IsArchived,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:         r.ID,
		StoreID:    r.StoreID,
		Name:       r.Name,
		Price:      r.Price,
		Quantity:   r.Quantity,
		Images:     []string(r.Images),
		IsFeatured: r.IsFeatured,
		IsArchived: r.IsArchived,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// StoreRepository resolves store ownership from PostgreSQL.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

type storeRecord struct {
	ID        string    `gorm:"primaryKey;column:store_id;size:64"`
	Name      string    `gorm:"column:name"`
	UserID    string    `gorm:"column:user_id;size:128;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

func (r *StoreRepository) Save(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres store repository not configured")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	record := storeRecord{ID: store.ID, Name: store.Name, UserID: store.OwnerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "user_id", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, store.ID)
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres store repository not configured")
	}
	var record storeRecord
	if err := r.db.WithContext(ctx).First(&record, "store_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrStoreNotFound
		}
		return nil, err
	}
	return &domain.Store{ID: record.ID, Name: record.Name, OwnerID: record.UserID}, nil
}

// IsOwner looks the store up by (store_id, user_id) the same way the dashboard does.
func (r *StoreRepository) IsOwner(ctx context.Context, storeID, userID string) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("postgres store repository not configured")
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&storeRecord{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
