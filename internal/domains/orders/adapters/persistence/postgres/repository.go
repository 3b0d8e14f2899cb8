package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and order items in PostgreSQL using GORM.
// order_items references orders without ON DELETE CASCADE; callers remove items first.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID           string    `gorm:"primaryKey;column:order_id;size:64"`
	StoreID      string    `gorm:"column:store_id;size:64;index:idx_orders_store_user"`
	UserID       string    `gorm:"column:user_id;size:128;index:idx_orders_store_user"`
	IsPaid       bool      `gorm:"column:is_paid"`
	OrderStateID string    `gorm:"column:order_state_id;size:32"`
	Phone        string    `gorm:"column:phone"`
	Address      string    `gorm:"column:address"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Position preserves cart line order; item ids are random.
type orderItemRecord struct {
	ID        string `gorm:"primaryKey;column:order_item_id;size:64"`
	OrderID   string `gorm:"column:order_id;size:64;index"`
	ProductID string `gorm:"column:product_id;size:64"`
	Quantity  int    `gorm:"column:quantity"`
	Position  int    `gorm:"column:position"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order and its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	items := toItemRecords(order.Items)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, order.StoreID, order.ID)
}

func (r *Repository) Find(ctx context.Context, storeID, orderID string) (*domain.Order, error) {
	return r.first(ctx, "order_id = ? AND store_id = ?", orderID, storeID)
}

func (r *Repository) FindForCustomer(ctx context.Context, storeID, orderID, userID string) (*domain.Order, error) {
	return r.first(ctx, "order_id = ? AND store_id = ? AND user_id = ?", orderID, storeID, userID)
}

func (r *Repository) ListForCustomer(ctx context.Context, storeID, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

// Update changes the mutable columns of the order matching all three identifiers.
func (r *Repository) Update(ctx context.Context, storeID, orderID, userID string, change domain.Change) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("order_id = ? AND store_id = ? AND user_id = ?", orderID, storeID, userID).
		Updates(map[string]any{
			"order_state_id": change.OrderStateID,
			"is_paid":        change.IsPaid,
			"phone":          change.Phone,
			"address":        change.Address,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.Find(ctx, storeID, orderID)
}

func (r *Repository) DeleteItems(ctx context.Context, orderID string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&orderItemRecord{})
	return result.RowsAffected, result.Error
}

func (r *Repository) Delete(ctx context.Context, orderID string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&orderRecord{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return 0, ports.ErrOrderHasItems
		}
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) ListStale(ctx context.Context, stateID string, before time.Time, limit int) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Where("is_paid = ? AND order_state_id = ? AND created_at < ?", false, stateID, before).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, records)
}

func (r *Repository) first(ctx context.Context, where string, args ...any) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Where(where, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.withItems(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// withItems loads the items of all records with a single query.
func (r *Repository) withItems(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	if len(records) == 0 {
		return orders, nil
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderItem, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item.toDomain())
	}
	for _, rec := range records {
		order := rec.toDomain()
		order.Items = byOrder[rec.ID]
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:           order.ID,
		StoreID:      order.StoreID,
		UserID:       order.UserID,
		IsPaid:       order.IsPaid,
		OrderStateID: order.OrderStateID,
		Phone:        order.Phone,
		Address:      order.Address,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func toItemRecords(items []domain.OrderItem) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(items))
	for i, item := range items {
		records = append(records, orderItemRecord{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Position:  i,
		})
	}
	return records
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:           r.ID,
		StoreID:      r.StoreID,
		UserID:       r.UserID,
		IsPaid:       r.IsPaid,
		OrderStateID: r.OrderStateID,
		Phone:        r.Phone,
		Address:      r.Address,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r orderItemRecord) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}
}
