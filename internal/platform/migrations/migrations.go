package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// Run applies the schema for the bounded contexts and seeds the order state lookup table.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&storeRecord{},
		&productRecord{},
		&orderStateRecord{},
		&orderRecord{},
		&orderItemRecord{},
	); err != nil {
		return err
	}
	return SeedOrderStates(db, ordersdomain.DefaultStates())
}

// SeedOrderStates inserts missing states and leaves existing rows untouched.
func SeedOrderStates(db *gorm.DB, states []ordersdomain.OrderState) error {
	if len(states) == 0 {
		return nil
	}
	records := make([]orderStateRecord, 0, len(states))
	for _, st := range states {
		records = append(records, orderStateRecord{ID: st.ID, Name: st.Name, Position: st.Position})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error
}

// Store schema mirrors the catalog Postgres adapter.
type storeRecord struct {
	ID        string    `gorm:"primaryKey;column:store_id;size:64"`
	Name      string    `gorm:"column:name"`
	UserID    string    `gorm:"column:user_id;size:128;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

// Product schema mirrors the catalog Postgres adapter.
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

type orderStateRecord struct {
	ID       string `gorm:"primaryKey;column:order_state_id;size:32"`
	Name     string `gorm:"column:name"`
	Position int    `gorm:"column:position"`
}

func (orderStateRecord) TableName() string { return "order_states" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           string           `gorm:"primaryKey;column:order_id;size:64"`
	StoreID      string           `gorm:"column:store_id;size:64;index:idx_orders_store_user"`
	UserID       string           `gorm:"column:user_id;size:128;index:idx_orders_store_user"`
	IsPaid       bool             `gorm:"column:is_paid"`
	OrderStateID string           `gorm:"column:order_state_id;size:32"`
	Phone        string           `gorm:"column:phone"`
	Address      string           `gorm:"column:address"`
	CreatedAt    time.Time        `gorm:"column:created_at;index"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`
	OrderState   orderStateRecord `gorm:"foreignKey:OrderStateID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (orderRecord) TableName() string { return "orders" }

// Order items reference their order without cascading deletes.
type orderItemRecord struct {
	ID        string      `gorm:"primaryKey;column:order_item_id;size:64"`
	OrderID   string      `gorm:"column:order_id;size:64;index"`
	ProductID string      `gorm:"column:product_id;size:64"`
	Quantity  int         `gorm:"column:quantity"`
	Position  int         `gorm:"column:position;not null;default:0"`
	Order     orderRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (orderItemRecord) TableName() string { return "order_items" }
