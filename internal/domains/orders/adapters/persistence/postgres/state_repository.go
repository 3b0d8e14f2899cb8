package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.StateRepository = (*StateRepository)(nil)

// StateRepository reads the order_states lookup table.
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

type orderStateRecord struct {
	ID       string `gorm:"primaryKey;column:order_state_id;size:32"`
	Name     string `gorm:"column:name"`
	Position int    `gorm:"column:position"`
}

func (orderStateRecord) TableName() string { return "order_states" }

func (r *StateRepository) List(ctx context.Context) ([]domain.OrderState, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres order state repository not configured")
	}
	var records []orderStateRecord
	if err := r.db.WithContext(ctx).Order("order_state_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	states := make([]domain.OrderState, 0, len(records))
	for _, rec := range records {
		states = append(states, rec.toDomain())
	}
	return states, nil
}

func (r *StateRepository) Get(ctx context.Context, id string) (*domain.OrderState, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres order state repository not configured")
	}
	var record orderStateRecord
	if err := r.db.WithContext(ctx).First(&record, "order_state_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrStateNotFound
		}
		return nil, err
	}
	state := record.toDomain()
	return &state, nil
}

func (r orderStateRecord) toDomain() domain.OrderState {
	return domain.OrderState{ID: r.ID, Name: r.Name, Position: r.Position}
}
