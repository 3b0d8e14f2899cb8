package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

var _ ports.StateRepository = (*StateRepository)(nil)

// StateRepository holds the order state lookup table in memory.
type StateRepository struct {
	mu     sync.RWMutex
	states map[string]domain.OrderState
}

// NewStateRepository seeds the table with the given states.
func NewStateRepository(states ...domain.OrderState) *StateRepository {
	r := &StateRepository{states: make(map[string]domain.OrderState, len(states))}
	for _, st := range states {
		r.states[st.ID] = st
	}
	return r
}

func (r *StateRepository) List(_ context.Context) ([]domain.OrderState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.OrderState, 0, len(r.states))
	for _, st := range r.states {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *StateRepository) Get(_ context.Context, id string) (*domain.OrderState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[id]
	if !ok {
		return nil, ports.ErrStateNotFound
	}
	return &st, nil
}
