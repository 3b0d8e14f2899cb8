package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

func newOrder(t *testing.T, id string, createdAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, "s-1", "u-1", "1", []domain.OrderItem{
		{ID: id + "-a", ProductID: "P1", Quantity: 1},
		{ID: id + "-b", ProductID: "P2", Quantity: 2},
	}, createdAt)
	require.NoError(t, err)
	return order
}

func TestRepository_DeleteRefusesWhileItemsRemain(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_, err := repo.Create(ctx, newOrder(t, "o-1", time.Now()))
	require.NoError(t, err)

	_, err = repo.Delete(ctx, "o-1")
	require.ErrorIs(t, err, ports.ErrOrderHasItems)

	n, err := repo.DeleteItems(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Empty(t, repo.ItemsOf("o-1"))

	n, err = repo.Delete(ctx, "o-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.Find(ctx, "s-1", "o-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateMatchesStoreOrderAndCustomer(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_, err := repo.Create(ctx, newOrder(t, "o-1", time.Now()))
	require.NoError(t, err)
	change := domain.Change{OrderStateID: "2", IsPaid: true, Phone: "1", Address: "a"}

	_, err = repo.Update(ctx, "s-1", "o-1", "someone", change)
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.Update(ctx, "s-2", "o-1", "u-1", change)
	require.ErrorIs(t, err, ports.ErrNotFound)

	updated, err := repo.Update(ctx, "s-1", "o-1", "u-1", change)
	require.NoError(t, err)
	require.True(t, updated.IsPaid)
	require.Len(t, updated.Items, 2)
}

func TestRepository_ListForCustomerNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"o-1", "o-2", "o-3"} {
		_, err := repo.Create(ctx, newOrder(t, id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	list, err := repo.ListForCustomer(ctx, "s-1", "u-1")
	require.NoError(t, err)
	require.Equal(t, "o-3", list[0].ID)
	require.Equal(t, "o-1", list[2].ID)

	stale, err := repo.ListStale(ctx, "1", base.Add(90*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	require.Equal(t, "o-1", stale[0].ID)
}

func TestStateRepository_ListOrderedByID(t *testing.T) {
	repo := NewStateRepository(domain.DefaultStates()...)
	states, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, []string{states[0].ID, states[1].ID, states[2].ID, states[3].ID})

	_, err = repo.Get(context.Background(), "9")
	require.ErrorIs(t, err, ports.ErrStateNotFound)
}
