//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	"github.com/Apurer/store-admin-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/store-admin-api/internal/platform/postgres"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("store_admin_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func sampleOrder(t *testing.T, id, userID string, createdAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, "store-1", userID, "1", []domain.OrderItem{
		{ID: id + "-1", ProductID: "P1", Quantity: 2},
		{ID: id + "-2", ProductID: "P2", Quantity: 1},
	}, createdAt)
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleOrder(t, "order-1", "cust-1", time.Now().UTC()))
	require.NoError(t, err)
	assert.False(t, created.IsPaid)
	assert.Equal(t, "1", created.OrderStateID)
	assert.Len(t, created.Items, 2)

	_, err = repo.FindForCustomer(ctx, "store-1", "order-1", "someone-else")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	fetched, err := repo.FindForCustomer(ctx, "store-1", "order-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", fetched.ID)
}

func TestRepository_ItemsKeepCartOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	// Item ids sort opposite to the cart order.
	order, err := domain.NewOrder("order-9", "store-1", "cust-1", "1", []domain.OrderItem{
		{ID: "zz-item", ProductID: "P3", Quantity: 1},
		{ID: "mm-item", ProductID: "P1", Quantity: 2},
		{ID: "aa-item", ProductID: "P2", Quantity: 3},
	}, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.Create(ctx, order)
	require.NoError(t, err)

	fetched, err := repo.Find(ctx, "store-1", "order-9")
	require.NoError(t, err)
	require.Len(t, fetched.Items, 3)
	assert.Equal(t, []string{"P3", "P1", "P2"}, []string{
		fetched.Items[0].ProductID, fetched.Items[1].ProductID, fetched.Items[2].ProductID,
	})
}

func TestRepository_UpdateScopedByCustomer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	_, err := repo.Create(ctx, sampleOrder(t, "order-1", "cust-1", time.Now().UTC()))
	require.NoError(t, err)

	change := domain.Change{OrderStateID: "2", IsPaid: true, Phone: "555", Address: "Main St"}
	_, err = repo.Update(ctx, "store-1", "order-1", "cust-2", change)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	updated, err := repo.Update(ctx, "store-1", "order-1", "cust-1", change)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, "2", updated.OrderStateID)
	assert.Equal(t, "Main St", updated.Address)
}

func TestRepository_DeleteRequiresItemsRemovedFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	_, err := repo.Create(ctx, sampleOrder(t, "order-1", "cust-1", time.Now().UTC()))
	require.NoError(t, err)

	_, err = repo.Delete(ctx, "order-1")
	assert.ErrorIs(t, err, ports.ErrOrderHasItems)

	items, err := repo.DeleteItems(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), items)

	removed, err := repo.Delete(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.Find(ctx, "store-1", "order-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListForCustomerAndStale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
	for i, id := range []string{"order-1", "order-2", "order-3"} {
		_, err := repo.Create(ctx, sampleOrder(t, id, "cust-1", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	list, err := repo.ListForCustomer(ctx, "store-1", "cust-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "order-3", list[0].ID)
	assert.Len(t, list[0].Items, 2)

	stale, err := repo.ListStale(ctx, "1", base.Add(90*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "order-1", stale[0].ID)
}

func TestStateRepository_SeededStates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewStateRepository(db)
	ctx := context.Background()

	states, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, states, len(domain.DefaultStates()))
	assert.Equal(t, "1", states[0].ID)

	initial, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Created", initial.Name)

	_, err = repo.Get(ctx, "404")
	assert.ErrorIs(t, err, ports.ErrStateNotFound)
}
