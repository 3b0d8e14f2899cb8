//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/Apurer/store-admin-api/test/pact"

	storeserver "github.com/Apurer/store-admin-api/go"
	catalogmemory "github.com/Apurer/store-admin-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
	catalogbridge "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/catalog"
	"github.com/Apurer/store-admin-api/internal/domains/orders/adapters/external/fake"
	ordersmemory "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStoreAdminProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductsInStock: reset,
		pacttest.StateProductLowStock: reset,
		pacttest.StateOrderStates:     reset,
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	orders   *ordersmemory.Repository
	products *catalogmemory.Repository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{
		orders:   ordersmemory.NewRepository(),
		products: catalogmemory.NewRepository(),
	}
	stores := catalogmemory.NewStoreRepository()
	_, err := stores.Save(context.Background(), &catalogdomain.Store{ID: pacttest.StoreID, Name: "Pact Shop", OwnerID: "owner-pact"})
	require.NoError(t, err)

	service := ordersobs.New(ordersapp.NewService(
		app.orders,
		ordersmemory.NewStateRepository(ordersdomain.DefaultStates()...),
		catalogbridge.NewReader(app.products),
		catalogbridge.NewStoreDirectory(stores),
		fake.NewProvider(),
		ordersapp.Config{StorefrontURL: pacttest.StorefrontURL},
	))

	handlers := storeserver.ApiHandleFunctions{
		CheckoutAPI:    storeserver.NewCheckoutAPI(service, ordersworkflows.NewInlineCheckoutWorkflows(service), nil),
		OrdersAPI:      storeserver.NewOrdersAPI(service, nil),
		OrderStatesAPI: storeserver.NewOrderStatesAPI(service, nil),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = storeserver.NewRouterWithGinEngine(router, handlers)

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

// reset restores the catalog stock; orders created by earlier interactions do not affect later ones.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	for _, p := range []catalogdomain.Product{
		{ID: pacttest.InStockProduct, StoreID: pacttest.StoreID, Name: "Shirt", Price: decimal.RequireFromString("10.00"), Quantity: 50},
		{ID: pacttest.LowStockProduct, StoreID: pacttest.StoreID, Name: "Hat", Price: decimal.RequireFromString("4.25"), Quantity: 1},
	} {
		p := p
		_, err := a.products.Save(context.Background(), &p)
		require.NoError(t, err)
	}
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	if _, err := a.orders.Find(ctx, pacttest.StoreID, pacttest.ExistingOrderID); err == nil {
		return
	}
	order, err := ordersdomain.NewOrder(
		pacttest.ExistingOrderID,
		pacttest.StoreID,
		pacttest.CustomerID,
		"1",
		[]ordersdomain.OrderItem{{ID: "oi-pact", ProductID: pacttest.InStockProduct, Quantity: 1}},
		time.Now().UTC(),
	)
	require.NoError(t, err)
	_, err = a.orders.Create(ctx, order)
	require.NoError(t, err)
}
