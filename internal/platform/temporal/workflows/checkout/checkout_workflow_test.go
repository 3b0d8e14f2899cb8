package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	catalogmemory "github.com/Apurer/store-admin-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/store-admin-api/internal/domains/catalog/domain"
	catalogbridge "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/catalog"
	"github.com/Apurer/store-admin-api/internal/domains/orders/adapters/external/fake"
	ordersmemory "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	checkoutactivities "github.com/Apurer/store-admin-api/internal/platform/temporal/activities/checkout"
)

type CheckoutWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env      *testsuite.TestWorkflowEnvironment
	orders   *ordersmemory.Repository
	payments *fake.Provider
}

func TestCheckoutWorkflowSuite(t *testing.T) {
	suite.Run(t, new(CheckoutWorkflowSuite))
}

func (s *CheckoutWorkflowSuite) SetupTest() {
	ctx := context.Background()
	products := catalogmemory.NewRepository()
	for _, p := range []catalogdomain.Product{
		{ID: "P1", StoreID: "s-1", Name: "Shirt", Price: decimal.RequireFromString("10.00"), Quantity: 5},
		{ID: "P2", StoreID: "s-1", Name: "Hat", Price: decimal.RequireFromString("4.25"), Quantity: 1},
	} {
		p := p
		_, err := products.Save(ctx, &p)
		s.Require().NoError(err)
	}
	stores := catalogmemory.NewStoreRepository()
	_, err := stores.Save(ctx, &catalogdomain.Store{ID: "s-1", Name: "Shop", OwnerID: "owner-1"})
	s.Require().NoError(err)

	s.orders = ordersmemory.NewRepository()
	s.payments = fake.NewProvider()
	service := ordersapp.NewService(
		s.orders,
		ordersmemory.NewStateRepository(ordersdomain.DefaultStates()...),
		catalogbridge.NewReader(products),
		catalogbridge.NewStoreDirectory(stores),
		s.payments,
		ordersapp.Config{StorefrontURL: "https://shop.example"},
	)
	acts := checkoutactivities.NewActivities(service)

	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflowRegisterOptions())
	s.env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})
	s.env.RegisterActivityWithOptions(acts.StartPayment, activity.RegisterOptions{Name: checkoutactivities.StartPaymentActivityName})
}

func (s *CheckoutWorkflowSuite) TestPlacesOrderAndReturnsSessionURL() {
	s.env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: orderstypes.CheckoutInput{
			StoreID: "s-1",
			UserID:  "u-1",
			Lines:   []ordersdomain.CartLine{{ProductID: "P1", Quantity: 2}},
		},
	})

	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())
	var result orderstypes.CheckoutResult
	s.Require().NoError(s.env.GetWorkflowResult(&result))
	s.Require().NotEmpty(result.OrderID)
	s.Require().Contains(result.URL, "success=1&orderId="+result.OrderID)

	order, err := s.orders.Find(context.Background(), "s-1", result.OrderID)
	s.Require().NoError(err)
	s.Require().False(order.IsPaid)
	s.Require().Len(s.payments.Requests(), 1)
	s.Require().Equal(int64(1000), s.payments.Requests()[0].LineItems[0].UnitAmount)
}

func (s *CheckoutWorkflowSuite) TestStockShortageSurvivesWorkflowBoundary() {
	s.env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: orderstypes.CheckoutInput{
			StoreID: "s-1",
			UserID:  "u-1",
			Lines: []ordersdomain.CartLine{
				{ProductID: "P1", Quantity: 10},
				{ProductID: "P2", Quantity: 2},
			},
		},
	})

	s.Require().True(s.env.IsWorkflowCompleted())
	err := checkoutactivities.DecodeError(s.env.GetWorkflowError())
	var shortage *ordersapp.StockShortageError
	s.Require().True(errors.As(err, &shortage))
	s.Require().Len(shortage.Shortages, 2)
	s.Require().Equal("P1", shortage.Shortages[0].Product.ID)
	s.Require().Equal(10, shortage.Shortages[0].Quantity)
	s.Require().Empty(s.payments.Requests())
}

func (s *CheckoutWorkflowSuite) TestMissingFieldIsNotRetried() {
	s.env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: orderstypes.CheckoutInput{
			StoreID: "s-1",
			Lines:   []ordersdomain.CartLine{{ProductID: "P1", Quantity: 1}},
		},
	})

	s.Require().True(s.env.IsWorkflowCompleted())
	err := checkoutactivities.DecodeError(s.env.GetWorkflowError())
	s.Require().ErrorIs(err, ordersapp.ErrInvalidInput)
	var missing *ordersdomain.MissingFieldError
	s.Require().True(errors.As(err, &missing))
	s.Require().Equal("userId", missing.Field)
}
