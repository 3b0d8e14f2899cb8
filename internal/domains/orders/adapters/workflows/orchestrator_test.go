package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

type stubService struct {
	ports.Service
	calls  int
	result *orderstypes.CheckoutResult
}

func (s *stubService) Checkout(context.Context, orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	s.calls++
	return s.result, nil
}

type unavailableStarter struct{}

func (unavailableStarter) ExecuteWorkflow(context.Context, client.StartWorkflowOptions, interface{}, ...interface{}) (client.WorkflowRun, error) {
	return nil, serviceerror.NewUnavailable("connection refused")
}

type failingStarter struct{ err error }

func (f failingStarter) ExecuteWorkflow(context.Context, client.StartWorkflowOptions, interface{}, ...interface{}) (client.WorkflowRun, error) {
	return nil, f.err
}

func TestInlineCheckoutWorkflows_DelegatesToService(t *testing.T) {
	svc := &stubService{result: &orderstypes.CheckoutResult{OrderID: "o-1", URL: "https://pay.example/s"}}
	result, err := NewInlineCheckoutWorkflows(svc).Checkout(context.Background(), orderstypes.CheckoutInput{StoreID: "s-1"})
	require.NoError(t, err)
	require.Equal(t, "o-1", result.OrderID)
	require.Equal(t, 1, svc.calls)
}

func TestTemporalCheckoutWorkflows_FallsBackWhenUnavailable(t *testing.T) {
	svc := &stubService{result: &orderstypes.CheckoutResult{OrderID: "o-2"}}
	orchestrator := NewTemporalCheckoutWorkflows(unavailableStarter{}, WithFallback(NewInlineCheckoutWorkflows(svc)))

	result, err := orchestrator.Checkout(context.Background(), orderstypes.CheckoutInput{StoreID: "s-1"})
	require.NoError(t, err)
	require.Equal(t, "o-2", result.OrderID)
	require.Equal(t, 1, svc.calls)
}

func TestTemporalCheckoutWorkflows_ReturnsOtherStartErrors(t *testing.T) {
	svc := &stubService{}
	boom := errors.New("namespace not found")
	orchestrator := NewTemporalCheckoutWorkflows(failingStarter{err: boom}, WithFallback(NewInlineCheckoutWorkflows(svc)))

	_, err := orchestrator.Checkout(context.Background(), orderstypes.CheckoutInput{StoreID: "s-1"})
	require.ErrorIs(t, err, boom)
	require.Zero(t, svc.calls)
}

func TestBuildCheckoutWorkflowID_IsUniquePerCall(t *testing.T) {
	input := orderstypes.CheckoutInput{StoreID: "s-1"}
	first := buildCheckoutWorkflowID(input, "untraced")
	second := buildCheckoutWorkflowID(input, "untraced")
	require.NotEqual(t, first, second)
	require.Contains(t, first, "order-checkout-s-1-")
}
