package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	checkoutactivities "github.com/Apurer/store-admin-api/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/store-admin-api/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.CheckoutWorkflows = (*TemporalCheckoutWorkflows)(nil)
	_ ports.CheckoutWorkflows = (*InlineCheckoutWorkflows)(nil)
)

// WorkflowStarter is the slice of the Temporal client the orchestrator needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalCheckoutWorkflows runs checkout on a Temporal cluster.
type TemporalCheckoutWorkflows struct {
	client    WorkflowStarter
	taskQueue string
	fallback  ports.CheckoutWorkflows
	logger    *slog.Logger
}

// TemporalOption customises the Temporal orchestrator.
type TemporalOption func(*TemporalCheckoutWorkflows)

// WithFallback runs checkout through fallback when the cluster cannot be reached.
func WithFallback(fallback ports.CheckoutWorkflows) TemporalOption {
	return func(o *TemporalCheckoutWorkflows) {
		o.fallback = fallback
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) TemporalOption {
	return func(o *TemporalCheckoutWorkflows) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewTemporalCheckoutWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCheckoutWorkflows(c WorkflowStarter, opts ...TemporalOption) *TemporalCheckoutWorkflows {
	o := &TemporalCheckoutWorkflows{
		client:    c,
		taskQueue: checkoutworkflows.CheckoutTaskQueue,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Checkout starts the checkout workflow and waits for its result.
func (o *TemporalCheckoutWorkflows) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        buildCheckoutWorkflowID(input, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.CheckoutWorkflowName,
		checkoutworkflows.CheckoutWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var unavailable *serviceerror.Unavailable
		if errors.As(err, &unavailable) && o.fallback != nil {
			o.logger.WarnContext(ctx, "temporal unavailable, running checkout inline", slog.String("store_id", input.StoreID), slog.Any("error", err))
			return o.fallback.Checkout(ctx, input)
		}
		return nil, err
	}
	var result orderstypes.CheckoutResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, checkoutactivities.DecodeError(err)
	}
	return &result, nil
}

// InlineCheckoutWorkflows executes checkout directly without Temporal, useful for tests or dev setups.
type InlineCheckoutWorkflows struct {
	service ports.Service
}

// NewInlineCheckoutWorkflows wraps the orders service for synchronous execution.
func NewInlineCheckoutWorkflows(service ports.Service) *InlineCheckoutWorkflows {
	return &InlineCheckoutWorkflows{service: service}
}

// Checkout delegates to the application service.
func (o *InlineCheckoutWorkflows) Checkout(ctx context.Context, input orderstypes.CheckoutInput) (*orderstypes.CheckoutResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout workflows not configured")
	}
	return o.service.Checkout(ctx, input)
}

// Checkout is not idempotent, so every request gets a fresh workflow id.
func buildCheckoutWorkflowID(input orderstypes.CheckoutInput, traceComponent string) string {
	return fmt.Sprintf("order-checkout-%s-%s-%s", input.StoreID, uuid.NewString(), traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return "untraced"
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
