package checkout

import "go.temporal.io/sdk/workflow"

func workflowRegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: CheckoutWorkflowName}
}

// Register adds the checkout workflow to a worker under its public name.
func Register(r interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
}) {
	r.RegisterWorkflowWithOptions(CheckoutWorkflow, workflowRegisterOptions())
}
