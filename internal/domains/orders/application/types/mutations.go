package types

import (
	"time"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// UpdateOrderInput changes the state, paid flag and contact fields of an order.
// PrincipalID is the authenticated caller; UserID is the order owner as supplied by the caller.
type UpdateOrderInput struct {
	StoreID      string
	OrderID      string
	PrincipalID  string
	UserID       string
	OrderStateID string
	IsPaid       *bool
	Phone        string
	Address      string
}

// MissingFields lists absent fields in the order they are checked.
func (in UpdateOrderInput) MissingFields() []string {
	names := missing(
		field{"store_id", in.StoreID},
		field{"order_id", in.OrderID},
		field{"userId", in.UserID},
		field{"order_state_id", in.OrderStateID},
	)
	if in.IsPaid == nil {
		names = append(names, "isPaid")
	}
	return append(names, missing(field{"phone", in.Phone}, field{"address", in.Address})...)
}

// Change converts the input into the domain change set. Call only after MissingFields is empty.
func (in UpdateOrderInput) Change() domain.Change {
	change := domain.Change{
		OrderStateID: in.OrderStateID,
		Phone:        in.Phone,
		Address:      in.Address,
	}
	if in.IsPaid != nil {
		change.IsPaid = *in.IsPaid
	}
	return change
}

// DeleteOrderInput addresses an order for removal. PrincipalID is only consulted when delete authorization is enabled.
type DeleteOrderInput struct {
	StoreID     string
	OrderID     string
	PrincipalID string
}

func (in DeleteOrderInput) MissingFields() []string {
	return missing(field{"store_id", in.StoreID}, field{"order_id", in.OrderID})
}

// DeleteResult reports how many rows the two-phase delete removed.
type DeleteResult struct {
	OrdersRemoved int64
	ItemsRemoved  int64
}

// PurgeInput selects stale unpaid orders for removal.
type PurgeInput struct {
	OlderThan time.Duration
	Limit     int
	DryRun    bool
}

// PurgeResult summarizes a purge run.
type PurgeResult struct {
	Matched  int
	Deleted  int
	OrderIDs []string
}
