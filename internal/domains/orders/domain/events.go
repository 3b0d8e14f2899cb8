package domain

import "time"

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID   string
	StoreID   string
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the order the event belongs to.
func (e BaseEvent) AggregateID() string {
	return e.OrderID
}

// OrderPlaced is raised once an order and its items have been persisted.
type OrderPlaced struct {
	BaseEvent
	UserID       string
	OrderStateID string
	ItemCount    int
}

func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderUpdated is raised after state, paid flag or contact fields change.
type OrderUpdated struct {
	BaseEvent
	OrderStateID string
	IsPaid       bool
}

func (e OrderUpdated) EventName() string {
	return "orders.order.updated"
}

// OrderDeleted is raised after an order and its items are removed.
type OrderDeleted struct {
	BaseEvent
	ItemsRemoved int64
}

func (e OrderDeleted) EventName() string {
	return "orders.order.deleted"
}
