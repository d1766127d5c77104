package model

import "time"

// StatusHistoryEntry is one append-only audit row of an order.
// PreviousStatus is nil for the row written at checkout.
type StatusHistoryEntry struct {
	ID             int64
	OrderID        int64
	PreviousStatus *OrderStatus
	NewStatus      OrderStatus
	Note           string
	CreatedByID    int64
	CreatedByLogin string
	CreatedByRole  Role
	CreatedAt      time.Time
}

// StatusChanged reports whether the row records an actual transition.
func (e StatusHistoryEntry) StatusChanged() bool {
	return e.PreviousStatus == nil || *e.PreviousStatus != e.NewStatus
}
