package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create inserts the order with its items and fills generated identifiers.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// GetForUpdate loads the order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	// Update persists order level fields: status, payment, discounts and flags.
	Update(ctx context.Context, order *model.Order) error
	UpdateItem(ctx context.Context, item *model.OrderItem) error
}

// HistoryRepository appends and reads order audit rows.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.StatusHistoryEntry) error
	// ListByOrder returns rows newest first.
	ListByOrder(ctx context.Context, orderID int64) ([]model.StatusHistoryEntry, error)
}
