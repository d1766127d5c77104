// Package orderflow holds the order status state machine and the admin item edit rules.
package orderflow

import (
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// transitions lists, per role, the statuses reachable from each source status.
// Sources missing from a role's map accept no transition by that role.
var transitions = map[model.Role]map[model.OrderStatus][]model.OrderStatus{
	model.RoleCustomer: {
		model.OrderStatusCustomerPending: {model.OrderStatusPending, model.OrderStatusRejected},
	},
	model.RoleAdmin: {
		model.OrderStatusPending: {
			model.OrderStatusAdminPending,
			model.OrderStatusAccepted,
			model.OrderStatusRejected,
			model.OrderStatusCancelled,
		},
		model.OrderStatusAdminPending: {
			model.OrderStatusCustomerPending,
			model.OrderStatusAccepted,
			model.OrderStatusRejected,
		},
		model.OrderStatusAccepted: {model.OrderStatusCompleted, model.OrderStatusCancelled},
	},
}

// CanTransition reports whether role may move an order from one status to another.
func CanTransition(role model.Role, from, to model.OrderStatus) bool {
	for _, allowed := range transitions[role][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses role may move an order in from into.
func AllowedTransitions(role model.Role, from model.OrderStatus) []model.OrderStatus {
	allowed := transitions[role][from]
	result := make([]model.OrderStatus, len(allowed))
	copy(result, allowed)
	return result
}

// Transition moves order to the requested status on behalf of actor and returns
// the history row to persist. The order is left untouched on error.
func Transition(order *model.Order, to model.OrderStatus, actor model.Actor, note string, now time.Time) (model.StatusHistoryEntry, error) {
	if !to.Valid() {
		return model.StatusHistoryEntry{}, domainErrors.Validation("unknown order status %q", to)
	}
	if !actor.Role.Valid() {
		return model.StatusHistoryEntry{}, domainErrors.Validation("unknown actor role %q", actor.Role)
	}

	from := order.Status
	if !CanTransition(actor.Role, from, to) {
		return model.StatusHistoryEntry{}, &domainErrors.TransitionError{
			From: string(from),
			To:   string(to),
			Role: string(actor.Role),
		}
	}

	if from == model.OrderStatusCustomerPending && to == model.OrderStatusPending {
		order.ItemsEdited = false
		order.PaymentMethod = model.PaymentCashOnDelivery
	}
	order.Status = to
	order.UpdatedAt = now

	return newEntry(order, &from, actor, note, now), nil
}

// Audit returns a history row recording an action that leaves the status unchanged.
func Audit(order *model.Order, actor model.Actor, note string, now time.Time) model.StatusHistoryEntry {
	current := order.Status
	return newEntry(order, &current, actor, note, now)
}

// Placed returns the first history row of a freshly created order.
func Placed(order *model.Order, actor model.Actor, now time.Time) model.StatusHistoryEntry {
	return newEntry(order, nil, actor, "Order placed", now)
}

func newEntry(order *model.Order, previous *model.OrderStatus, actor model.Actor, note string, now time.Time) model.StatusHistoryEntry {
	return model.StatusHistoryEntry{
		OrderID:        order.ID,
		PreviousStatus: previous,
		NewStatus:      order.Status,
		Note:           note,
		CreatedByID:    actor.UserID,
		CreatedByLogin: actor.Login,
		CreatedByRole:  actor.Role,
		CreatedAt:      now,
	}
}
