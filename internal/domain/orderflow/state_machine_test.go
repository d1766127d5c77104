package orderflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

var (
	customer = model.Actor{UserID: 10, Login: "alice", Role: model.RoleCustomer}
	admin    = model.Actor{UserID: 1, Login: "root", Role: model.RoleAdmin}
)

func TestTransitionTable(t *testing.T) {
	allowed := map[model.Role]map[model.OrderStatus][]model.OrderStatus{
		model.RoleCustomer: {
			model.OrderStatusCustomerPending: {model.OrderStatusPending, model.OrderStatusRejected},
		},
		model.RoleAdmin: {
			model.OrderStatusPending:      {model.OrderStatusAdminPending, model.OrderStatusAccepted, model.OrderStatusRejected, model.OrderStatusCancelled},
			model.OrderStatusAdminPending: {model.OrderStatusCustomerPending, model.OrderStatusAccepted, model.OrderStatusRejected},
			model.OrderStatusAccepted:     {model.OrderStatusCompleted, model.OrderStatusCancelled},
		},
	}

	for _, role := range []model.Role{model.RoleCustomer, model.RoleAdmin} {
		for _, from := range model.OrderStatuses {
			for _, to := range model.OrderStatuses {
				want := false
				for _, s := range allowed[role][from] {
					if s == to {
						want = true
					}
				}
				assert.Equalf(t, want, CanTransition(role, from, to), "%s: %s -> %s", role, from, to)
			}
		}
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	actors := []model.Actor{customer, admin}
	for _, actor := range actors {
		for _, from := range model.OrderStatuses {
			for _, to := range model.OrderStatuses {
				if CanTransition(actor.Role, from, to) {
					continue
				}
				order := &model.Order{ID: 5, Status: from, ItemsEdited: true, PaymentMethod: model.PaymentCard}
				_, err := Transition(order, to, actor, "", time.Now())

				var transitionErr *domainErrors.TransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.True(t, errors.Is(err, domainErrors.ErrInvalidTransition))
				assert.Equal(t, string(from), transitionErr.From)
				assert.Equal(t, string(to), transitionErr.To)
				assert.Equal(t, from, order.Status, "order must stay untouched")
				assert.True(t, order.ItemsEdited)
			}
		}
	}
}

func TestTransitionTerminalStatesAreFinal(t *testing.T) {
	for _, from := range []model.OrderStatus{model.OrderStatusRejected, model.OrderStatusCompleted, model.OrderStatusCancelled} {
		assert.Empty(t, AllowedTransitions(model.RoleAdmin, from))
		assert.Empty(t, AllowedTransitions(model.RoleCustomer, from))
	}
}

func TestTransitionAdminCannotCompletePendingOrder(t *testing.T) {
	order := &model.Order{Status: model.OrderStatusPending}
	_, err := Transition(order, model.OrderStatusCompleted, admin, "", time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
}

func TestTransitionProducesHistoryEntry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order := &model.Order{ID: 3, Status: model.OrderStatusPending}

	entry, err := Transition(order, model.OrderStatusAdminPending, admin, "adjusted prices", now)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusAdminPending, order.Status)
	require.NotNil(t, entry.PreviousStatus)
	assert.Equal(t, model.OrderStatusPending, *entry.PreviousStatus)
	assert.Equal(t, model.OrderStatusAdminPending, entry.NewStatus)
	assert.Equal(t, int64(3), entry.OrderID)
	assert.Equal(t, admin.UserID, entry.CreatedByID)
	assert.Equal(t, model.RoleAdmin, entry.CreatedByRole)
	assert.Equal(t, "adjusted prices", entry.Note)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestTransitionCustomerReacceptResetsEditsAndPayment(t *testing.T) {
	order := &model.Order{Status: model.OrderStatusCustomerPending, ItemsEdited: true, PaymentMethod: model.PaymentCard}

	entry, err := Transition(order, model.OrderStatusPending, customer, "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.False(t, order.ItemsEdited)
	assert.Equal(t, model.PaymentCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, customer.UserID, entry.CreatedByID)
}

func TestTransitionCustomerRejectKeepsPayment(t *testing.T) {
	order := &model.Order{Status: model.OrderStatusCustomerPending, ItemsEdited: true, PaymentMethod: model.PaymentCard}

	_, err := Transition(order, model.OrderStatusRejected, customer, "too expensive", time.Now())
	require.NoError(t, err)

	assert.True(t, order.ItemsEdited)
	assert.Equal(t, model.PaymentCard, order.PaymentMethod)
}

func TestTransitionValidatesInput(t *testing.T) {
	order := &model.Order{Status: model.OrderStatusPending}

	_, err := Transition(order, model.OrderStatus("SHIPPED"), admin, "", time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	_, err = Transition(order, model.OrderStatusAccepted, model.Actor{Role: "GUEST"}, "", time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
	assert.Equal(t, model.OrderStatusPending, order.Status)
}

func TestAuditKeepsStatus(t *testing.T) {
	order := &model.Order{ID: 9, Status: model.OrderStatusAdminPending}
	entry := Audit(order, admin, "Promo code SAVE10 applied", time.Now())

	require.NotNil(t, entry.PreviousStatus)
	assert.Equal(t, *entry.PreviousStatus, entry.NewStatus)
	assert.False(t, entry.StatusChanged())
	assert.Equal(t, model.OrderStatusAdminPending, order.Status)
}

func TestPlacedHasNoPreviousStatus(t *testing.T) {
	order := &model.Order{ID: 1, Status: model.OrderStatusPending}
	entry := Placed(order, customer, time.Now())
	assert.Nil(t, entry.PreviousStatus)
	assert.Equal(t, model.OrderStatusPending, entry.NewStatus)
}
