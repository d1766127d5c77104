package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// ValidateInput selects the amount a code is validated against.
// Amount wins over OrderID; with neither set the caller's cart subtotal is used.
type ValidateInput struct {
	Code    string
	OrderID *int64
	Amount  *decimal.Decimal
}

// PromoUseCase validates promo codes and attaches them to orders.
type PromoUseCase struct {
	store repository.Factory
	tx    repository.Transactor
	now   func() time.Time
}

// NewPromoUseCase constructs PromoUseCase.
func NewPromoUseCase(store repository.Factory, tx repository.Transactor) *PromoUseCase {
	return &PromoUseCase{store: store, tx: tx, now: time.Now}
}

// Validate reports whether actor may use the code and the discount it would grant.
// A rejected code is a regular result, not an error.
func (u *PromoUseCase) Validate(ctx context.Context, actor model.Actor, in ValidateInput) (promo.Result, error) {
	code := model.NormalizeCode(in.Code)
	if code == "" {
		return promo.Result{}, domainErrors.Validation("code is required")
	}

	userID := actor.UserID
	var total decimal.Decimal
	switch {
	case in.Amount != nil:
		if in.Amount.IsNegative() {
			return promo.Result{}, domainErrors.Validation("amount must not be negative")
		}
		total = *in.Amount
	case in.OrderID != nil:
		order, err := u.store.Orders().GetByID(ctx, *in.OrderID)
		if err != nil {
			return promo.Result{}, err
		}
		if !visibleTo(order, actor) {
			return promo.Result{}, domainErrors.ErrNotFound
		}
		userID = order.UserID
		total = order.Subtotal()
	default:
		items, err := u.store.Carts().Items(ctx, actor.UserID)
		if err != nil {
			return promo.Result{}, fmt.Errorf("load cart: %w", err)
		}
		total = model.CartTotal(items)
	}

	return evaluate(ctx, u.store.PromoCodes(), code, userID, total, false, u.now())
}

// ApplyToOrder attaches a code to an order under negotiation.
// The order and promo rows stay locked until the usage counter is bumped.
func (u *PromoUseCase) ApplyToOrder(ctx context.Context, actor model.Actor, orderID int64, rawCode string) (*model.Order, error) {
	code := model.NormalizeCode(rawCode)
	if code == "" {
		return nil, domainErrors.Validation("code is required")
	}

	var order *model.Order
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		if order, err = lockOrder(ctx, f, actor, orderID); err != nil {
			return err
		}
		if order.HasPromo() {
			return domainErrors.ErrPromoAlreadyApplied
		}
		if !order.Status.Negotiable() {
			return domainErrors.ErrOrderNotModifiable
		}

		now := u.now()
		result, err := evaluate(ctx, f.PromoCodes(), code, order.UserID, order.Subtotal(), true, now)
		if err != nil {
			return err
		}
		if !result.Valid {
			return result.Err()
		}

		if err := f.PromoCodes().IncrementUsage(ctx, result.PromoID); err != nil {
			if errors.Is(err, domainErrors.ErrPromoExhausted) {
				return &domainErrors.PromoRejectedError{Message: promo.MsgUsageLimit}
			}
			return fmt.Errorf("increment promo usage: %w", err)
		}
		if err := f.PromoCodes().MarkAssignmentUsed(ctx, result.PromoID, order.UserID); err != nil {
			return fmt.Errorf("mark assignment used: %w", err)
		}

		order.ApplyPromo(result.PromoID, result.Code, result.Discount.Total)
		if err := f.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		note := fmt.Sprintf("Promo code %s applied (discount %s)", result.Code, result.Discount.Total.StringFixed(2))
		entry := orderflow.Audit(order, actor, note, now)
		return f.History().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveFromOrder detaches the promo code and gives the use back to the code.
func (u *PromoUseCase) RemoveFromOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	var order *model.Order
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		if order, err = lockNegotiable(ctx, f, actor, orderID); err != nil {
			return err
		}
		if !order.HasPromo() {
			return domainErrors.ErrPromoNotApplied
		}

		if err := f.PromoCodes().DecrementUsage(ctx, *order.PromoCodeID); err != nil {
			return fmt.Errorf("decrement promo usage: %w", err)
		}
		code := order.PromoCode
		order.ClearPromo()
		if err := f.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		entry := orderflow.Audit(order, actor, fmt.Sprintf("Promo code %s removed", code), u.now())
		return f.History().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func evaluate(ctx context.Context, codes repository.PromoCodeRepository, code string, userID int64, total decimal.Decimal, lock bool, now time.Time) (promo.Result, error) {
	promoCode, err := codes.GetActiveByCode(ctx, code, lock)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return promo.Evaluate(nil, model.PromoEligibility{}, total, now), nil
		}
		return promo.Result{}, fmt.Errorf("load promo code: %w", err)
	}

	eligibility, err := codes.Eligibility(ctx, promoCode.ID, userID)
	if err != nil {
		return promo.Result{}, fmt.Errorf("load promo eligibility: %w", err)
	}
	return promo.Evaluate(promoCode, eligibility, total, now), nil
}
