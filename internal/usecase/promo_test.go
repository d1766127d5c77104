package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
)

type promoFixture struct {
	*orderFixture
	promos *PromoUseCase
}

func newPromoFixture() *promoFixture {
	f := newOrderFixture()
	uc := NewPromoUseCase(f.store, f.store)
	uc.now = func() time.Time { return fixedNow }
	return &promoFixture{orderFixture: f, promos: uc}
}

func (f *promoFixture) flat(code, amount string) model.PromoCode {
	return f.store.AddPromo(model.PromoCode{
		Code:           code,
		DiscountType:   model.DiscountFlat,
		DiscountAmount: decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		IsActive:       true,
	})
}

func TestPromoUseCaseValidateAgainstAmount(t *testing.T) {
	f := newPromoFixture()
	f.store.AddPromo(model.PromoCode{
		Code:            "TENOFF",
		DiscountType:    model.DiscountPercentage,
		DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		IsActive:        true,
	})
	amount := decimal.RequireFromString("250")

	result, err := f.promos.Validate(context.Background(), f.customer, ValidateInput{Code: " tenoff ", Amount: &amount})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid || result.Code != "TENOFF" || !result.Discount.Total.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPromoUseCaseValidateUnknownCode(t *testing.T) {
	f := newPromoFixture()

	result, err := f.promos.Validate(context.Background(), f.customer, ValidateInput{Code: "NOPE"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || result.Message != promo.MsgInvalidCode {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPromoUseCaseValidateInputErrors(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	negative := decimal.NewFromInt(-5)

	if _, err := f.promos.Validate(ctx, f.customer, ValidateInput{Code: "  "}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for blank code, got %v", err)
	}
	if _, err := f.promos.Validate(ctx, f.customer, ValidateInput{Code: "X", Amount: &negative}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for negative amount, got %v", err)
	}

	order := f.order(model.OrderStatusPending)
	if _, err := f.promos.Validate(ctx, f.other, ValidateInput{Code: "X", OrderID: &order.ID}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("foreign order must be hidden, got %v", err)
	}
}

func TestPromoUseCaseValidateUsesOrderOwnerEligibility(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("VIP", "5")
	order := f.order(model.OrderStatusPending)
	admin := &PromoAdminUseCase{store: f.store, tx: f.store}
	if err := admin.Exclude(ctx, code.ID, f.customer.UserID); err != nil {
		t.Fatalf("exclude: %v", err)
	}

	result, err := f.promos.Validate(ctx, f.admin, ValidateInput{Code: "VIP", OrderID: &order.ID})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || result.Message != promo.MsgExcluded {
		t.Fatalf("owner exclusion must apply, got %+v", result)
	}
}

func TestPromoUseCaseValidateAgainstCart(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	f.store.AddPromo(model.PromoCode{
		Code:           "BIG",
		DiscountType:   model.DiscountFlat,
		DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(5)),
		MinOrderAmount: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		IsActive:       true,
	})
	lamp := f.store.AddProduct(model.Product{Name: "Lamp", Price: decimal.NewFromInt(20)})
	_ = f.store.Carts().Upsert(ctx, f.customer.UserID, lamp.ID, 2)

	result, err := f.promos.Validate(ctx, f.customer, ValidateInput{Code: "BIG"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || result.Message != "Minimum order amount of 50.00 is required to use this promo code" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestPromoUseCaseApplyToOrder(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("SAVE10", "10")
	order := f.order(model.OrderStatusPending)

	updated, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "save10")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !updated.HasPromo() || updated.PromoCode != "SAVE10" || !updated.Total().Equal(decimal.NewFromInt(90)) {
		t.Fatalf("unexpected order %+v", updated)
	}

	stored, _ := f.store.Order(order.ID)
	if stored.PromoCodeID == nil || *stored.PromoCodeID != code.ID {
		t.Fatalf("promo not persisted: %+v", stored)
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 1 {
		t.Fatalf("usage must be incremented, got %d", p.UsedCount)
	}
	history := f.store.HistoryOf(order.ID)
	if len(history) != 1 || history[0].Note != "Promo code SAVE10 applied (discount 10.00)" {
		t.Fatalf("unexpected audit %+v", history)
	}

	f.flat("OTHER", "5")
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "OTHER"); !errors.Is(err, domainErrors.ErrPromoAlreadyApplied) {
		t.Fatalf("expected ErrPromoAlreadyApplied, got %v", err)
	}
	stored, _ = f.store.Order(order.ID)
	if *stored.PromoCodeID != code.ID || !stored.PromoDiscount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("second apply must leave the order untouched: %+v", stored)
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 1 {
		t.Fatalf("second apply must not touch usage, got %d", p.UsedCount)
	}
	if len(f.store.HistoryOf(order.ID)) != 1 {
		t.Fatalf("second apply must not be audited")
	}
}

func TestPromoUseCaseApplyMarksAssignmentUsed(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("MINE", "1")
	order := f.order(model.OrderStatusPending)
	admin := &PromoAdminUseCase{store: f.store, tx: f.store}
	if _, err := admin.Assign(ctx, code.ID, f.customer.UserID, true, nil); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "MINE"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	assignment, ok := f.store.Assignment(code.ID, f.customer.UserID)
	if !ok || assignment.UsedAt == nil {
		t.Fatalf("assignment must be stamped as used: %+v", assignment)
	}
}

func TestPromoUseCaseApplyRejections(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	one := 1
	f.store.AddPromo(model.PromoCode{
		Code:           "ONCE",
		DiscountType:   model.DiscountFlat,
		DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(1)),
		IsActive:       true,
		MaxUses:        &one,
		UsedCount:      1,
	})
	f.flat("OK", "1")

	order := f.order(model.OrderStatusPending)
	_, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "ONCE")
	var rejected *domainErrors.PromoRejectedError
	if !errors.As(err, &rejected) || rejected.Message != promo.MsgUsageLimit {
		t.Fatalf("expected usage limit rejection, got %v", err)
	}
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "GHOST"); !errors.As(err, &rejected) || rejected.Message != promo.MsgInvalidCode {
		t.Fatalf("expected invalid code rejection, got %v", err)
	}

	accepted := f.order(model.OrderStatusAccepted)
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, accepted.ID, "OK"); !errors.Is(err, domainErrors.ErrOrderNotModifiable) {
		t.Fatalf("expected ErrOrderNotModifiable, got %v", err)
	}
	if _, err := f.promos.ApplyToOrder(ctx, f.other, order.ID, "OK"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign order, got %v", err)
	}
}

func TestPromoUseCaseApplyRollsBackOnFailure(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("SAVE", "1")
	order := f.order(model.OrderStatusPending)
	f.store.Failures["History.Append"] = errors.New("boom")

	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "SAVE"); err == nil {
		t.Fatalf("expected error")
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 0 {
		t.Fatalf("usage increment must be rolled back, got %d", p.UsedCount)
	}
	if stored, _ := f.store.Order(order.ID); stored.HasPromo() {
		t.Fatalf("promo must not stay attached")
	}
}

func TestPromoUseCaseConcurrentApplyRespectsLimit(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	one := 1
	f.store.AddPromo(model.PromoCode{
		Code:           "RACE",
		DiscountType:   model.DiscountFlat,
		DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(1)),
		IsActive:       true,
		MaxUses:        &one,
	})

	const n = 8
	orders := make([]model.Order, n)
	for i := range orders {
		orders[i] = f.order(model.OrderStatusPending)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for _, o := range orders {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := f.promos.ApplyToOrder(ctx, f.customer, id, "RACE"); err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}(o.ID)
	}
	wg.Wait()

	if applied != 1 {
		t.Fatalf("expected exactly one redemption, got %d", applied)
	}
}

func TestPromoUseCaseRemoveFromOrder(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("SAVE10", "10")
	order := f.order(model.OrderStatusPending)

	if _, err := f.promos.RemoveFromOrder(ctx, f.customer, order.ID); !errors.Is(err, domainErrors.ErrPromoNotApplied) {
		t.Fatalf("expected ErrPromoNotApplied, got %v", err)
	}
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "SAVE10"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	updated, err := f.promos.RemoveFromOrder(ctx, f.admin, order.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if updated.HasPromo() || updated.PromoDiscount.Valid || !updated.Total().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("promo fields must be cleared together: %+v", updated)
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 0 {
		t.Fatalf("usage must be released, got %d", p.UsedCount)
	}
	history := f.store.HistoryOf(order.ID)
	if len(history) != 2 || history[1].Note != "Promo code SAVE10 removed" || history[1].CreatedByRole != model.RoleAdmin {
		t.Fatalf("unexpected audit %+v", history)
	}

	for _, status := range []model.OrderStatus{model.OrderStatusAccepted, model.OrderStatusCompleted} {
		done := f.order(status)
		if _, err := f.promos.RemoveFromOrder(ctx, f.customer, done.ID); !errors.Is(err, domainErrors.ErrOrderNotModifiable) {
			t.Fatalf("%s: expected ErrOrderNotModifiable, got %v", status, err)
		}
	}
}

func TestPromoUseCaseRemoveFromAcceptedOrderKeepsPromo(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.flat("SAVE10", "10")
	order := f.order(model.OrderStatusPending)
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "SAVE10"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.uc.ChangeStatus(ctx, f.admin, order.ID, model.OrderStatusAccepted, ""); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := f.promos.RemoveFromOrder(ctx, f.admin, order.ID); !errors.Is(err, domainErrors.ErrOrderNotModifiable) {
		t.Fatalf("expected ErrOrderNotModifiable, got %v", err)
	}
	stored, _ := f.store.Order(order.ID)
	if !stored.HasPromo() || !stored.PromoDiscount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("promo must stay attached: %+v", stored)
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 1 {
		t.Fatalf("usage must stay consumed, got %d", p.UsedCount)
	}
}

func TestPromoUseCaseItemEditRepricesPromo(t *testing.T) {
	f := newPromoFixture()
	ctx := context.Background()
	code := f.store.AddPromo(model.PromoCode{
		Code:            "TENPCT",
		DiscountType:    model.DiscountPercentage,
		DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		MinOrderAmount:  decimal.NewNullDecimal(decimal.NewFromInt(50)),
		IsActive:        true,
	})
	order := f.order(model.OrderStatusPending)
	if _, err := f.promos.ApplyToOrder(ctx, f.customer, order.ID, "TENPCT"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	lampPrice := decimal.RequireFromString("5.00")
	if _, err := f.uc.EditItem(ctx, f.admin, order.ID, order.Items[0].ID, orderflow.ItemEdit{Price: &lampPrice}); err != nil {
		t.Fatalf("edit lamp: %v", err)
	}
	stored, _ := f.store.Order(order.ID)
	if !stored.PromoDiscount.Decimal.Equal(decimal.NewFromInt(9)) || !stored.Savings.Equal(decimal.NewFromInt(9)) ||
		!stored.Total().Equal(decimal.NewFromInt(81)) {
		t.Fatalf("discount must follow the new subtotal: %+v", stored)
	}
	history := f.store.HistoryOf(order.ID)
	if got := history[len(history)-1].Note; got != `Item "Lamp" updated: price 5.00; promo code TENPCT discount now 9.00` {
		t.Fatalf("unexpected audit note %q", got)
	}

	deskPrice := decimal.RequireFromString("1.00")
	if _, err := f.uc.EditItem(ctx, f.admin, order.ID, order.Items[1].ID, orderflow.ItemEdit{Price: &deskPrice}); err != nil {
		t.Fatalf("edit desk: %v", err)
	}
	stored, _ = f.store.Order(order.ID)
	if stored.HasPromo() || stored.PromoDiscount.Valid || !stored.Savings.IsZero() || !stored.Total().Equal(decimal.NewFromInt(11)) {
		t.Fatalf("promo below its minimum must be detached: %+v", stored)
	}
	if p, _ := f.store.Promo(code.ID); p.UsedCount != 0 {
		t.Fatalf("usage must be released, got %d", p.UsedCount)
	}
	history = f.store.HistoryOf(order.ID)
	if got := history[len(history)-1].Note; got != `Item "Desk" updated: price 1.00; promo code TENPCT removed, subtotal below minimum 50.00` {
		t.Fatalf("unexpected audit note %q", got)
	}
}
