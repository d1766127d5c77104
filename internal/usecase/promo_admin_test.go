package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func TestPromoAdminUseCaseCRUD(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewPromoAdminUseCase(store, store)
	ctx := context.Background()

	code := &model.PromoCode{
		Code:           " spring ",
		DiscountType:   model.DiscountFlat,
		DiscountAmount: decimal.NewNullDecimal(decimal.NewFromInt(5)),
		IsActive:       true,
	}
	if err := uc.Create(ctx, code); err != nil {
		t.Fatalf("create: %v", err)
	}
	if code.ID == 0 || code.Code != "SPRING" {
		t.Fatalf("unexpected code %+v", code)
	}

	dup := &model.PromoCode{Code: "SPRING", DiscountType: model.DiscountNone}
	if err := uc.Create(ctx, dup); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	code.IsActive = false
	if err := uc.Update(ctx, code); err != nil {
		t.Fatalf("update: %v", err)
	}
	details, err := uc.Get(ctx, code.ID)
	if err != nil || details.Code.IsActive {
		t.Fatalf("get: %+v %v", details, err)
	}

	list, err := uc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}

	if err := uc.Delete(ctx, code.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.Get(ctx, code.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPromoAdminUseCaseRejectsInvalidDefinition(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewPromoAdminUseCase(store, store)

	bad := &model.PromoCode{Code: "BAD", DiscountType: model.DiscountFlat}
	if err := uc.Create(context.Background(), bad); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPromoAdminUseCaseDeleteInUse(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewPromoAdminUseCase(store, store)
	code := store.AddPromo(model.PromoCode{Code: "USED", DiscountType: model.DiscountNone, IsActive: true})
	id := code.ID
	store.AddOrder(model.Order{UserID: 1, Status: model.OrderStatusPending, PromoCodeID: &id, PromoCode: "USED",
		PromoDiscount: decimal.NewNullDecimal(decimal.Zero)})

	if err := uc.Delete(context.Background(), code.ID); !errors.Is(err, domainErrors.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestPromoAdminUseCaseAssignAndExcludeAreExclusive(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewPromoAdminUseCase(store, store)
	ctx := context.Background()
	user := store.AddUser("ann", model.RoleCustomer)
	code := store.AddPromo(model.PromoCode{Code: "VIP", DiscountType: model.DiscountNone, IsActive: true})

	if err := uc.Exclude(ctx, code.ID, user.ID); err != nil {
		t.Fatalf("exclude: %v", err)
	}
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assignment, err := uc.Assign(ctx, code.ID, user.ID, true, &expiry)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !assignment.IsExclusive || !assignment.HasExpiryDate {
		t.Fatalf("unexpected assignment %+v", assignment)
	}
	if store.Excluded(code.ID, user.ID) {
		t.Fatalf("assignment must lift the exclusion")
	}

	if err := uc.Exclude(ctx, code.ID, user.ID); err != nil {
		t.Fatalf("exclude again: %v", err)
	}
	if _, ok := store.Assignment(code.ID, user.ID); ok {
		t.Fatalf("exclusion must drop the assignment")
	}

	details, err := uc.Get(ctx, code.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(details.Assignments) != 0 || len(details.Exclusions) != 1 {
		t.Fatalf("unexpected lists %+v", details)
	}

	if err := uc.Unexclude(ctx, code.ID, user.ID); err != nil {
		t.Fatalf("unexclude: %v", err)
	}
	if err := uc.Unexclude(ctx, code.ID, user.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := uc.Unassign(ctx, code.ID, user.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPromoAdminUseCaseAssignUnknownTargets(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	uc := NewPromoAdminUseCase(store, store)
	ctx := context.Background()
	user := store.AddUser("ann", model.RoleCustomer)
	code := store.AddPromo(model.PromoCode{Code: "VIP", DiscountType: model.DiscountNone, IsActive: true})

	if _, err := uc.Assign(ctx, 999, user.ID, false, nil); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown promo, got %v", err)
	}
	if err := uc.Exclude(ctx, code.ID, 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
