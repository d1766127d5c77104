package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// PromoDetails is a promo code with its per-user assignment and exclusion lists.
type PromoDetails struct {
	Code        model.PromoCode
	Assignments []model.UserPromoCode
	Exclusions  []model.ExcludedUser
}

// PromoAdminUseCase manages promo code definitions and per-user lists.
type PromoAdminUseCase struct {
	store repository.Factory
	tx    repository.Transactor
}

// NewPromoAdminUseCase constructs PromoAdminUseCase.
func NewPromoAdminUseCase(store repository.Factory, tx repository.Transactor) *PromoAdminUseCase {
	return &PromoAdminUseCase{store: store, tx: tx}
}

// List returns every promo code, newest first.
func (u *PromoAdminUseCase) List(ctx context.Context) ([]model.PromoCode, error) {
	return u.store.PromoCodes().List(ctx)
}

// Get returns a promo code with its assignments and exclusions.
func (u *PromoAdminUseCase) Get(ctx context.Context, id int64) (*PromoDetails, error) {
	codes := u.store.PromoCodes()
	code, err := codes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assignments, err := codes.Assignments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	exclusions, err := codes.Exclusions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load exclusions: %w", err)
	}
	return &PromoDetails{Code: *code, Assignments: assignments, Exclusions: exclusions}, nil
}

// Create stores a new promo code.
func (u *PromoAdminUseCase) Create(ctx context.Context, code *model.PromoCode) error {
	promo.Normalize(code)
	if err := promo.ValidateDefinition(code); err != nil {
		return err
	}
	return u.store.PromoCodes().Create(ctx, code)
}

// Update replaces the definition of an existing promo code. Usage counters are kept.
func (u *PromoAdminUseCase) Update(ctx context.Context, code *model.PromoCode) error {
	promo.Normalize(code)
	if err := promo.ValidateDefinition(code); err != nil {
		return err
	}
	return u.store.PromoCodes().Update(ctx, code)
}

// Delete removes a promo code. Codes referenced by orders yield ErrInUse.
func (u *PromoAdminUseCase) Delete(ctx context.Context, id int64) error {
	return u.store.PromoCodes().Delete(ctx, id)
}

// Assign grants the code to a user, lifting any exclusion of that user.
func (u *PromoAdminUseCase) Assign(ctx context.Context, promoID, userID int64, exclusive bool, expiry *time.Time) (*model.UserPromoCode, error) {
	assignment := &model.UserPromoCode{
		UserID:        userID,
		PromoCodeID:   promoID,
		IsExclusive:   exclusive,
		HasExpiryDate: expiry != nil,
		ExpiryDate:    expiry,
	}
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		if err := ensurePromoAndUser(ctx, f, promoID, userID); err != nil {
			return err
		}
		if err := ignoreNotFound(f.PromoCodes().DeleteExclusion(ctx, promoID, userID)); err != nil {
			return fmt.Errorf("lift exclusion: %w", err)
		}
		return f.PromoCodes().UpsertAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Unassign removes a user's assignment.
func (u *PromoAdminUseCase) Unassign(ctx context.Context, promoID, userID int64) error {
	return u.store.PromoCodes().DeleteAssignment(ctx, promoID, userID)
}

// Exclude bans a user from the code, dropping any assignment of that user.
func (u *PromoAdminUseCase) Exclude(ctx context.Context, promoID, userID int64) error {
	return u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		if err := ensurePromoAndUser(ctx, f, promoID, userID); err != nil {
			return err
		}
		if err := ignoreNotFound(f.PromoCodes().DeleteAssignment(ctx, promoID, userID)); err != nil {
			return fmt.Errorf("drop assignment: %w", err)
		}
		return f.PromoCodes().AddExclusion(ctx, promoID, userID)
	})
}

// Unexclude lifts a user's exclusion.
func (u *PromoAdminUseCase) Unexclude(ctx context.Context, promoID, userID int64) error {
	return u.store.PromoCodes().DeleteExclusion(ctx, promoID, userID)
}

func ensurePromoAndUser(ctx context.Context, f repository.Factory, promoID, userID int64) error {
	if _, err := f.PromoCodes().GetByID(ctx, promoID); err != nil {
		return err
	}
	_, err := f.Users().GetByID(ctx, userID)
	return err
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	return err
}
