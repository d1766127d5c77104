package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// PromoCodeRepository describes promo code persistence and per-user bookkeeping.
type PromoCodeRepository interface {
	Create(ctx context.Context, code *model.PromoCode) error
	Update(ctx context.Context, code *model.PromoCode) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.PromoCode, error)
	List(ctx context.Context) ([]model.PromoCode, error)
	// GetActiveByCode returns ErrNotFound when no active code matches. With
	// forUpdate the row stays locked until the transaction ends.
	GetActiveByCode(ctx context.Context, code string, forUpdate bool) (*model.PromoCode, error)
	Eligibility(ctx context.Context, promoID, userID int64) (model.PromoEligibility, error)
	// IncrementUsage fails with ErrPromoExhausted when the cap is already reached.
	IncrementUsage(ctx context.Context, promoID int64) error
	DecrementUsage(ctx context.Context, promoID int64) error
	MarkAssignmentUsed(ctx context.Context, promoID, userID int64) error

	Assignments(ctx context.Context, promoID int64) ([]model.UserPromoCode, error)
	Exclusions(ctx context.Context, promoID int64) ([]model.ExcludedUser, error)
	UpsertAssignment(ctx context.Context, assignment *model.UserPromoCode) error
	DeleteAssignment(ctx context.Context, promoID, userID int64) error
	AddExclusion(ctx context.Context, promoID, userID int64) error
	DeleteExclusion(ctx context.Context, promoID, userID int64) error
}
