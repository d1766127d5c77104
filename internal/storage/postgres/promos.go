package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgtype"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type promoRepository struct {
	db querier
}

const promoColumns = `id, code, description, discount_type, discount_amount, discount_percent, has_expiry_date,
       expiry_date, is_active, max_uses, used_count, min_order_amount, created_at, updated_at`

const assignmentColumns = `user_id, promo_code_id, is_exclusive, has_expiry_date, expiry_date, assigned_at, used_at`

func (r *promoRepository) Create(ctx context.Context, code *model.PromoCode) error {
	const query = `INSERT INTO promo_codes (code, description, discount_type, discount_amount, discount_percent,
                       has_expiry_date, expiry_date, is_active, max_uses, min_order_amount)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id, used_count, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		code.Code, code.Description, string(code.DiscountType), code.DiscountAmount, code.DiscountPercent,
		code.HasExpiryDate, timeArg(code.ExpiryDate), code.IsActive, intArg(code.MaxUses), code.MinOrderAmount,
	).Scan(&code.ID, &code.UsedCount, &code.CreatedAt, &code.UpdatedAt)
	return mapError(err)
}

func (r *promoRepository) Update(ctx context.Context, code *model.PromoCode) error {
	const query = `UPDATE promo_codes SET code=$1, description=$2, discount_type=$3, discount_amount=$4,
                       discount_percent=$5, has_expiry_date=$6, expiry_date=$7, is_active=$8, max_uses=$9,
                       min_order_amount=$10, updated_at=NOW()
                   WHERE id=$11 RETURNING used_count, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		code.Code, code.Description, string(code.DiscountType), code.DiscountAmount, code.DiscountPercent,
		code.HasExpiryDate, timeArg(code.ExpiryDate), code.IsActive, intArg(code.MaxUses), code.MinOrderAmount,
		code.ID,
	).Scan(&code.UsedCount, &code.CreatedAt, &code.UpdatedAt)
	return mapError(err)
}

func (r *promoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promo_codes WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *promoRepository) GetByID(ctx context.Context, id int64) (*model.PromoCode, error) {
	const query = `SELECT ` + promoColumns + ` FROM promo_codes WHERE id=$1`
	code, err := scanPromo(r.db.QueryRow(ctx, query, id))
	return code, mapError(err)
}

func (r *promoRepository) List(ctx context.Context) ([]model.PromoCode, error) {
	const query = `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PromoCode
	for rows.Next() {
		code, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *promoRepository) GetActiveByCode(ctx context.Context, code string, forUpdate bool) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code=$1 AND is_active`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	promo, err := scanPromo(r.db.QueryRow(ctx, query, code))
	return promo, mapError(err)
}

func (r *promoRepository) Eligibility(ctx context.Context, promoID, userID int64) (model.PromoEligibility, error) {
	const flagsQuery = `SELECT
            EXISTS (SELECT 1 FROM excluded_users WHERE promo_code_id=$1 AND user_id=$2),
            EXISTS (SELECT 1 FROM user_promo_codes WHERE promo_code_id=$1 AND user_id<>$2 AND is_exclusive)`
	var elig model.PromoEligibility
	if err := r.db.QueryRow(ctx, flagsQuery, promoID, userID).Scan(&elig.Excluded, &elig.ReservedByOther); err != nil {
		return elig, err
	}

	const assignmentQuery = `SELECT ` + assignmentColumns + ` FROM user_promo_codes WHERE promo_code_id=$1 AND user_id=$2`
	assignment, err := scanAssignment(r.db.QueryRow(ctx, assignmentQuery, promoID, userID))
	if err != nil {
		if err = mapError(err); errors.Is(err, domainErrors.ErrNotFound) {
			return elig, nil
		}
		return elig, err
	}
	elig.Assignment = assignment
	return elig, nil
}

func (r *promoRepository) IncrementUsage(ctx context.Context, promoID int64) error {
	const query = `UPDATE promo_codes SET used_count = used_count + 1, updated_at=NOW()
                   WHERE id=$1 AND (max_uses IS NULL OR used_count < max_uses)`
	tag, err := r.db.Exec(ctx, query, promoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrPromoExhausted
	}
	return nil
}

func (r *promoRepository) DecrementUsage(ctx context.Context, promoID int64) error {
	const query = `UPDATE promo_codes SET used_count = GREATEST(used_count - 1, 0), updated_at=NOW() WHERE id=$1`
	_, err := r.db.Exec(ctx, query, promoID)
	return err
}

func (r *promoRepository) MarkAssignmentUsed(ctx context.Context, promoID, userID int64) error {
	const query = `UPDATE user_promo_codes SET used_at=NOW() WHERE promo_code_id=$1 AND user_id=$2`
	_, err := r.db.Exec(ctx, query, promoID, userID)
	return err
}

func (r *promoRepository) Assignments(ctx context.Context, promoID int64) ([]model.UserPromoCode, error) {
	const query = `SELECT ` + assignmentColumns + ` FROM user_promo_codes WHERE promo_code_id=$1 ORDER BY assigned_at, user_id`
	rows, err := r.db.Query(ctx, query, promoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.UserPromoCode
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *promoRepository) Exclusions(ctx context.Context, promoID int64) ([]model.ExcludedUser, error) {
	const query = `SELECT user_id, promo_code_id, excluded_at FROM excluded_users WHERE promo_code_id=$1 ORDER BY excluded_at, user_id`
	rows, err := r.db.Query(ctx, query, promoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ExcludedUser
	for rows.Next() {
		var e model.ExcludedUser
		if err := rows.Scan(&e.UserID, &e.PromoCodeID, &e.ExcludedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *promoRepository) UpsertAssignment(ctx context.Context, a *model.UserPromoCode) error {
	const query = `INSERT INTO user_promo_codes (user_id, promo_code_id, is_exclusive, has_expiry_date, expiry_date)
                   VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (user_id, promo_code_id) DO UPDATE
                   SET is_exclusive = EXCLUDED.is_exclusive,
                       has_expiry_date = EXCLUDED.has_expiry_date,
                       expiry_date = EXCLUDED.expiry_date
                   RETURNING assigned_at`
	err := r.db.QueryRow(ctx, query, a.UserID, a.PromoCodeID, a.IsExclusive, a.HasExpiryDate, timeArg(a.ExpiryDate)).Scan(&a.AssignedAt)
	if err = mapError(err); errors.Is(err, domainErrors.ErrInUse) {
		return domainErrors.ErrNotFound
	}
	return err
}

func (r *promoRepository) DeleteAssignment(ctx context.Context, promoID, userID int64) error {
	return r.deletePair(ctx, `DELETE FROM user_promo_codes WHERE promo_code_id=$1 AND user_id=$2`, promoID, userID)
}

func (r *promoRepository) AddExclusion(ctx context.Context, promoID, userID int64) error {
	const query = `INSERT INTO excluded_users (user_id, promo_code_id) VALUES ($1, $2)
                   ON CONFLICT (user_id, promo_code_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, userID, promoID); err != nil {
		if err = mapError(err); errors.Is(err, domainErrors.ErrInUse) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *promoRepository) DeleteExclusion(ctx context.Context, promoID, userID int64) error {
	return r.deletePair(ctx, `DELETE FROM excluded_users WHERE promo_code_id=$1 AND user_id=$2`, promoID, userID)
}

func (r *promoRepository) deletePair(ctx context.Context, query string, promoID, userID int64) error {
	tag, err := r.db.Exec(ctx, query, promoID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func scanPromo(row rowScanner) (*model.PromoCode, error) {
	var (
		p       model.PromoCode
		expiry  pgtype.Timestamptz
		maxUses pgtype.Int8
	)
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountAmount, &p.DiscountPercent,
		&p.HasExpiryDate, &expiry, &p.IsActive, &maxUses, &p.UsedCount, &p.MinOrderAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ExpiryDate = timePtr(expiry)
	p.MaxUses = intPtr(maxUses)
	return &p, nil
}

func scanAssignment(row rowScanner) (*model.UserPromoCode, error) {
	var (
		a      model.UserPromoCode
		expiry pgtype.Timestamptz
		usedAt pgtype.Timestamptz
	)
	if err := row.Scan(&a.UserID, &a.PromoCodeID, &a.IsExclusive, &a.HasExpiryDate, &expiry, &a.AssignedAt, &usedAt); err != nil {
		return nil, err
	}
	a.ExpiryDate = timePtr(expiry)
	a.UsedAt = timePtr(usedAt)
	return &a, nil
}
