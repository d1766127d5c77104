package promo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

const (
	MsgInvalidCode       = "Invalid or inactive promo code"
	MsgExpired           = "This promo code has expired"
	MsgExcluded          = "You are not eligible to use this promo code"
	MsgReserved          = "This promo code is exclusively reserved for specific users"
	MsgAssignmentExpired = "Your access to this promo code has expired"
	MsgUsageLimit        = "This promo code has reached its maximum usage limit"
)

// Result is the outcome of validating a code for one user and order amount.
type Result struct {
	Valid    bool
	Message  string
	Code     string
	PromoID  int64
	Discount *Discount
}

// Err returns the rejection as an error, or nil for a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &domainErrors.PromoRejectedError{Message: r.Message}
}

// Evaluate runs the ordered promo checks and stops at the first failing one.
// code is nil when no active code matched the lookup.
func Evaluate(code *model.PromoCode, eligibility model.PromoEligibility, orderTotal decimal.Decimal, now time.Time) Result {
	if code == nil || !code.IsActive {
		return reject(MsgInvalidCode)
	}
	if code.Expired(now) {
		return reject(MsgExpired)
	}
	if eligibility.Excluded {
		return reject(MsgExcluded)
	}
	if eligibility.ReservedByOther {
		return reject(MsgReserved)
	}
	if eligibility.Assignment != nil && eligibility.Assignment.Expired(now) {
		return reject(MsgAssignmentExpired)
	}
	if code.Exhausted() {
		return reject(MsgUsageLimit)
	}
	if code.MinOrderAmount.Valid && orderTotal.LessThan(code.MinOrderAmount.Decimal) {
		return reject(minimumMessage(code.MinOrderAmount.Decimal))
	}

	discount := CalculateDiscount(code.DiscountType, orderTotal, code.DiscountAmount, code.DiscountPercent)
	return Result{
		Valid:    true,
		Code:     model.NormalizeCode(code.Code),
		PromoID:  code.ID,
		Discount: &discount,
	}
}

func reject(message string) Result {
	return Result{Message: message}
}

func minimumMessage(minimum decimal.Decimal) string {
	return fmt.Sprintf("Minimum order amount of %s is required to use this promo code", minimum.StringFixed(2))
}
