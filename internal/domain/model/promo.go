package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a promo code discount is computed.
type DiscountType string

const (
	DiscountNone       DiscountType = "NONE"
	DiscountFlat       DiscountType = "FLAT"
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountBoth       DiscountType = "BOTH"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountNone, DiscountFlat, DiscountPercentage, DiscountBoth:
		return true
	}
	return false
}

// PromoCode is a redeemable discount definition.
type PromoCode struct {
	ID              int64
	Code            string
	Description     string
	DiscountType    DiscountType
	DiscountAmount  decimal.NullDecimal
	DiscountPercent decimal.NullDecimal
	HasExpiryDate   bool
	ExpiryDate      *time.Time
	IsActive        bool
	MaxUses         *int
	UsedCount       int
	MinOrderAmount  decimal.NullDecimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Expired reports whether the code carries an expiry that lies before now.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.HasExpiryDate && p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

// Exhausted reports whether the usage cap has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}

// NormalizeCode converts user input into the stored code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UserPromoCode assigns a promo code to a user.
type UserPromoCode struct {
	UserID        int64
	PromoCodeID   int64
	IsExclusive   bool
	HasExpiryDate bool
	ExpiryDate    *time.Time
	AssignedAt    time.Time
	UsedAt        *time.Time
}

// Expired reports whether the user's access window has closed.
func (a *UserPromoCode) Expired(now time.Time) bool {
	return a.HasExpiryDate && a.ExpiryDate != nil && a.ExpiryDate.Before(now)
}

// ExcludedUser bans a user from a promo code.
type ExcludedUser struct {
	UserID      int64
	PromoCodeID int64
	ExcludedAt  time.Time
}

// PromoEligibility is what the store knows about one user and one promo code.
type PromoEligibility struct {
	Excluded        bool
	ReservedByOther bool
	Assignment      *UserPromoCode
}
