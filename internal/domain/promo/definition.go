package promo

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// Normalize upper-cases the code and drops fields the discount type does not use.
func Normalize(p *model.PromoCode) {
	p.Code = model.NormalizeCode(p.Code)
	switch p.DiscountType {
	case model.DiscountFlat:
		p.DiscountPercent = decimal.NullDecimal{}
	case model.DiscountPercentage:
		p.DiscountAmount = decimal.NullDecimal{}
	case model.DiscountNone:
		p.DiscountAmount = decimal.NullDecimal{}
		p.DiscountPercent = decimal.NullDecimal{}
	}
	if !p.HasExpiryDate {
		p.ExpiryDate = nil
	}
}

// ValidateDefinition checks that the fields required by the discount type are present and in range.
func ValidateDefinition(p *model.PromoCode) error {
	if p.Code == "" {
		return domainErrors.Validation("code is required")
	}
	if !p.DiscountType.Valid() {
		return domainErrors.Validation("unknown discount type %q", p.DiscountType)
	}

	needsAmount := p.DiscountType == model.DiscountFlat || p.DiscountType == model.DiscountBoth
	needsPercent := p.DiscountType == model.DiscountPercentage || p.DiscountType == model.DiscountBoth

	if needsAmount {
		if !p.DiscountAmount.Valid {
			return domainErrors.Validation("discountAmount is required for %s discounts", p.DiscountType)
		}
		if !p.DiscountAmount.Decimal.IsPositive() {
			return domainErrors.Validation("discountAmount must be greater than 0")
		}
	}
	if needsPercent {
		if !p.DiscountPercent.Valid {
			return domainErrors.Validation("discountPercent is required for %s discounts", p.DiscountType)
		}
		if !p.DiscountPercent.Decimal.IsPositive() || p.DiscountPercent.Decimal.GreaterThan(hundred) {
			return domainErrors.Validation("discountPercent must be between 0 and 100")
		}
	}
	if p.HasExpiryDate && p.ExpiryDate == nil {
		return domainErrors.Validation("expiryDate is required when hasExpiryDate is set")
	}
	if p.MaxUses != nil && *p.MaxUses < 1 {
		return domainErrors.Validation("maxUses must be at least 1")
	}
	if p.MinOrderAmount.Valid && p.MinOrderAmount.Decimal.IsNegative() {
		return domainErrors.Validation("minOrderAmount must not be negative")
	}
	return nil
}
