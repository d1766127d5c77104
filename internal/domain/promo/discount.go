// Package promo validates promo codes against a user and an order amount and computes discounts.
package promo

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// Discount is the breakdown of a computed promo discount.
type Discount struct {
	Type    model.DiscountType
	Total   decimal.Decimal
	Amount  decimal.NullDecimal
	Percent decimal.NullDecimal
}

// CalculateDiscount computes the discount a promo definition grants on orderTotal.
// A type whose required fields are missing yields zero. The result is rounded to
// cents and clamped into [0, orderTotal].
func CalculateDiscount(discountType model.DiscountType, orderTotal decimal.Decimal, amount, percent decimal.NullDecimal) Discount {
	result := Discount{Type: discountType, Total: decimal.Zero}

	switch discountType {
	case model.DiscountFlat:
		if amount.Valid {
			result.Amount = amount
			result.Total = amount.Decimal
		}
	case model.DiscountPercentage:
		if percent.Valid {
			result.Percent = percent
			result.Total = percentOf(orderTotal, percent.Decimal)
		}
	case model.DiscountBoth:
		if amount.Valid && percent.Valid {
			result.Amount = amount
			result.Percent = percent
			result.Total = amount.Decimal.Add(percentOf(orderTotal, percent.Decimal))
		}
	}

	result.Total = clamp(result.Total.Round(2), orderTotal)
	return result
}

func percentOf(total, percent decimal.Decimal) decimal.Decimal {
	return total.Mul(percent).Div(hundred)
}

func clamp(value, orderTotal decimal.Decimal) decimal.Decimal {
	if orderTotal.IsNegative() || value.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(value, orderTotal)
}
