package orderflow

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// ItemEdit is a partial admin update of an order item.
type ItemEdit struct {
	Quantity     *int
	QuantityNote *string
	Price        *decimal.Decimal
	PriceNote    *string
}

// Empty reports whether the edit carries no field at all.
func (e ItemEdit) Empty() bool {
	return e.Quantity == nil && e.QuantityNote == nil && e.Price == nil && e.PriceNote == nil
}

// ApplyItemEdit updates item in place. The checkout value is captured into
// OriginalValues on the first deviation only; later edits move the current
// value and the note but never the captured original.
func ApplyItemEdit(item *model.OrderItem, edit ItemEdit) (bool, error) {
	if edit.Empty() {
		return false, domainErrors.Validation("at least one of quantity, quantityNote, price, priceNote is required")
	}
	if edit.Quantity != nil && *edit.Quantity < 1 {
		return false, domainErrors.Validation("quantity must be at least 1")
	}
	if edit.Price != nil && edit.Price.IsNegative() {
		return false, domainErrors.Validation("price must not be negative")
	}

	priceChanged := applyPrice(item, edit.Price, edit.PriceNote)
	quantityChanged := applyQuantity(item, edit.Quantity, edit.QuantityNote)
	return priceChanged || quantityChanged, nil
}

// applyPrice compares at cent precision, the precision the price is stored with.
func applyPrice(item *model.OrderItem, price *decimal.Decimal, note *string) bool {
	if price != nil {
		rounded := price.Round(2)
		price = &rounded
	}
	if !item.PriceEdited {
		if price == nil || price.Equal(item.Price) {
			return false
		}
		original := &model.OriginalPrice{Value: item.Price}
		if note != nil {
			original.Note = *note
		}
		item.OriginalValues.Price = original
		item.Price = *price
		item.PriceEdited = true
		return true
	}

	changed := false
	if price != nil && !price.Equal(item.Price) {
		item.Price = *price
		changed = true
	}
	if note != nil && item.OriginalValues.Price != nil && item.OriginalValues.Price.Note != *note {
		item.OriginalValues.Price.Note = *note
		changed = true
	}
	return changed
}

func applyQuantity(item *model.OrderItem, quantity *int, note *string) bool {
	if !item.QuantityEdited {
		if quantity == nil || *quantity == item.Quantity {
			return false
		}
		original := &model.OriginalQuantity{Value: item.Quantity}
		if note != nil {
			original.Note = *note
		}
		item.OriginalValues.Quantity = original
		item.Quantity = *quantity
		item.QuantityEdited = true
		return true
	}

	changed := false
	if quantity != nil && *quantity != item.Quantity {
		item.Quantity = *quantity
		changed = true
	}
	if note != nil && item.OriginalValues.Quantity != nil && item.OriginalValues.Quantity.Note != *note {
		item.OriginalValues.Quantity.Note = *note
		changed = true
	}
	return changed
}
