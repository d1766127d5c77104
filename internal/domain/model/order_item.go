package model

import "github.com/shopspring/decimal"

// OrderItem is a product line frozen at checkout and editable by admins while negotiating.
type OrderItem struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	ProductName    string
	Quantity       int
	Price          decimal.Decimal
	PriceEdited    bool
	QuantityEdited bool
	OriginalValues OriginalValues
}

// LineTotal returns price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OriginalValues keeps pre-edit values of an item, captured on the first deviation.
type OriginalValues struct {
	Price    *OriginalPrice    `json:"price,omitempty"`
	Quantity *OriginalQuantity `json:"quantity,omitempty"`
}

// OriginalPrice is the checkout price with the latest admin note.
type OriginalPrice struct {
	Value decimal.Decimal `json:"value"`
	Note  string          `json:"note,omitempty"`
}

// OriginalQuantity is the checkout quantity with the latest admin note.
type OriginalQuantity struct {
	Value int    `json:"value"`
	Note  string `json:"note,omitempty"`
}

// Empty reports whether nothing was captured yet.
func (v OriginalValues) Empty() bool {
	return v.Price == nil && v.Quantity == nil
}
