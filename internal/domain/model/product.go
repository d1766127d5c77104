package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry customers can put into the cart.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// CartItem is a product line in a customer's cart.
type CartItem struct {
	UserID    int64
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// LineTotal returns price multiplied by quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartTotal sums the line totals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
