package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes where an order is in its negotiation lifecycle.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusAdminPending    OrderStatus = "ADMIN_PENDING"
	OrderStatusCustomerPending OrderStatus = "CUSTOMER_PENDING"
	OrderStatusAccepted        OrderStatus = "ACCEPTED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// OrderStatuses lists every known status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAdminPending,
	OrderStatusCustomerPending,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Negotiable reports whether prices, items and discounts of an order in s may still change.
func (s OrderStatus) Negotiable() bool {
	return s == OrderStatusPending || s == OrderStatusAdminPending
}

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCard           PaymentMethod = "CARD"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentCard
}

// Order is a placed purchase together with its negotiated discounts.
type Order struct {
	ID              int64
	UserID          int64
	Status          OrderStatus
	RecipientName   string
	Phone           string
	ShippingAddress string
	PaymentMethod   PaymentMethod
	// PromoCodeID and PromoDiscount are either both set or both empty.
	PromoCodeID   *int64
	PromoCode     string
	PromoDiscount decimal.NullDecimal
	AdminDiscount decimal.Decimal
	Savings       decimal.Decimal
	ItemsEdited   bool
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPromo reports whether a promo code is attached.
func (o *Order) HasPromo() bool {
	return o.PromoCodeID != nil
}

// Subtotal sums price times quantity over the order items.
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Total is the subtotal minus all discounts, never below zero.
func (o *Order) Total() decimal.Decimal {
	total := o.Subtotal().Sub(o.Savings)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// ApplyPromo attaches a promo code and its computed discount.
func (o *Order) ApplyPromo(id int64, code string, discount decimal.Decimal) {
	o.PromoCodeID = &id
	o.PromoCode = code
	o.PromoDiscount = decimal.NewNullDecimal(discount)
	o.recomputeSavings()
}

// ClearPromo detaches the promo code and its discount together.
func (o *Order) ClearPromo() {
	o.PromoCodeID = nil
	o.PromoCode = ""
	o.PromoDiscount = decimal.NullDecimal{}
	o.recomputeSavings()
}

// SetAdminDiscount replaces the manual discount.
func (o *Order) SetAdminDiscount(amount decimal.Decimal) {
	o.AdminDiscount = amount
	o.recomputeSavings()
}

func (o *Order) recomputeSavings() {
	savings := o.AdminDiscount
	if o.PromoDiscount.Valid {
		savings = savings.Add(o.PromoDiscount.Decimal)
	}
	o.Savings = savings
}

// Item returns the order item with the given id.
func (o *Order) Item(id int64) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus
	UserID int64
	Limit  int
	Offset int
}
