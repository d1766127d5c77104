package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CheckoutRequest turns the cart into an order.
type CheckoutRequest struct {
	RecipientName   string `json:"recipientName" binding:"required,max=200"`
	Phone           string `json:"phone" binding:"required,max=32"`
	ShippingAddress string `json:"shippingAddress" binding:"required,max=500"`
	PaymentMethod   string `json:"paymentMethod" binding:"required,oneof=CASH_ON_DELIVERY CARD"`
}

// CustomerStatusRequest is the status change a customer may ask for.
type CustomerStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING REJECTED"`
	Note   string `json:"note" binding:"max=1000"`
}

// AdminStatusRequest is an administrator status change.
type AdminStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING ADMIN_PENDING CUSTOMER_PENDING ACCEPTED REJECTED COMPLETED CANCELLED"`
	Note   string `json:"note" binding:"max=1000"`
}

// ItemEditRequest is a partial admin edit of an order item.
type ItemEditRequest struct {
	Quantity     *int             `json:"quantity" binding:"omitempty,min=1"`
	QuantityNote *string          `json:"quantityNote" binding:"omitempty,max=500"`
	Price        *decimal.Decimal `json:"price"`
	PriceNote    *string          `json:"priceNote" binding:"omitempty,max=500"`
}

// DiscountRequest sets the manual admin discount.
type DiscountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Note   string           `json:"note" binding:"max=1000"`
}

// OrderItemResponse is one order line with its captured pre-edit values.
type OrderItemResponse struct {
	ID             int64                 `json:"id"`
	ProductID      int64                 `json:"productId"`
	ProductName    string                `json:"productName"`
	Quantity       int                   `json:"quantity"`
	Price          string                `json:"price"`
	LineTotal      string                `json:"lineTotal"`
	PriceEdited    bool                  `json:"priceEdited"`
	QuantityEdited bool                  `json:"quantityEdited"`
	OriginalValues *model.OriginalValues `json:"originalValues,omitempty"`
}

// NewOrderItemResponse converts a domain order item.
func NewOrderItemResponse(item model.OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		Price:          Money(item.Price),
		LineTotal:      Money(item.LineTotal()),
		PriceEdited:    item.PriceEdited,
		QuantityEdited: item.QuantityEdited,
	}
	if !item.OriginalValues.Empty() {
		original := item.OriginalValues
		resp.OriginalValues = &original
	}
	return resp
}

// OrderResponse is an order with computed totals.
type OrderResponse struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"userId"`
	Status          string              `json:"status"`
	RecipientName   string              `json:"recipientName"`
	Phone           string              `json:"phone"`
	ShippingAddress string              `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	PromoCodeID     *int64              `json:"promoCodeId"`
	PromoCode       string              `json:"promoCode,omitempty"`
	PromoDiscount   *string             `json:"promoDiscount"`
	AdminDiscount   string              `json:"adminDiscount"`
	Savings         string              `json:"savings"`
	Subtotal        string              `json:"subtotal"`
	Total           string              `json:"total"`
	ItemsEdited     bool                `json:"itemsEdited"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// NewOrderResponse converts a domain order.
func NewOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		RecipientName:   o.RecipientName,
		Phone:           o.Phone,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PromoCodeID:     o.PromoCodeID,
		PromoCode:       o.PromoCode,
		AdminDiscount:   Money(o.AdminDiscount),
		Savings:         Money(o.Savings),
		Subtotal:        Money(o.Subtotal()),
		Total:           Money(o.Total()),
		ItemsEdited:     o.ItemsEdited,
		Items:           make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.PromoDiscount.Valid {
		discount := Money(o.PromoDiscount.Decimal)
		resp.PromoDiscount = &discount
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, NewOrderItemResponse(item))
	}
	return resp
}

// NewOrderListResponse converts a slice of orders.
func NewOrderListResponse(orders []model.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, NewOrderResponse(&orders[i]))
	}
	return resp
}

// StatusChangeResponse acknowledges a status change.
type StatusChangeResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

// ActorResponse identifies who wrote a history row.
type ActorResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

// HistoryEntryResponse is one audit row. CreatedBy is only filled for administrators.
type HistoryEntryResponse struct {
	ID             int64          `json:"id"`
	PreviousStatus *string        `json:"previousStatus"`
	NewStatus      string         `json:"newStatus"`
	Note           string         `json:"note,omitempty"`
	CreatedByRole  string         `json:"createdByRole"`
	CreatedBy      *ActorResponse `json:"createdBy,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NewHistoryResponse converts audit rows. withActor exposes the full actor identity.
func NewHistoryResponse(entries []model.StatusHistoryEntry, withActor bool) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		row := HistoryEntryResponse{
			ID:            e.ID,
			NewStatus:     string(e.NewStatus),
			Note:          e.Note,
			CreatedByRole: string(e.CreatedByRole),
			CreatedAt:     e.CreatedAt,
		}
		if e.PreviousStatus != nil {
			previous := string(*e.PreviousStatus)
			row.PreviousStatus = &previous
		}
		if withActor {
			row.CreatedBy = &ActorResponse{ID: e.CreatedByID, Login: e.CreatedByLogin, Role: string(e.CreatedByRole)}
		}
		resp = append(resp, row)
	}
	return resp
}
