package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ProductRequest creates a catalog entry.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price"`
}

// ProductResponse is a catalog entry.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProductResponse converts a domain product.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		CreatedAt:   p.CreatedAt,
	}
}

// CartItemRequest sets the quantity of one cart line.
type CartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=1000"`
}

// CartItemResponse is one priced cart line.
type CartItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// CartResponse lists the cart with its subtotal.
type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
}

// NewCartResponse converts cart lines and their subtotal.
func NewCartResponse(items []model.CartItem, subtotal decimal.Decimal) CartResponse {
	resp := CartResponse{Items: make([]CartItemResponse, 0, len(items)), Subtotal: Money(subtotal)}
	for _, item := range items {
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     Money(item.Price),
			Quantity:  item.Quantity,
			LineTotal: Money(item.LineTotal()),
		})
	}
	return resp
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
