package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ResolveUser(ctx context.Context, token string) (*model.User, error)
	TokenTTL() time.Duration
}

// CatalogFacade exposes products and carts.
type CatalogFacade interface {
	Products(ctx context.Context, limit, offset int) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	Cart(ctx context.Context, userID int64) (*usecase.Cart, error)
	SetCartItem(ctx context.Context, userID, productID int64, quantity int) (*usecase.Cart, error)
	RemoveCartItem(ctx context.Context, userID, productID int64) (*usecase.Cart, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, actor model.Actor, in usecase.CheckoutInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	AllOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	ChangeOrderStatus(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus, note string) (*model.Order, error)
	EditOrderItem(ctx context.Context, actor model.Actor, orderID, itemID int64, edit orderflow.ItemEdit) (*model.OrderItem, error)
	SetAdminDiscount(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, note string) (*model.Order, error)
	OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusHistoryEntry, error)
}

// PromoFacade validates and attaches promo codes.
type PromoFacade interface {
	ValidatePromo(ctx context.Context, actor model.Actor, in usecase.ValidateInput) (promo.Result, error)
	ApplyPromo(ctx context.Context, actor model.Actor, orderID int64, code string) (*model.Order, error)
	RemovePromo(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
}

// PromoAdminFacade manages promo definitions and their per-user lists.
type PromoAdminFacade interface {
	PromoCodes(ctx context.Context) ([]model.PromoCode, error)
	PromoCode(ctx context.Context, id int64) (*usecase.PromoDetails, error)
	CreatePromoCode(ctx context.Context, code *model.PromoCode) error
	UpdatePromoCode(ctx context.Context, code *model.PromoCode) error
	DeletePromoCode(ctx context.Context, id int64) error
	AssignPromoCode(ctx context.Context, promoID, userID int64, exclusive bool, expiry *time.Time) (*model.UserPromoCode, error)
	UnassignPromoCode(ctx context.Context, promoID, userID int64) error
	ExcludeFromPromoCode(ctx context.Context, promoID, userID int64) error
	UnexcludeFromPromoCode(ctx context.Context, promoID, userID int64) error
}

// HealthFacade reports backing store availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	PromoFacade
	PromoAdminFacade
	HealthFacade
}
