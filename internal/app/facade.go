package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade exposes the use cases to the HTTP layer under one type.
type StorefrontFacade struct {
	auth       *usecase.AuthUseCase
	catalog    *usecase.CatalogUseCase
	cart       *usecase.CartUseCase
	orders     *usecase.OrderUseCase
	promos     *usecase.PromoUseCase
	promoAdmin *usecase.PromoAdminUseCase
	health     HealthChecker
	tokenTTL   time.Duration
}

type facadeParams struct {
	fx.In

	Auth       *usecase.AuthUseCase
	Catalog    *usecase.CatalogUseCase
	Cart       *usecase.CartUseCase
	Orders     *usecase.OrderUseCase
	Promos     *usecase.PromoUseCase
	PromoAdmin *usecase.PromoAdminUseCase
	Health     HealthChecker
	Config     *config.Config
}

// NewStorefrontFacade builds the facade from its use cases.
func NewStorefrontFacade(p facadeParams) *StorefrontFacade {
	return &StorefrontFacade{
		auth:       p.Auth,
		catalog:    p.Catalog,
		cart:       p.Cart,
		orders:     p.Orders,
		promos:     p.Promos,
		promoAdmin: p.PromoAdmin,
		health:     p.Health,
		tokenTTL:   p.Config.AuthTokenTTL,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *StorefrontFacade) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	return f.auth.ResolveUser(ctx, token)
}

// TokenTTL is the lifetime of issued tokens, used for the auth cookie.
func (f *StorefrontFacade) TokenTTL() time.Duration {
	return f.tokenTTL
}

func (f *StorefrontFacade) Products(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return f.catalog.Products(ctx, limit, offset)
}

func (f *StorefrontFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Product(ctx, id)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, product *model.Product) error {
	return f.catalog.CreateProduct(ctx, product)
}

func (f *StorefrontFacade) Cart(ctx context.Context, userID int64) (*usecase.Cart, error) {
	return f.cart.Cart(ctx, userID)
}

func (f *StorefrontFacade) SetCartItem(ctx context.Context, userID, productID int64, quantity int) (*usecase.Cart, error) {
	return f.cart.SetItem(ctx, userID, productID, quantity)
}

func (f *StorefrontFacade) RemoveCartItem(ctx context.Context, userID, productID int64) (*usecase.Cart, error) {
	return f.cart.RemoveItem(ctx, userID, productID)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, actor model.Actor, in usecase.CheckoutInput) (*model.Order, error) {
	return f.orders.Checkout(ctx, actor, in)
}

func (f *StorefrontFacade) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	return f.orders.Order(ctx, actor, id)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.Orders(ctx, userID)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.AllOrders(ctx, filter)
}

func (f *StorefrontFacade) ChangeOrderStatus(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus, note string) (*model.Order, error) {
	return f.orders.ChangeStatus(ctx, actor, id, to, note)
}

func (f *StorefrontFacade) EditOrderItem(ctx context.Context, actor model.Actor, orderID, itemID int64, edit orderflow.ItemEdit) (*model.OrderItem, error) {
	return f.orders.EditItem(ctx, actor, orderID, itemID, edit)
}

func (f *StorefrontFacade) SetAdminDiscount(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, note string) (*model.Order, error) {
	return f.orders.SetAdminDiscount(ctx, actor, orderID, amount, note)
}

func (f *StorefrontFacade) OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusHistoryEntry, error) {
	return f.orders.History(ctx, actor, orderID)
}

func (f *StorefrontFacade) ValidatePromo(ctx context.Context, actor model.Actor, in usecase.ValidateInput) (promo.Result, error) {
	return f.promos.Validate(ctx, actor, in)
}

func (f *StorefrontFacade) ApplyPromo(ctx context.Context, actor model.Actor, orderID int64, code string) (*model.Order, error) {
	return f.promos.ApplyToOrder(ctx, actor, orderID, code)
}

func (f *StorefrontFacade) RemovePromo(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.promos.RemoveFromOrder(ctx, actor, orderID)
}

func (f *StorefrontFacade) PromoCodes(ctx context.Context) ([]model.PromoCode, error) {
	return f.promoAdmin.List(ctx)
}

func (f *StorefrontFacade) PromoCode(ctx context.Context, id int64) (*usecase.PromoDetails, error) {
	return f.promoAdmin.Get(ctx, id)
}

func (f *StorefrontFacade) CreatePromoCode(ctx context.Context, code *model.PromoCode) error {
	return f.promoAdmin.Create(ctx, code)
}

func (f *StorefrontFacade) UpdatePromoCode(ctx context.Context, code *model.PromoCode) error {
	return f.promoAdmin.Update(ctx, code)
}

func (f *StorefrontFacade) DeletePromoCode(ctx context.Context, id int64) error {
	return f.promoAdmin.Delete(ctx, id)
}

func (f *StorefrontFacade) AssignPromoCode(ctx context.Context, promoID, userID int64, exclusive bool, expiry *time.Time) (*model.UserPromoCode, error) {
	return f.promoAdmin.Assign(ctx, promoID, userID, exclusive, expiry)
}

func (f *StorefrontFacade) UnassignPromoCode(ctx context.Context, promoID, userID int64) error {
	return f.promoAdmin.Unassign(ctx, promoID, userID)
}

func (f *StorefrontFacade) ExcludeFromPromoCode(ctx context.Context, promoID, userID int64) error {
	return f.promoAdmin.Exclude(ctx, promoID, userID)
}

func (f *StorefrontFacade) UnexcludeFromPromoCode(ctx context.Context, promoID, userID int64) error {
	return f.promoAdmin.Unexclude(ctx, promoID, userID)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// EnsureAdmin bootstraps the configured administrator account.
func (f *StorefrontFacade) EnsureAdmin(ctx context.Context, login, password string) error {
	return f.auth.EnsureAdmin(ctx, login, password)
}
