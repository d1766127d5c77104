// Package facade holds controllable facade stubs for HTTP layer tests.
package facade

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ResolveFn      func(context.Context, string) (*model.User, error)
	// Role of the user returned by the default ResolveUser.
	Role model.Role
}

// Register returns a customer and token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleCustomer}, "token", nil
}

// Authenticate returns a user and token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleCustomer}, "token", nil
}

// ResolveUser returns user 1 with Role, defaulting to a customer.
func (s AuthFacadeStub) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, token)
	}
	role := s.Role
	if role == "" {
		role = model.RoleCustomer
	}
	return &model.User{ID: 1, Login: "user", Role: role}, nil
}

// TokenTTL returns a fixed lifetime.
func (AuthFacadeStub) TokenTTL() time.Duration { return time.Hour }

// CatalogFacadeStub serves products and carts.
type CatalogFacadeStub struct {
	ProductsFn      func(context.Context, int, int) ([]model.Product, error)
	ProductFn       func(context.Context, int64) (*model.Product, error)
	CreateProductFn func(context.Context, *model.Product) error
	CartFn          func(context.Context, int64) (*usecase.Cart, error)
	SetCartItemFn   func(context.Context, int64, int64, int) (*usecase.Cart, error)
	RemoveCartFn    func(context.Context, int64, int64) (*usecase.Cart, error)
}

// Products returns configured products or one sample.
func (s CatalogFacadeStub) Products(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, limit, offset)
	}
	return []model.Product{{ID: 1, Name: "Lamp", Price: decimal.NewFromInt(10)}}, nil
}

// Product returns configured product or a sample with the requested id.
func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "Lamp", Price: decimal.NewFromInt(10)}, nil
}

// CreateProduct assigns an id unless overridden.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, product *model.Product) error {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, product)
	}
	product.ID = 1
	return nil
}

// Cart returns an empty cart unless overridden.
func (s CatalogFacadeStub) Cart(ctx context.Context, userID int64) (*usecase.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return &usecase.Cart{}, nil
}

// SetCartItem returns a cart holding the requested line unless overridden.
func (s CatalogFacadeStub) SetCartItem(ctx context.Context, userID, productID int64, quantity int) (*usecase.Cart, error) {
	if s.SetCartItemFn != nil {
		return s.SetCartItemFn(ctx, userID, productID, quantity)
	}
	item := model.CartItem{UserID: userID, ProductID: productID, Name: "Lamp", Price: decimal.NewFromInt(10), Quantity: quantity}
	return &usecase.Cart{Items: []model.CartItem{item}, Subtotal: item.LineTotal()}, nil
}

// RemoveCartItem returns an empty cart unless overridden.
func (s CatalogFacadeStub) RemoveCartItem(ctx context.Context, userID, productID int64) (*usecase.Cart, error) {
	if s.RemoveCartFn != nil {
		return s.RemoveCartFn(ctx, userID, productID)
	}
	return &usecase.Cart{}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn     func(context.Context, model.Actor, usecase.CheckoutInput) (*model.Order, error)
	OrderFn        func(context.Context, model.Actor, int64) (*model.Order, error)
	OrdersFn       func(context.Context, int64) ([]model.Order, error)
	AllOrdersFn    func(context.Context, model.OrderFilter) ([]model.Order, error)
	ChangeStatusFn func(context.Context, model.Actor, int64, model.OrderStatus, string) (*model.Order, error)
	EditItemFn     func(context.Context, model.Actor, int64, int64, orderflow.ItemEdit) (*model.OrderItem, error)
	DiscountFn     func(context.Context, model.Actor, int64, decimal.Decimal, string) (*model.Order, error)
	HistoryFn      func(context.Context, model.Actor, int64) ([]model.StatusHistoryEntry, error)
}

// SampleOrder builds a PENDING order with one line.
func SampleOrder(id, userID int64) *model.Order {
	return &model.Order{
		ID:            id,
		UserID:        userID,
		Status:        model.OrderStatusPending,
		PaymentMethod: model.PaymentCard,
		Items:         []model.OrderItem{{ID: 1, OrderID: id, ProductID: 1, ProductName: "Lamp", Quantity: 2, Price: decimal.NewFromInt(10)}},
	}
}

// Checkout returns a sample order unless overridden.
func (s OrderFacadeStub) Checkout(ctx context.Context, actor model.Actor, in usecase.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, actor, in)
	}
	return SampleOrder(1, actor.UserID), nil
}

// Order returns a sample order unless overridden.
func (s OrderFacadeStub) Order(ctx context.Context, actor model.Actor, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	return SampleOrder(id, actor.UserID), nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{*SampleOrder(1, userID)}, nil
}

// AllOrders returns predefined orders for administrators.
func (s OrderFacadeStub) AllOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, filter)
	}
	return []model.Order{*SampleOrder(1, 2)}, nil
}

// ChangeOrderStatus returns a sample order in the requested status unless overridden.
func (s OrderFacadeStub) ChangeOrderStatus(ctx context.Context, actor model.Actor, id int64, to model.OrderStatus, note string) (*model.Order, error) {
	if s.ChangeStatusFn != nil {
		return s.ChangeStatusFn(ctx, actor, id, to, note)
	}
	order := SampleOrder(id, actor.UserID)
	order.Status = to
	return order, nil
}

// EditOrderItem returns the sample item unless overridden.
func (s OrderFacadeStub) EditOrderItem(ctx context.Context, actor model.Actor, orderID, itemID int64, edit orderflow.ItemEdit) (*model.OrderItem, error) {
	if s.EditItemFn != nil {
		return s.EditItemFn(ctx, actor, orderID, itemID, edit)
	}
	item := SampleOrder(orderID, 1).Items[0]
	item.ID = itemID
	return &item, nil
}

// SetAdminDiscount returns a sample order carrying the discount unless overridden.
func (s OrderFacadeStub) SetAdminDiscount(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, note string) (*model.Order, error) {
	if s.DiscountFn != nil {
		return s.DiscountFn(ctx, actor, orderID, amount, note)
	}
	order := SampleOrder(orderID, 1)
	order.SetAdminDiscount(amount)
	return order, nil
}

// OrderHistory returns one placement row unless overridden.
func (s OrderFacadeStub) OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusHistoryEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, actor, orderID)
	}
	return []model.StatusHistoryEntry{{
		ID:             1,
		OrderID:        orderID,
		NewStatus:      model.OrderStatusPending,
		Note:           "Order placed",
		CreatedByID:    7,
		CreatedByLogin: "ann",
		CreatedByRole:  model.RoleCustomer,
		CreatedAt:      time.Unix(0, 0).UTC(),
	}}, nil
}

// PromoFacadeStub simulates promo validation and application.
type PromoFacadeStub struct {
	ValidateFn func(context.Context, model.Actor, usecase.ValidateInput) (promo.Result, error)
	ApplyFn    func(context.Context, model.Actor, int64, string) (*model.Order, error)
	RemoveFn   func(context.Context, model.Actor, int64) (*model.Order, error)
}

// ValidatePromo reports an invalid code unless overridden.
func (s PromoFacadeStub) ValidatePromo(ctx context.Context, actor model.Actor, in usecase.ValidateInput) (promo.Result, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, actor, in)
	}
	return promo.Result{Message: promo.MsgInvalidCode}, nil
}

// ApplyPromo returns a sample order with the code attached unless overridden.
func (s PromoFacadeStub) ApplyPromo(ctx context.Context, actor model.Actor, orderID int64, code string) (*model.Order, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, actor, orderID, code)
	}
	order := SampleOrder(orderID, actor.UserID)
	order.ApplyPromo(3, code, decimal.NewFromInt(5))
	return order, nil
}

// RemovePromo returns a sample order without a code unless overridden.
func (s PromoFacadeStub) RemovePromo(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, actor, orderID)
	}
	return SampleOrder(orderID, actor.UserID), nil
}

// PromoAdminFacadeStub simulates promo administration.
type PromoAdminFacadeStub struct {
	ListFn      func(context.Context) ([]model.PromoCode, error)
	GetFn       func(context.Context, int64) (*usecase.PromoDetails, error)
	CreateFn    func(context.Context, *model.PromoCode) error
	UpdateFn    func(context.Context, *model.PromoCode) error
	DeleteFn    func(context.Context, int64) error
	AssignFn    func(context.Context, int64, int64, bool, *time.Time) (*model.UserPromoCode, error)
	UnassignFn  func(context.Context, int64, int64) error
	ExcludeFn   func(context.Context, int64, int64) error
	UnexcludeFn func(context.Context, int64, int64) error
}

// PromoCodes returns configured codes or an empty list.
func (s PromoAdminFacadeStub) PromoCodes(ctx context.Context) ([]model.PromoCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// PromoCode returns a bare code with the requested id unless overridden.
func (s PromoAdminFacadeStub) PromoCode(ctx context.Context, id int64) (*usecase.PromoDetails, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &usecase.PromoDetails{Code: model.PromoCode{ID: id, Code: "CODE", DiscountType: model.DiscountNone}}, nil
}

// CreatePromoCode assigns an id unless overridden.
func (s PromoAdminFacadeStub) CreatePromoCode(ctx context.Context, code *model.PromoCode) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, code)
	}
	code.ID = 1
	return nil
}

// UpdatePromoCode succeeds unless overridden.
func (s PromoAdminFacadeStub) UpdatePromoCode(ctx context.Context, code *model.PromoCode) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, code)
	}
	return nil
}

// DeletePromoCode succeeds unless overridden.
func (s PromoAdminFacadeStub) DeletePromoCode(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// AssignPromoCode echoes the assignment unless overridden.
func (s PromoAdminFacadeStub) AssignPromoCode(ctx context.Context, promoID, userID int64, exclusive bool, expiry *time.Time) (*model.UserPromoCode, error) {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, promoID, userID, exclusive, expiry)
	}
	return &model.UserPromoCode{PromoCodeID: promoID, UserID: userID, IsExclusive: exclusive, HasExpiryDate: expiry != nil, ExpiryDate: expiry}, nil
}

// UnassignPromoCode succeeds unless overridden.
func (s PromoAdminFacadeStub) UnassignPromoCode(ctx context.Context, promoID, userID int64) error {
	if s.UnassignFn != nil {
		return s.UnassignFn(ctx, promoID, userID)
	}
	return nil
}

// ExcludeFromPromoCode succeeds unless overridden.
func (s PromoAdminFacadeStub) ExcludeFromPromoCode(ctx context.Context, promoID, userID int64) error {
	if s.ExcludeFn != nil {
		return s.ExcludeFn(ctx, promoID, userID)
	}
	return nil
}

// UnexcludeFromPromoCode succeeds unless overridden.
func (s PromoAdminFacadeStub) UnexcludeFromPromoCode(ctx context.Context, promoID, userID int64) error {
	if s.UnexcludeFn != nil {
		return s.UnexcludeFn(ctx, promoID, userID)
	}
	return nil
}

// HealthFacadeStub reports Err from HealthCheck.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	PromoFacadeStub
	PromoAdminFacadeStub
	HealthFacadeStub
}
