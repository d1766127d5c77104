package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/adapter/events"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/domain/promo"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// CheckoutInput carries the delivery details of a new order.
type CheckoutInput struct {
	RecipientName   string
	Phone           string
	ShippingAddress string
	PaymentMethod   model.PaymentMethod
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	store     repository.Factory
	tx        repository.Transactor
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.Factory, tx repository.Transactor, publisher events.Publisher, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{store: store, tx: tx, publisher: publisher, logger: logger, now: time.Now}
}

// Checkout turns the caller's cart into a PENDING order and empties the cart.
func (u *OrderUseCase) Checkout(ctx context.Context, actor model.Actor, in CheckoutInput) (*model.Order, error) {
	in.RecipientName = strings.TrimSpace(in.RecipientName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	if in.RecipientName == "" || in.Phone == "" || in.ShippingAddress == "" {
		return nil, domainErrors.Validation("recipientName, phone and shippingAddress are required")
	}
	if !in.PaymentMethod.Valid() {
		return nil, domainErrors.Validation("unsupported payment method %q", in.PaymentMethod)
	}

	var order *model.Order
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		cart, err := f.Carts().Items(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart) == 0 {
			return domainErrors.ErrEmptyCart
		}

		order = &model.Order{
			UserID:          actor.UserID,
			Status:          model.OrderStatusPending,
			RecipientName:   in.RecipientName,
			Phone:           in.Phone,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			Items:           make([]model.OrderItem, 0, len(cart)),
		}
		for _, line := range cart {
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Quantity:    line.Quantity,
				Price:       line.Price,
			})
		}
		if err := f.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		entry := orderflow.Placed(order, actor, u.now())
		if err := f.History().Append(ctx, &entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return f.Carts().Clear(ctx, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Order returns an order visible to actor. Customers only see their own orders.
func (u *OrderUseCase) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(order, actor) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// Orders returns the caller's orders, newest first.
func (u *OrderUseCase) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.store.Orders().ListByUser(ctx, userID)
}

// AllOrders lists orders of every customer for administrators.
func (u *OrderUseCase) AllOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainErrors.Validation("unknown order status %q", filter.Status)
	}
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)
	return u.store.Orders().List(ctx, filter)
}

// ChangeStatus applies a state machine transition and records it in the order history.
func (u *OrderUseCase) ChangeStatus(ctx context.Context, actor model.Actor, orderID int64, to model.OrderStatus, note string) (*model.Order, error) {
	var (
		order *model.Order
		entry model.StatusHistoryEntry
	)
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		if order, err = lockOrder(ctx, f, actor, orderID); err != nil {
			return err
		}
		if entry, err = orderflow.Transition(order, to, actor, strings.TrimSpace(note), u.now()); err != nil {
			return err
		}
		if err := f.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return f.History().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, order, entry)
	return order, nil
}

// EditItem changes price and/or quantity of an order item under negotiation.
func (u *OrderUseCase) EditItem(ctx context.Context, actor model.Actor, orderID, itemID int64, edit orderflow.ItemEdit) (*model.OrderItem, error) {
	var result model.OrderItem
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		order, err := lockNegotiable(ctx, f, actor, orderID)
		if err != nil {
			return err
		}
		item, ok := order.Item(itemID)
		if !ok {
			return domainErrors.ErrNotFound
		}

		changed, err := orderflow.ApplyItemEdit(item, edit)
		if err != nil {
			return err
		}
		result = *item
		if !changed {
			return nil
		}

		if err := f.Orders().UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		order.ItemsEdited = true
		note := itemEditNote(item)
		if order.HasPromo() {
			promoNote, err := repricePromo(ctx, f, order)
			if err != nil {
				return err
			}
			if promoNote != "" {
				note += "; " + promoNote
			}
		}
		if err := f.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		entry := orderflow.Audit(order, actor, note, u.now())
		return f.History().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetAdminDiscount replaces the manual discount of an order under negotiation.
func (u *OrderUseCase) SetAdminDiscount(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, note string) (*model.Order, error) {
	if amount.IsNegative() {
		return nil, domainErrors.Validation("amount must not be negative")
	}

	var order *model.Order
	err := u.tx.WithinTransaction(ctx, func(f repository.Factory) error {
		var err error
		if order, err = lockNegotiable(ctx, f, actor, orderID); err != nil {
			return err
		}
		order.SetAdminDiscount(amount.Round(2))
		if err := f.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		note = strings.TrimSpace(note)
		if note == "" {
			note = fmt.Sprintf("Admin discount set to %s", order.AdminDiscount.StringFixed(2))
		}
		entry := orderflow.Audit(order, actor, note, u.now())
		return f.History().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// History returns the audit trail of an order, newest first.
func (u *OrderUseCase) History(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusHistoryEntry, error) {
	if _, err := u.Order(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return u.store.History().ListByOrder(ctx, orderID)
}

func (u *OrderUseCase) publish(ctx context.Context, order *model.Order, entry model.StatusHistoryEntry) {
	if err := u.publisher.PublishOrderStatus(ctx, events.NewOrderStatusEvent(order, entry)); err != nil {
		u.logger.Warn("publish order status event failed",
			slog.Int64("order_id", order.ID),
			slog.String("status", string(order.Status)),
			slog.String("error", err.Error()),
		)
	}
}

func visibleTo(order *model.Order, actor model.Actor) bool {
	return actor.Role == model.RoleAdmin || order.UserID == actor.UserID
}

// lockOrder loads the order row for update and hides foreign orders from customers.
func lockOrder(ctx context.Context, f repository.Factory, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := f.Orders().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(order, actor) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

func lockNegotiable(ctx context.Context, f repository.Factory, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := lockOrder(ctx, f, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Negotiable() {
		return nil, domainErrors.ErrOrderNotModifiable
	}
	return order, nil
}

// repricePromo recomputes the applied promo discount on the current subtotal.
// A code whose minimum order amount is no longer met is detached and its use
// released. The returned note is empty when nothing changed.
func repricePromo(ctx context.Context, f repository.Factory, order *model.Order) (string, error) {
	code, err := f.PromoCodes().GetByID(ctx, *order.PromoCodeID)
	if err != nil {
		return "", fmt.Errorf("load applied promo code: %w", err)
	}

	subtotal := order.Subtotal()
	if code.MinOrderAmount.Valid && subtotal.LessThan(code.MinOrderAmount.Decimal) {
		if err := f.PromoCodes().DecrementUsage(ctx, code.ID); err != nil {
			return "", fmt.Errorf("decrement promo usage: %w", err)
		}
		order.ClearPromo()
		return fmt.Sprintf("promo code %s removed, subtotal below minimum %s",
			code.Code, code.MinOrderAmount.Decimal.StringFixed(2)), nil
	}

	discount := promo.CalculateDiscount(code.DiscountType, subtotal, code.DiscountAmount, code.DiscountPercent)
	if discount.Total.Equal(order.PromoDiscount.Decimal) {
		return "", nil
	}
	order.ApplyPromo(code.ID, order.PromoCode, discount.Total)
	return fmt.Sprintf("promo code %s discount now %s", order.PromoCode, discount.Total.StringFixed(2)), nil
}

func itemEditNote(item *model.OrderItem) string {
	var parts []string
	if item.PriceEdited {
		parts = append(parts, "price "+item.Price.StringFixed(2))
	}
	if item.QuantityEdited {
		parts = append(parts, fmt.Sprintf("quantity %d", item.Quantity))
	}
	return fmt.Sprintf("Item %q updated: %s", item.ProductName, strings.Join(parts, ", "))
}
