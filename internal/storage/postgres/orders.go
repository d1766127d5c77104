package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderColumns = `o.id, o.user_id, o.status, o.recipient_name, o.phone, o.shipping_address, o.payment_method,
       o.promo_code_id, COALESCE((SELECT p.code FROM promo_codes p WHERE p.id = o.promo_code_id), ''),
       o.promo_discount, o.admin_discount, o.savings, o.items_edited, o.created_at, o.updated_at`

const itemColumns = `id, order_id, product_id, product_name, quantity, price, price_edited, quantity_edited, original_values`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const insertOrder = `INSERT INTO orders (user_id, status, recipient_name, phone, shipping_address, payment_method,
                             promo_code_id, promo_discount, admin_discount, savings, items_edited)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                         RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, insertOrder,
		order.UserID, string(order.Status), order.RecipientName, order.Phone, order.ShippingAddress,
		string(order.PaymentMethod), int64Arg(order.PromoCodeID), order.PromoDiscount, order.AdminDiscount,
		order.Savings, order.ItemsEdited,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	const insertItem = `INSERT INTO order_items (order_id, product_id, product_name, quantity, price,
                            price_edited, quantity_edited, original_values)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		original, err := json.Marshal(item.OriginalValues)
		if err != nil {
			return fmt.Errorf("encode original values: %w", err)
		}
		err = r.db.QueryRow(ctx, insertItem,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price,
			item.PriceEdited, item.QuantityEdited, original,
		).Scan(&item.ID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) getOne(ctx context.Context, query string, id int64) (*model.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	items, err := r.items(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id=$1 ORDER BY o.created_at DESC, o.id DESC`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("o.status=$%d", len(args)))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("o.user_id=$%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders o`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.list(ctx, query, args...)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []model.Order
		ids    []int64
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) items(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, id`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item     model.OrderItem
			original []byte
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity,
			&item.Price, &item.PriceEdited, &item.QuantityEdited, &original); err != nil {
			return nil, err
		}
		if len(original) > 0 {
			if err := json.Unmarshal(original, &item.OriginalValues); err != nil {
				return nil, fmt.Errorf("decode original values of item %d: %w", item.ID, err)
			}
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	const query = `UPDATE orders SET status=$1, payment_method=$2, promo_code_id=$3, promo_discount=$4,
                       admin_discount=$5, savings=$6, items_edited=$7, updated_at=NOW()
                   WHERE id=$8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		string(order.Status), string(order.PaymentMethod), int64Arg(order.PromoCodeID), order.PromoDiscount,
		order.AdminDiscount, order.Savings, order.ItemsEdited, order.ID,
	).Scan(&order.UpdatedAt)
	return mapError(err)
}

func (r *orderRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	original, err := json.Marshal(item.OriginalValues)
	if err != nil {
		return fmt.Errorf("encode original values: %w", err)
	}
	const query = `UPDATE order_items SET quantity=$1, price=$2, price_edited=$3, quantity_edited=$4, original_values=$5
                   WHERE id=$6 AND order_id=$7`
	tag, err := r.db.Exec(ctx, query, item.Quantity, item.Price, item.PriceEdited, item.QuantityEdited, original, item.ID, item.OrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o       model.Order
		promoID pgtype.Int8
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.RecipientName, &o.Phone, &o.ShippingAddress, &o.PaymentMethod,
		&promoID, &o.PromoCode, &o.PromoDiscount, &o.AdminDiscount, &o.Savings, &o.ItemsEdited, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.PromoCodeID = int64Ptr(promoID)
	return &o, nil
}
