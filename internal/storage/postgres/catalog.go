package postgres

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type productRepository struct {
	db querier
}

const productColumns = `id, name, description, price, created_at`

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price).Scan(&product.ID, &product.CreatedAt)
	return mapError(err)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	var p model.Product
	if err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type cartRepository struct {
	db querier
}

func (r *cartRepository) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	const query = `SELECT c.user_id, c.product_id, p.name, p.price, c.quantity
                   FROM cart_items c JOIN products p ON p.id = c.product_id
                   WHERE c.user_id=$1 ORDER BY c.product_id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Upsert(ctx context.Context, userID, productID int64, quantity int) error {
	const query = `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)
                   ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity`
	if _, err := r.db.Exec(ctx, query, userID, productID, quantity); err != nil {
		if err = mapError(err); errors.Is(err, domainErrors.ErrInUse) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, productID int64) error {
	const query = `DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`
	tag, err := r.db.Exec(ctx, query, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	const query = `DELETE FROM cart_items WHERE user_id=$1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
