package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

type userRepository struct {
	db querier
}

const userColumns = `id, login, password_hash, role, created_at`

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	u := model.User{Login: login, PasswordHash: passwordHash, Role: role}
	if err := r.db.QueryRow(ctx, query, login, passwordHash, string(role)).Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE login=$1`
	return scanUser(r.db.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role model.Role) error {
	const query = `UPDATE users SET role=$1 WHERE id=$2`
	tag, err := r.db.Exec(ctx, query, string(role), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
