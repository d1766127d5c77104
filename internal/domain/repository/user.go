package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// UserRepository stores storefront accounts.
type UserRepository interface {
	// Create inserts a user. A taken login yields errors.ErrAlreadyExists.
	Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// SetRole promotes or demotes an existing account.
	SetRole(ctx context.Context, id int64, role model.Role) error
}
