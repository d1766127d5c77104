package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(store repository.Factory, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: store.Users(), hasher: hasher, tokens: strategy}
}

// Register creates a new customer and returns an auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, hash, model.RoleCustomer)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ResolveUser turns a bearer token into the user it was issued for.
// Unknown, expired or orphaned tokens yield ErrUnauthorized.
func (u *AuthUseCase) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, domainErrors.ErrUnauthorized
	}
	userID, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, domainErrors.ErrUnauthorized
	}
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnauthorized
		}
		return nil, err
	}
	return usr, nil
}

// EnsureAdmin creates the bootstrap administrator or promotes an existing user.
// An empty login disables the bootstrap.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil
	}

	usr, err := u.users.GetByLogin(ctx, login)
	switch {
	case err == nil:
		if usr.Role == model.RoleAdmin {
			return nil
		}
		return u.users.SetRole(ctx, usr.ID, model.RoleAdmin)
	case !errors.Is(err, domainErrors.ErrNotFound):
		return fmt.Errorf("lookup admin: %w", err)
	}

	if password == "" {
		return fmt.Errorf("admin password must be provided for new admin %q", login)
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if _, err := u.users.Create(ctx, login, hash, model.RoleAdmin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
