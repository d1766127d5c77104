package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// CatalogUseCase exposes products.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(store repository.Factory) *CatalogUseCase {
	return &CatalogUseCase{products: store.Products()}
}

// Products returns one page of the catalog ordered by id.
func (u *CatalogUseCase) Products(ctx context.Context, limit, offset int) ([]model.Product, error) {
	limit, offset = page(limit, offset)
	return u.products.List(ctx, limit, offset)
}

// Product returns a single product.
func (u *CatalogUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// CreateProduct adds a product to the catalog.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, product *model.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return domainErrors.Validation("name is required")
	}
	if product.Price.IsNegative() {
		return domainErrors.Validation("price must not be negative")
	}
	product.Price = product.Price.Round(2)
	return u.products.Create(ctx, product)
}

// Cart is the caller's cart priced at current product prices.
type Cart struct {
	Items    []model.CartItem
	Subtotal decimal.Decimal
}

// CartUseCase manages per-user carts.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(store repository.Factory) *CartUseCase {
	return &CartUseCase{carts: store.Carts(), products: store.Products()}
}

// Cart returns the cart lines and their subtotal.
func (u *CartUseCase) Cart(ctx context.Context, userID int64) (*Cart, error) {
	items, err := u.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Cart{Items: items, Subtotal: model.CartTotal(items)}, nil
}

// SetItem sets the quantity of a product in the cart.
func (u *CartUseCase) SetItem(ctx context.Context, userID, productID int64, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, domainErrors.Validation("quantity must be at least 1")
	}
	if _, err := u.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := u.carts.Upsert(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return u.Cart(ctx, userID)
}

// RemoveItem drops a product from the cart.
func (u *CartUseCase) RemoveItem(ctx context.Context, userID, productID int64) (*Cart, error) {
	if err := u.carts.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return u.Cart(ctx, userID)
}
