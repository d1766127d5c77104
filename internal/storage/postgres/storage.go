package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/storefront/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool used by Storage.
type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{db: s.pool}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{db: s.pool}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{db: s.pool}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{db: s.pool}
}

func (s *Storage) History() repository.HistoryRepository {
	return &historyRepository{db: s.pool}
}

func (s *Storage) PromoCodes() repository.PromoCodeRepository {
	return &promoRepository{db: s.pool}
}

// txFactory hands out repositories bound to one transaction.
type txFactory struct {
	tx pgx.Tx
}

func (f txFactory) Users() repository.UserRepository {
	return &userRepository{db: f.tx}
}

func (f txFactory) Products() repository.ProductRepository {
	return &productRepository{db: f.tx}
}

func (f txFactory) Carts() repository.CartRepository {
	return &cartRepository{db: f.tx}
}

func (f txFactory) Orders() repository.OrderRepository {
	return &orderRepository{db: f.tx}
}

func (f txFactory) History() repository.HistoryRepository {
	return &historyRepository{db: f.tx}
}

func (f txFactory) PromoCodes() repository.PromoCodeRepository {
	return &promoRepository{db: f.tx}
}

// WithinTransaction executes fn with repositories sharing one transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
			}
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(txFactory{tx: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'CUSTOMER',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS cart_items (
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (user_id, product_id)
        )`,
	`CREATE TABLE IF NOT EXISTS promo_codes (
            id BIGSERIAL PRIMARY KEY,
            code TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            discount_type TEXT NOT NULL,
            discount_amount NUMERIC(12,2),
            discount_percent NUMERIC(5,2),
            has_expiry_date BOOLEAN NOT NULL DEFAULT FALSE,
            expiry_date TIMESTAMPTZ,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            max_uses INTEGER,
            used_count INTEGER NOT NULL DEFAULT 0 CHECK (used_count >= 0),
            min_order_amount NUMERIC(12,2),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL,
            recipient_name TEXT NOT NULL,
            phone TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            promo_code_id BIGINT REFERENCES promo_codes(id),
            promo_discount NUMERIC(12,2),
            admin_discount NUMERIC(12,2) NOT NULL DEFAULT 0,
            savings NUMERIC(12,2) NOT NULL DEFAULT 0,
            items_edited BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT orders_promo_pair CHECK ((promo_code_id IS NULL) = (promo_discount IS NULL))
        )`,
	`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            product_name TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price NUMERIC(12,2) NOT NULL,
            price_edited BOOLEAN NOT NULL DEFAULT FALSE,
            quantity_edited BOOLEAN NOT NULL DEFAULT FALSE,
            original_values JSONB NOT NULL DEFAULT '{}'
        )`,
	`CREATE TABLE IF NOT EXISTS order_status_history (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            previous_status TEXT,
            new_status TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            created_by_id BIGINT NOT NULL REFERENCES users(id),
            created_by_role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS user_promo_codes (
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            promo_code_id BIGINT NOT NULL REFERENCES promo_codes(id) ON DELETE CASCADE,
            is_exclusive BOOLEAN NOT NULL DEFAULT FALSE,
            has_expiry_date BOOLEAN NOT NULL DEFAULT FALSE,
            expiry_date TIMESTAMPTZ,
            assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            used_at TIMESTAMPTZ,
            PRIMARY KEY (user_id, promo_code_id)
        )`,
	`CREATE TABLE IF NOT EXISTS excluded_users (
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            promo_code_id BIGINT NOT NULL REFERENCES promo_codes(id) ON DELETE CASCADE,
            excluded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, promo_code_id)
        )`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history(order_id, created_at DESC)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
