package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module opens the pgx pool, applies the schema and exposes the Storage as
// both the repository factory and the transactor.
var Module = fx.Options(
	fx.Provide(
		newStorage,
		asFactory,
		asTransactor,
	),
	fx.Invoke(closeOnStop),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func asFactory(s *Storage) repository.Factory { return s }

func asTransactor(s *Storage) repository.Transactor { return s }

func closeOnStop(lc fx.Lifecycle, storage *Storage, logger *slog.Logger) {
	lc.Append(fx.StopHook(func() {
		storage.Close()
		logger.Info("database pool closed")
	}))
}
