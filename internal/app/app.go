package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		func(f *StorefrontFacade) handlers.StorefrontFacade { return f },
		func(f *StorefrontFacade) AdminBootstrapper { return f },
		newHTTPServer,
		newUploadCleaner,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type cleanerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// newUploadCleaner returns nil when no upload directory is configured.
func newUploadCleaner(p cleanerParams) *worker.UploadCleaner {
	if p.Config.UploadTmpDir == "" {
		return nil
	}
	return worker.NewUploadCleaner(
		worker.NewDirStore(p.Config.UploadTmpDir),
		p.Config.CleanupInterval,
		p.Config.UploadTmpTTL,
		p.Config.CleanupWorkers,
		p.Logger,
	)
}

// AdminBootstrapper creates the configured administrator at startup.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, login, password string) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Cleaner    *worker.UploadCleaner
	Admins     AdminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Admins.EnsureAdmin(ctx, p.Config.AdminLogin, p.Config.AdminPassword); err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}

			p.Logger.Info("starting storefront", slog.String("addr", p.Server.Addr))
			if p.Cleaner != nil {
				p.Logger.Info("upload cleaner enabled", slog.String("dir", p.Config.UploadTmpDir))
				// Start context ends with OnStart, the cleaner lives until OnStop.
				p.Cleaner.Start(context.WithoutCancel(ctx))
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Cleaner != nil {
				p.Cleaner.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("storefront stopped")
			return nil
		},
	})
}
