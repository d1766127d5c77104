package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// lifecycle is the part of *fx.App that run drives.
type lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

func run(ctx context.Context, app lifecycle) {
	if code := serve(ctx, app); code != 0 {
		os.Exit(code)
	}
}

// serve starts app, waits for a signal or an fx shutdown and stops it.
// It returns the process exit code.
func serve(ctx context.Context, app lifecycle) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start storefront: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop storefront: %v\n", err)
		return 1
	}
	return 0
}

var _ lifecycle = (*fx.App)(nil)
