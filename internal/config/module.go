package config

import "go.uber.org/fx"

// Module provides the *Config assembled from defaults, files, environment and flags.
var Module = fx.Options(
	fx.Provide(Load),
)
