package router

import "go.uber.org/fx"

// Module provides the gin engine serving every storefront route.
var Module = fx.Options(
	fx.Provide(Setup),
)
