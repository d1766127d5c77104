package usecase

import "go.uber.org/fx"

// Module provides the storefront use cases. Each constructor takes its
// repositories through fx so tests can swap in the in-memory store.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCatalogUseCase,
	NewCartUseCase,
	NewOrderUseCase,
	NewPromoUseCase,
	NewPromoAdminUseCase,
)
