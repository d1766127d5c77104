package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handlers.UseJSONFieldNames()
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	}
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	promoHandler := handlers.NewPromoHandler(facade)
	promoAdminHandler := handlers.NewPromoAdminHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Health)
	api.GET("/products", catalogHandler.Products)
	api.GET("/products/:id", catalogHandler.Product)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/user/me", authHandler.Me)

	authed.GET("/cart", catalogHandler.Cart)
	authed.PUT("/cart/items", catalogHandler.SetCartItem)
	authed.DELETE("/cart/items/:productId", catalogHandler.RemoveCartItem)

	authed.POST("/checkout", orderHandler.Checkout)
	authed.POST("/checkout/apply-promo", promoHandler.CheckoutApply)
	authed.POST("/checkout/remove-promo", promoHandler.CheckoutRemove)
	authed.GET("/promo-codes/validate", promoHandler.Validate)

	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PATCH("/orders/:id/status", orderHandler.CustomerStatus)
	authed.GET("/orders/:id/history", orderHandler.History)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/products", catalogHandler.CreateProduct)

	admin.GET("/orders", orderHandler.AdminList)
	admin.GET("/orders/:id", orderHandler.Get)
	admin.PATCH("/orders/:id/status", orderHandler.AdminStatus)
	admin.PATCH("/orders/:id/items/:itemId", orderHandler.EditItem)
	admin.PATCH("/orders/:id/discount", orderHandler.SetDiscount)
	admin.POST("/orders/:id/apply-promo", promoHandler.AdminApply)
	admin.DELETE("/orders/:id/remove-promo", promoHandler.AdminRemove)
	admin.GET("/orders/:id/history", orderHandler.History)

	admin.GET("/promo-codes", promoAdminHandler.List)
	admin.POST("/promo-codes", promoAdminHandler.Create)
	admin.GET("/promo-codes/:id", promoAdminHandler.Get)
	admin.PUT("/promo-codes/:id", promoAdminHandler.Update)
	admin.DELETE("/promo-codes/:id", promoAdminHandler.Delete)
	admin.POST("/promo-codes/:id/assignments", promoAdminHandler.Assign)
	admin.DELETE("/promo-codes/:id/assignments/:userId", promoAdminHandler.Unassign)
	admin.POST("/promo-codes/:id/exclusions", promoAdminHandler.Exclude)
	admin.DELETE("/promo-codes/:id/exclusions/:userId", promoAdminHandler.Unexclude)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	})

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{"Authorization", middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
