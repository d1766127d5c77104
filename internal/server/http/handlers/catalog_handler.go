package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// CatalogHandler serves products and the caller's cart.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Products handles GET /api/products.
func (h *CatalogHandler) Products(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	products, err := h.facade.Products(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, dto.NewProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Product handles GET /api/products/:id.
func (h *CatalogHandler) Product(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// CreateProduct handles POST /api/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product := &model.Product{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := h.facade.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(*product))
}

// Cart handles GET /api/cart.
func (h *CatalogHandler) Cart(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentActor(c).UserID)
	h.respondCart(c, cart, err)
}

// SetCartItem handles PUT /api/cart/items.
func (h *CatalogHandler) SetCartItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := h.facade.SetCartItem(c.Request.Context(), CurrentActor(c).UserID, req.ProductID, req.Quantity)
	h.respondCart(c, cart, err)
}

// RemoveCartItem handles DELETE /api/cart/items/:productId.
func (h *CatalogHandler) RemoveCartItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	cart, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentActor(c).UserID, productID)
	h.respondCart(c, cart, err)
}

func (h *CatalogHandler) respondCart(c *gin.Context, cart *usecase.Cart, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCartResponse(cart.Items, cart.Subtotal))
}
