package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// PromoHandler validates promo codes and attaches them to orders.
type PromoHandler struct {
	facade PromoFacade
}

// NewPromoHandler constructs PromoHandler.
func NewPromoHandler(facade PromoFacade) *PromoHandler {
	return &PromoHandler{facade: facade}
}

// Validate handles GET /api/promo-codes/validate. A rejected code is a 200
// response with valid=false and the reason.
func (h *PromoHandler) Validate(c *gin.Context) {
	var query dto.ValidatePromoQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	in := usecase.ValidateInput{Code: query.Code, OrderID: query.OrderID}
	if query.Amount != nil {
		amount, err := decimal.NewFromString(*query.Amount)
		if err != nil {
			respondError(c, domainErrors.Validation("amount must be a number"))
			return
		}
		in.Amount = &amount
	}

	result, err := h.facade.ValidatePromo(c.Request.Context(), CurrentActor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPromoValidationResponse(result))
}

// CheckoutApply handles POST /api/checkout/apply-promo.
func (h *PromoHandler) CheckoutApply(c *gin.Context) {
	var req dto.ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.apply(c, req.OrderID, req.Code)
}

// CheckoutRemove handles POST /api/checkout/remove-promo.
func (h *PromoHandler) CheckoutRemove(c *gin.Context) {
	var req dto.RemovePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.remove(c, req.OrderID)
}

// AdminApply handles POST /api/admin/orders/:id/apply-promo.
func (h *PromoHandler) AdminApply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdminApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.apply(c, id, req.Code)
}

// AdminRemove handles DELETE /api/admin/orders/:id/remove-promo.
func (h *PromoHandler) AdminRemove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.remove(c, id)
}

func (h *PromoHandler) apply(c *gin.Context, orderID int64, code string) {
	order, err := h.facade.ApplyPromo(c.Request.Context(), CurrentActor(c), orderID, code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *PromoHandler) remove(c *gin.Context, orderID int64) {
	order, err := h.facade.RemovePromo(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}
