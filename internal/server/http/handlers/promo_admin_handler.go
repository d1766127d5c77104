package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// PromoAdminHandler serves promo code administration.
type PromoAdminHandler struct {
	facade PromoAdminFacade
}

// NewPromoAdminHandler constructs PromoAdminHandler.
func NewPromoAdminHandler(facade PromoAdminFacade) *PromoAdminHandler {
	return &PromoAdminHandler{facade: facade}
}

// List handles GET /api/admin/promo-codes.
func (h *PromoAdminHandler) List(c *gin.Context) {
	codes, err := h.facade.PromoCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.PromoCodeResponse, 0, len(codes))
	for _, code := range codes {
		resp = append(resp, dto.NewPromoCodeResponse(code))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/admin/promo-codes/:id.
func (h *PromoAdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	details, err := h.facade.PromoCode(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPromoDetailsResponse(details.Code, details.Assignments, details.Exclusions))
}

// Create handles POST /api/admin/promo-codes.
func (h *PromoAdminHandler) Create(c *gin.Context) {
	var req dto.PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	code := req.ToModel()
	if err := h.facade.CreatePromoCode(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPromoCodeResponse(*code))
}

// Update handles PUT /api/admin/promo-codes/:id.
func (h *PromoAdminHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	code := req.ToModel()
	code.ID = id
	if err := h.facade.UpdatePromoCode(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPromoCodeResponse(*code))
}

// Delete handles DELETE /api/admin/promo-codes/:id.
func (h *PromoAdminHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeletePromoCode(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Promo code deleted"})
}

// Assign handles POST /api/admin/promo-codes/:id/assignments.
func (h *PromoAdminHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	assignment, err := h.facade.AssignPromoCode(c.Request.Context(), id, req.UserID, req.IsExclusive, req.ExpiryDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAssignmentResponse(*assignment))
}

// Unassign handles DELETE /api/admin/promo-codes/:id/assignments/:userId.
func (h *PromoAdminHandler) Unassign(c *gin.Context) {
	h.dropUser(c, h.facade.UnassignPromoCode, "Assignment removed")
}

// Exclude handles POST /api/admin/promo-codes/:id/exclusions.
func (h *PromoAdminHandler) Exclude(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.facade.ExcludeFromPromoCode(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User excluded"})
}

// Unexclude handles DELETE /api/admin/promo-codes/:id/exclusions/:userId.
func (h *PromoAdminHandler) Unexclude(c *gin.Context) {
	h.dropUser(c, h.facade.UnexcludeFromPromoCode, "Exclusion removed")
}

func (h *PromoAdminHandler) dropUser(c *gin.Context, op func(ctx context.Context, promoID, userID int64) error, message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}
