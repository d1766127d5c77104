package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}
