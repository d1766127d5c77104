package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			reply(c, http.StatusBadRequest, "Login and password are required", "")
			return
		}
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, int(h.facade.TokenTTL().Seconds()))
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token, int(h.facade.TokenTTL().Seconds()))
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Me handles GET /api/user/me.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := CurrentActor(c)
	c.JSON(http.StatusOK, dto.UserResponse{ID: actor.UserID, Login: actor.Login, Role: string(actor.Role)})
}
