package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

const (
	// ActorContextKey is a gin context key for the authenticated model.Actor.
	ActorContextKey = "actor"
	authCookieName  = "storefront_token"
)

// UserResolver turns a bearer token into the user it belongs to.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := resolver.ResolveUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainErrors.ErrUnauthorized) {
				abortUnauthorized(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
			return
		}

		c.Set(ActorContextKey, user.Actor())
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
// It must run after AuthRequired.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok || actor.Role != role {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// CurrentActor returns the actor stored by AuthRequired.
func CurrentActor(c *gin.Context) (model.Actor, bool) {
	val, ok := c.Get(ActorContextKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := val.(model.Actor)
	return actor, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
