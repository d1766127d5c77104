package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

const internalErrorMessage = "Internal server error"

// respondError translates a domain error into status and JSON body.
// Unknown errors are attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	var (
		fieldErrs     validator.ValidationErrors
		transitionErr *domainErrors.TransitionError
		rejectedErr   *domainErrors.PromoRejectedError
		validationErr *domainErrors.ValidationError
	)

	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		reply(c, http.StatusBadRequest, "Validation failed", fieldMessage(fieldErrs[0]))
	case errors.As(err, &validationErr):
		reply(c, http.StatusBadRequest, "Validation failed", validationErr.Message)
	case errors.As(err, &transitionErr):
		reply(c, http.StatusBadRequest, "Invalid status transition",
			fmt.Sprintf("Cannot change status from %s to %s", transitionErr.From, transitionErr.To))
	case errors.As(err, &rejectedErr):
		reply(c, http.StatusBadRequest, rejectedErr.Message, "")
	case errors.Is(err, domainErrors.ErrPromoExhausted),
		errors.Is(err, domainErrors.ErrPromoAlreadyApplied),
		errors.Is(err, domainErrors.ErrPromoNotApplied),
		errors.Is(err, domainErrors.ErrOrderNotModifiable),
		errors.Is(err, domainErrors.ErrEmptyCart):
		reply(c, http.StatusBadRequest, capitalize(err.Error()), "")
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrUnauthorized):
		reply(c, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, domainErrors.ErrNotFound):
		reply(c, http.StatusNotFound, "Not found", "")
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		reply(c, http.StatusConflict, "Already exists", "")
	case errors.Is(err, domainErrors.ErrInUse):
		reply(c, http.StatusConflict, "Resource is still referenced", "")
	default:
		_ = c.Error(err)
		reply(c, http.StatusInternalServerError, internalErrorMessage, "")
	}
}

// respondBindError reports a request body or query that failed to bind.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		respondError(c, err)
		return
	}
	reply(c, http.StatusBadRequest, "Invalid request body", "")
}

func reply(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message, Details: details})
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "numeric":
		return field + " must be a number"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UseJSONFieldNames makes validation messages name fields by their json or form tag.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.Split(f.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}
