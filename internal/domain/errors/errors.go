package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOrderNotModifiable  = errors.New("order cannot be modified in its current status")
	ErrPromoAlreadyApplied = errors.New("a promo code is already applied to this order")
	ErrPromoNotApplied     = errors.New("no promo code is applied to this order")
	ErrPromoRejected       = errors.New("promo code rejected")
	ErrPromoExhausted      = errors.New("promo code usage limit reached")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInUse               = errors.New("resource is referenced")
)

// TransitionError reports a status move the state machine refused.
type TransitionError struct {
	From string
	To   string
	Role string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s as %s", e.From, e.To, e.Role)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PromoRejectedError carries the user facing reason a code was refused.
type PromoRejectedError struct {
	Message string
}

func (e *PromoRejectedError) Error() string {
	return e.Message
}

func (e *PromoRejectedError) Unwrap() error {
	return ErrPromoRejected
}

// ValidationError wraps a single field problem reported to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
