// Package errors defines the domain failures of the order and payment flows.
// Each constructor returns a *pkg/errors.AppError wrapping one of the sentinels
// below, so callers match with errors.Is and the HTTP layer maps by code.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	pkgerrors "github.com/proganas/extendable-order-payment-api/pkg/errors"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrHasPayments        = errors.New("order has payments")
	ErrUnsupportedGateway = errors.New("unsupported gateway")
	ErrGatewayInactive    = errors.New("gateway inactive")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// FieldErrors maps request field names to their messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Err returns a ValidationError when any field failed, nil otherwise.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return NewValidationError(f)
}

// NewValidationError reports rejected input. The message is the first field error,
// suffixed with the number of remaining ones.
func NewValidationError(fields FieldErrors) *pkgerrors.AppError {
	return pkgerrors.NewFieldError(pkgerrors.ErrValidation, summarize(fields), ErrValidation, fields)
}

// NewFieldValidationError is a shorthand for a single rejected field.
func NewFieldValidationError(field, message string) *pkgerrors.AppError {
	return NewValidationError(FieldErrors{field: {message}})
}

// NewInvalidFilterError rejects an unknown order status filter.
func NewInvalidFilterError(field string) *pkgerrors.AppError {
	return pkgerrors.NewFieldError(pkgerrors.ErrValidation, "Invalid order status filter", ErrValidation,
		FieldErrors{field: {fmt.Sprintf("The selected %s is invalid.", field)}})
}

func NewNotFoundError(resource string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrNotFound, capitalize(resource)+" not found", ErrNotFound)
}

func NewInvalidStateError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrFailedPrecondition, message, ErrInvalidState)
}

func NewHasPaymentsError() *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrFailedPrecondition, "Order cannot be deleted because it has payments", ErrHasPayments)
}

func NewUnsupportedGatewayError(code string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrInvalidArgument, fmt.Sprintf("unsupported payment gateway: %s", code), ErrUnsupportedGateway)
}

func NewGatewayInactiveError() *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrFailedPrecondition, "Payment gateway is not active", ErrGatewayInactive)
}

func NewUnauthenticatedError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrUnauthenticated, message, ErrUnauthenticated)
}

func summarize(fields FieldErrors) string {
	var first string
	for _, key := range sortedKeys(fields) {
		if msgs := fields[key]; len(msgs) > 0 {
			first = msgs[0]
			break
		}
	}
	if first == "" {
		return "The given data was invalid."
	}
	extra := -1
	for _, msgs := range fields {
		extra += len(msgs)
	}
	switch {
	case extra <= 0:
		return first
	case extra == 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, extra)
	}
}

func sortedKeys(m FieldErrors) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
