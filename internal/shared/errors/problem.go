// Package errors renders API failures as RFC 7807 problem documents.
// See: https://www.rfc-editor.org/rfc/rfc7807
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the body of every non-2xx response except the stock shortage payload.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
// The extension map is cloned so package-level templates are never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URIs, relative to the API root.
const (
	TypeValidation          = "/problems/validation-error"
	TypeBadRequest          = "/problems/bad-request"
	TypeUnauthorized        = "/problems/unauthorized"
	TypeForbidden           = "/problems/forbidden"
	TypeNotFound            = "/problems/not-found"
	TypeUnknownProduct      = "/problems/unknown-product"
	TypeCheckoutUnavailable = "/problems/checkout-unavailable"
	TypeInternal            = "/problems/internal-error"
)

var (
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthenticated",
		Status: http.StatusUnauthorized,
	}

	// ErrForbidden is returned when the principal does not own the store.
	ErrForbidden = ProblemDetail{
		Type:   TypeForbidden,
		Title:  "Unauthorized",
		Status: http.StatusForbidden,
	}

	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Not Found",
		Status: http.StatusNotFound,
	}

	// ErrUnknownProduct means a cart line names a product the catalog could not resolve.
	ErrUnknownProduct = ProblemDetail{
		Type:   TypeUnknownProduct,
		Title:  "Product Not Found",
		Status: http.StatusNotFound,
	}

	// ErrCheckoutUnavailable means the initial order state is not configured.
	ErrCheckoutUnavailable = ProblemDetail{
		Type:   TypeCheckoutUnavailable,
		Title:  "Order State Not Found",
		Status: http.StatusNotFound,
	}

	// ErrInternal never carries a detail; internals stay in the logs.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Error",
		Status: http.StatusInternalServerError,
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewMissingFieldProblem reports a single absent required field, e.g. "Phone is required".
func NewMissingFieldProblem(field string) ProblemDetail {
	return NewValidationProblem(map[string]string{field: "is required"}).
		WithDetail(fmt.Sprintf("%s is required", field))
}
