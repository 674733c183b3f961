package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable discriminator carried next to the HTTP
// status, for clients that branch on failure kind rather than parsing
// detail strings. The thousands digit groups the family.
type ErrorCode int

const (
	// 3xxx: the named resource does not exist
	ErrCodeNotFound ErrorCode = 3001

	// 4xxx: the request itself is unacceptable
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// 5xxx: the server or its storage failed
	ErrCodeInternal ErrorCode = 5001
	ErrCodeDatabase ErrorCode = 5002
)

// ProblemDetails is the body of every non-2xx response, shaped after
// RFC 9457. Handlers never build one by hand; the constructors below
// keep the type URLs and codes consistent.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Code is an extension member, absent from responses without one.
	Code ErrorCode `json:"code,omitempty"`
}

// FieldError pinpoints one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lets a ProblemDetails travel as an ordinary error value.
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON sends the problem with its registered status and the
// problem+json content type.
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewNotFoundError reports that resource does not exist. Callers pass a
// human-readable name such as "Activity 'Chess Club'".
func NewNotFoundError(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/not-found",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
		Code:   ErrCodeNotFound,
	}
}

// NewValidationError reports one or more field-level input errors. Query
// parameter validation shares the 400 contract with malformed requests, so
// the status is Bad Request rather than Unprocessable Entity.
func NewValidationError(errors []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/validation",
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   ErrCodeValidation,
		Errors: errors,
	}
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/internal",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Code:   ErrCodeInternal,
	}
}

// NewDatabaseError deliberately says nothing about the underlying
// failure; storage details belong in the logs, not the response.
func NewDatabaseError() *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/database",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: "A storage error occurred",
		Code:   ErrCodeDatabase,
	}
}

func NewBadRequestError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/bad-request",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   ErrCodeInvalidInput,
	}
}

// NewRateLimitError mirrors the Retry-After header in the body for
// clients that never read headers.
func NewRateLimitError(retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://activities-api.mergington.edu/errors/rate-limited",
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
		Detail: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter),
	}
}
