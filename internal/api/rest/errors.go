package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/deedhub/land-registry/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeNotRegistered    ErrorCode = "not_registered"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeServiceError  ErrorCode = "service_error"
)

// APIError represents a structured API error carrying a code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// statusFor maps a pipeline error to an HTTP status and API error body.
func statusFor(err error) (int, *APIError) {
	var (
		validationErr *domain.ValidationError
		duplicateErr  *domain.DuplicateContentError
	)

	switch {
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound, NewNotFoundError("Property not found")
	case errors.Is(err, domain.ErrTokenNotFound):
		return http.StatusNotFound, NewNotFoundError("Token not found on chain")
	case errors.Is(err, domain.ErrNotRegistered):
		return http.StatusConflict, &APIError{
			Code:    ErrCodeNotRegistered,
			Message: "Property has not completed chain registration",
		}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, &APIError{
			Code:    ErrCodeValidationFailed,
			Message: "Validation failed",
			Details: validationErr.Reason,
		}
	case errors.As(err, &duplicateErr):
		return http.StatusConflict, &APIError{
			Code:    ErrCodeConflict,
			Message: "Content already registered",
			Details: duplicateErr.CID,
		}
	default:
		return http.StatusInternalServerError, &APIError{
			Code:    ErrCodeServiceError,
			Message: "Request failed",
		}
	}
}
