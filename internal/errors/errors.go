package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Is reports whether target is an APIError with the same error code, so
// errors built by the helpers below still match the predefined values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents a single invalid form field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Form validation failed")

	// 401 Unauthorized
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")

	// 403 Forbidden
	ErrForbidden    = New(http.StatusForbidden, "FORBIDDEN", "Access denied")
	ErrInvalidNonce = New(http.StatusForbidden, "INVALID_NONCE", "The link you followed has expired")

	// 404 Not Found
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrStepNotFound   = New(http.StatusNotFound, "STEP_NOT_FOUND", "Wizard step not found")
	ErrOptionNotFound = New(http.StatusNotFound, "OPTION_NOT_FOUND", "Option record not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrStorage        = New(http.StatusInternalServerError, "STORAGE_ERROR", "Option storage failed")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

// StepNotFound creates a step not found error naming the slug
func StepNotFound(slug string) *APIError {
	return NewWithDetails(http.StatusNotFound, "STEP_NOT_FOUND", fmt.Sprintf("Wizard step %q not found", slug), map[string]string{"step": slug})
}

// OptionNotFound creates an option not found error naming the record
func OptionNotFound(name string) *APIError {
	return NewWithDetails(http.StatusNotFound, "OPTION_NOT_FOUND", fmt.Sprintf("Option %q not found", name), map[string]string{"option": name})
}

// StorageError wraps a store failure during operation
func StorageError(operation string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "STORAGE_ERROR", fmt.Sprintf("Option storage failed during %s", operation), err.Error())
}

// NewValidationErrors creates a validation error listing every invalid field
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Form validation failed", errs)
}
