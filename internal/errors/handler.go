package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError processes errors and sends appropriate response
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(r, err)

	attrs := []any{
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()),
	}
	if problem.Status >= http.StatusInternalServerError {
		if h.includeStack {
			attrs = append(attrs, slog.String("stack", string(debug.Stack())))
		}
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		h.logger.WarnContext(r.Context(), "request rejected", attrs...)
	}

	if writeErr := WriteProblem(w, problem); writeErr != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response",
			slog.String("error", writeErr.Error()))
	}
}

// ErrorToProblem converts any error into RFC 7807 problem details
func (h *ErrorHandler) ErrorToProblem(r *http.Request, err error) *ProblemDetails {
	instance := r.URL.Path
	requestID := middleware.GetReqID(r.Context())

	var problem *ProblemDetails
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		problem = apiErrorToProblem(apiErr, instance)
	case errors.Is(err, context.DeadlineExceeded):
		problem = NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to complete", instance)
	case errors.Is(err, context.Canceled):
		problem = NewProblemDetails(http.StatusServiceUnavailable, TypeServiceDown, "Request Canceled",
			"The request was canceled", instance)
	default:
		detail := "An unexpected error occurred"
		if h.includeStack {
			detail = err.Error()
		}
		problem = NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
			detail, instance)
	}

	if requestID != "" {
		problem.WithExtension("request_id", requestID)
	}
	return problem
}

func apiErrorToProblem(apiErr *APIError, instance string) *ProblemDetails {
	problem := NewProblemDetails(apiErr.StatusCode, problemType(apiErr), http.StatusText(apiErr.StatusCode),
		apiErr.Message, instance)
	problem.WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

func problemType(apiErr *APIError) string {
	switch apiErr.ErrorCode {
	case ErrStepNotFound.ErrorCode:
		return TypeStepNotFound
	case ErrInvalidNonce.ErrorCode:
		return TypeInvalidNonce
	case ErrOptionNotFound.ErrorCode:
		return TypeOptionNotFound
	case ErrStorage.ErrorCode:
		return TypeStorage
	case ErrValidationFailed.ErrorCode:
		return TypeValidation
	}

	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		return TypeBadRequest
	case http.StatusUnauthorized:
		return TypeUnauthorized
	case http.StatusForbidden:
		return TypeForbidden
	case http.StatusNotFound:
		return TypeNotFound
	case http.StatusTooManyRequests:
		return TypeRateLimit
	case http.StatusServiceUnavailable:
		return TypeServiceDown
	default:
		return TypeInternal
	}
}

// HandlePanic converts a recovered panic value into a 500 problem response
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Any("panic", recovered),
		slog.String("stack", string(debug.Stack())))

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path)
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprint(recovered))
	}
	_ = WriteProblem(w, problem)
}

// NotFound handles 404 errors
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, NewWithDetails(http.StatusNotFound, ErrNotFound.ErrorCode,
		fmt.Sprintf("The requested resource %s was not found", r.URL.Path), nil))
}

// MethodNotAllowed handles 405 errors
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Method %s is not allowed for %s", r.Method, r.URL.Path)))
}
