// Package errors provides the application error taxonomy for the rentwise API.
// Every service-layer failure is an *AppError carrying a Kind, so callers can
// tell caller mistakes (validation, not found) from storage failures that are
// worth retrying, and the HTTP layer can map each to a status code without
// leaking internal details.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPersistence  Kind = "persistence"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, kind, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so a wrapped
// copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Retryable reports whether the operation may succeed if retried unchanged.
func (e *AppError) Retryable() bool { return e.Kind == KindPersistence }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   sentinel.Internal,
	}
}

// Validation is shorthand for WithMessage(ErrValidation, message).
func Validation(message string) *AppError {
	return WithMessage(ErrValidation, message)
}

// Persistence wraps a storage-layer failure.
func Persistence(err error) *AppError {
	return Wrap(ErrPersistence, err)
}

// KindOf returns the Kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func newError(kind Kind, status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status, Kind: kind}
}

// Identity errors.
var (
	ErrUnauthorized = newError(KindUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
)

// General errors.
var (
	ErrValidation     = newError(KindValidation, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input")
	ErrNotFound       = newError(KindNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrPersistence    = newError(KindPersistence, http.StatusInternalServerError, "PERSISTENCE_ERROR", "A storage error occurred, please retry")
	ErrInternalServer = newError(KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
)

// Realtor errors.
var (
	ErrRealtorNotFound = newError(KindNotFound, http.StatusNotFound, "REALTOR_NOT_FOUND", "Realtor not found")
	ErrDuplicateEmail  = newError(KindConflict, http.StatusConflict, "DUPLICATE_EMAIL", "A realtor with this email already exists")
)

// Unit errors.
var (
	ErrUnitNotFound = newError(KindNotFound, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found")
)

// Tenant errors.
var (
	ErrTenantNotFound = newError(KindNotFound, http.StatusNotFound, "TENANT_NOT_FOUND", "Tenant not found")
)

// Lease errors.
var (
	ErrLeaseNotFound          = newError(KindNotFound, http.StatusNotFound, "LEASE_NOT_FOUND", "Lease not found")
	ErrInvalidLeaseTransition = newError(KindConflict, http.StatusConflict, "INVALID_LEASE_TRANSITION", "Lease status change is not allowed")
)

// Payment schedule errors.
var (
	ErrPaymentEntryNotFound     = newError(KindNotFound, http.StatusNotFound, "PAYMENT_ENTRY_NOT_FOUND", "Payment schedule entry not found")
	ErrInvalidPaymentTransition = newError(KindConflict, http.StatusConflict, "INVALID_PAYMENT_TRANSITION", "Payment status change is not allowed")
)
