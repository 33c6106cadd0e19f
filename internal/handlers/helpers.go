package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/logger"
	"rentwise/internal/middleware"
	"rentwise/internal/uuid"
	"rentwise/internal/validator"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getRealtorID extracts the authenticated realtor ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getRealtorID(c *gin.Context) (string, error) {
	realtorID := c.GetString(middleware.RealtorIDKey)
	if realtorID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return realtorID, nil
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // every route currently names its parameter "id"
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.Validation("Invalid " + param)
	}
	return id, nil
}

// parseDate parses a calendar day in request format. An empty value yields
// the zero time, so 0001-01-01 itself is rejected.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(validator.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validation(field + " must be a date in YYYY-MM-DD format")
	}
	if day.IsZero() {
		return time.Time{}, apperrors.Validation(field + " is out of range")
	}
	return day, nil
}

// parseOptionalDate is parseDate for nullable fields.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	day, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"kind", appErr.Kind,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// bindError converts a binding failure to a validation AppError.
func bindError(err error) *apperrors.AppError {
	return apperrors.Validation(err.Error())
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
