package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding fails validation
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource or route is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	"EMPTY_CART":            http.StatusBadRequest,
	"UNKNOWN_CATEGORY":      http.StatusBadRequest,
	"FEED_FETCH_FAILED":     http.StatusBadRequest,
	"IMAGE_TOO_LARGE":       http.StatusBadRequest,
	"UNSUPPORTED_IMAGE":     http.StatusBadRequest,
	"PASSWORD_MISMATCH":     http.StatusBadRequest,
	"CONFIRM_TOKEN_EXPIRED": http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"NOT_SHOP_USER":       http.StatusForbidden,
	"NOT_ADMIN":           http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONFLICT":             http.StatusConflict,
	"ALREADY_CONFIRMED":    http.StatusConflict,
	"SHOP_NAME_TAKEN":      http.StatusConflict,
	"ARTICLE_TAKEN":        http.StatusConflict,
	"EMAIL_ALREADY_EXISTS": http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE": http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	"AVATAR_UNAVAILABLE":   http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes missing from ErrorCodeHTTPStatus fall back to their family:
// *_NOT_FOUND is 404, TOKEN_* is 401 and INVALID_* is 400.
// Anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
