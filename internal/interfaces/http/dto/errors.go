package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures map to 400, missing resources to 404, lost races
// and duplicates to 409, and business rule rejections to 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Input validation -> 400
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_CODE":           http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_TYPE":           http.StatusBadRequest,
	"INVALID_TAX_CATEGORY":   http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_WINDOW":         http.StatusBadRequest,
	"INVALID_RANGE":          http.StatusBadRequest,
	"INVALID_DATE":           http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_NUMBER":         http.StatusBadRequest,
	"INVALID_SOURCE_TYPE":    http.StatusBadRequest,
	"INVALID_SOURCE_ID":      http.StatusBadRequest,
	"INVALID_TARGET_TYPE":    http.StatusBadRequest,
	"INVALID_DIRECTION":      http.StatusBadRequest,
	"INVALID_SOURCE_ACCOUNT": http.StatusBadRequest,
	"INVALID_SYSTEM_KEY":     http.StatusBadRequest,
	"MALFORMED_FILE":         http.StatusBadRequest,
	"EMPTY_FILE":             http.StatusBadRequest,
	"TOO_MANY_ROWS":          http.StatusBadRequest,

	// Missing resources -> 404
	"NOT_FOUND": http.StatusNotFound,

	// Duplicates and lost races -> 409
	"ALREADY_EXISTS":       http.StatusConflict,
	"ALREADY_APPROVED":     http.StatusConflict,
	"ALREADY_LOCKED":       http.StatusConflict,
	"ALREADY_MATCHED":      http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"PERIOD_OVERLAP":       http.StatusConflict,

	// Business rule rejections -> 422
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"UNBALANCED":         http.StatusUnprocessableEntity,
	"ZERO_TOTAL":         http.StatusUnprocessableEntity,
	"NO_LINES":           http.StatusUnprocessableEntity,
	"EMPTY_LINE":         http.StatusUnprocessableEntity,
	"TWO_SIDED_LINE":     http.StatusUnprocessableEntity,
	"NEGATIVE_AMOUNT":    http.StatusUnprocessableEntity,
	"INVALID_ACCOUNT":    http.StatusUnprocessableEntity,
	"ACCOUNT_NOT_FOUND":  http.StatusUnprocessableEntity,
	"ACCOUNT_INACTIVE":   http.StatusUnprocessableEntity,
	"SYSTEM_ACCOUNT":     http.StatusUnprocessableEntity,
	"NOT_MANUAL":         http.StatusUnprocessableEntity,
	"PERIOD_LOCKED":      http.StatusUnprocessableEntity,
	"TARGET_SETTLED":     http.StatusUnprocessableEntity,
	"DIRECTION_MISMATCH": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes are treated as business rule rejections rather than
// server faults: they all originate from domain validation.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
