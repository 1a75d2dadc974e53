package dto

import (
	"net/http"
	"strings"
)

// General error codes used by handlers directly
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeValidation is used when request body or query validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to a prefix heuristic in
// GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	// General
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Resources
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_SKU":        http.StatusConflict,
	"DUPLICATE_CODE":       http.StatusConflict,
	"DUPLICATE_NUMBER":     http.StatusConflict,

	// Input shape -> 400 Bad Request
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_QUANTITY":         http.StatusBadRequest,
	"INVALID_VARIANT":          http.StatusBadRequest,
	"INVALID_ORIGINATOR":       http.StatusBadRequest,
	"INVALID_REASON":           http.StatusBadRequest,
	"INVALID_CODE":             http.StatusBadRequest,
	"INVALID_NAME":             http.StatusBadRequest,
	"INVALID_TYPE":             http.StatusBadRequest,
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"INVALID_STATE_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_LOCATION":         http.StatusBadRequest,
	"NO_VARIANTS":              http.StatusBadRequest,
	"INVALID_SPLIT_QUANTITY":   http.StatusBadRequest,

	// Business rules -> 422 Unprocessable Entity
	"INSUFFICIENT_STOCK":        http.StatusUnprocessableEntity,
	"INVALID_RELEASE":           http.StatusUnprocessableEntity,
	"INVALID_SHIPMENT":          http.StatusUnprocessableEntity,
	"LOCATION_INACTIVE":         http.StatusUnprocessableEntity,
	"SOURCE_EQUALS_DESTINATION": http.StatusUnprocessableEntity,
	"NO_STOCK_ITEM":             http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes are classified by prefix so new domain rules map to a
// sensible status without touching this table.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}

	switch {
	case strings.HasPrefix(code, "CANNOT_"),
		strings.HasPrefix(code, "HAS_"),
		strings.HasPrefix(code, "ALREADY_"):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"), strings.HasPrefix(code, "NO_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
