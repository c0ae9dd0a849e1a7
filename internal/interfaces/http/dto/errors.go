package dto

import "net/http"

// Generic error codes used by the HTTP layer itself
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// domainErrorHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500; an unmapped code means a new
// domain error was added without deciding its HTTP shape.
var domainErrorHTTPStatus = map[string]int{
	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ITEM_NOT_FOUND":       http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_PRODUCT":    http.StatusConflict,

	// Validation errors -> 400 Bad Request
	"BAD_REQUEST":           http.StatusBadRequest,
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_ARGUMENT":      http.StatusBadRequest,
	"INVALID_AMOUNT":        http.StatusBadRequest,
	"INVALID_CUSTOMER":      http.StatusBadRequest,
	"INVALID_CUSTOMER_NAME": http.StatusBadRequest,
	"INVALID_DATE":          http.StatusBadRequest,
	"INVALID_DIRECTION":     http.StatusBadRequest,
	"INVALID_DISCOUNT":      http.StatusBadRequest,
	"INVALID_DUE_DATE":      http.StatusBadRequest,
	"INVALID_FOLIO":         http.StatusBadRequest,
	"INVALID_METHOD":        http.StatusBadRequest,
	"INVALID_PRICE":         http.StatusBadRequest,
	"INVALID_PRODUCT":       http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":  http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_REASON":        http.StatusBadRequest,
	"INVALID_TAX":           http.StatusBadRequest,
	"CURRENCY_MISMATCH":     http.StatusBadRequest,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"EMPTY_SALE":         http.StatusUnprocessableEntity,
	"EXCEEDS_AMOUNT":     http.StatusUnprocessableEntity,
	"EXCEEDS_BALANCE":    http.StatusUnprocessableEntity,
	"INVALID_SALE":       http.StatusUnprocessableEntity,
	"INVALID_REFERENCE":  http.StatusUnprocessableEntity,
	"REFERENCE_MISMATCH": http.StatusUnprocessableEntity,
	"NEGATIVE_RESULT":    http.StatusUnprocessableEntity,

	// Internal
	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
