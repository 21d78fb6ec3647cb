package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request or form content fails validation
	ErrCodeValidation = "ERR_VALIDATION"
)

// Session error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeSessionInvalid is used when the session token cannot be validated
	ErrCodeSessionInvalid = "ERR_SESSION_INVALID"
	// ErrCodeSessionExpired is used when the session token has expired
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Flow error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeCartEmpty is used when checkout is attempted on an empty cart
	ErrCodeCartEmpty = "ERR_CART_EMPTY"
	// ErrCodeSubmissionInFlight is used when a submission is already running
	ErrCodeSubmissionInFlight = "ERR_SUBMISSION_IN_FLIGHT"
	// ErrCodeOverlayNotOpen is used when overlay actions hit a closed overlay
	ErrCodeOverlayNotOpen = "ERR_OVERLAY_NOT_OPEN"
	// ErrCodeNavigationUnavailable is used when the overlay has nothing to navigate
	ErrCodeNavigationUnavailable = "ERR_NAVIGATION_UNAVAILABLE"
)

// Upstream error codes
const (
	// ErrCodeBackendError is used when the commerce backend rejected a call
	ErrCodeBackendError = "ERR_BACKEND_ERROR"
	// ErrCodeBackendUnavailable is used when the commerce backend cannot be reached
	ErrCodeBackendUnavailable = "ERR_BACKEND_UNAVAILABLE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Session errors -> 401 Unauthorized
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeSessionInvalid: http.StatusUnauthorized,
	ErrCodeSessionExpired: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,

	// Flow errors: state conflicts -> 409, business rules -> 422
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeCartEmpty:             http.StatusUnprocessableEntity,
	ErrCodeSubmissionInFlight:    http.StatusConflict,
	ErrCodeOverlayNotOpen:        http.StatusConflict,
	ErrCodeNavigationUnavailable: http.StatusConflict,

	// Upstream errors
	ErrCodeBackendError:       http.StatusBadGateway,
	ErrCodeBackendUnavailable: http.StatusServiceUnavailable,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to their wire-level codes.
// Domain packages speak in their own vocabulary; the HTTP surface collapses
// it to the stable ERR_* set clients switch on.
var DomainErrorCodeMapping = map[string]string{
	"VALIDATION_FAILED":      ErrCodeValidation,
	"INVALID_INPUT":          ErrCodeValidation,
	"INVALID_IMAGE_INDEX":    ErrCodeValidation,
	"INVALID_PRODUCT":        ErrCodeValidation,
	"INVALID_PRODUCT_NAME":   ErrCodeValidation,
	"INVALID_CATEGORY":       ErrCodeValidation,
	"INVALID_PRICE":          ErrCodeValidation,
	"INVALID_ORDER":          ErrCodeValidation,
	"INVALID_STATUS":         ErrCodeValidation,
	"NOT_FOUND":              ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":      ErrCodeNotFound,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"INVALID_SESSION":        ErrCodeSessionInvalid,
	"SESSION_EXPIRED":        ErrCodeSessionExpired,
	"INVALID_STATE":          ErrCodeInvalidState,
	"CART_EMPTY":             ErrCodeCartEmpty,
	"SUBMISSION_IN_FLIGHT":   ErrCodeSubmissionInFlight,
	"OVERLAY_NOT_OPEN":       ErrCodeOverlayNotOpen,
	"NAVIGATION_UNAVAILABLE": ErrCodeNavigationUnavailable,
	"BACKEND_ERROR":          ErrCodeBackendError,
	"BACKEND_UNAVAILABLE":    ErrCodeBackendUnavailable,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire-level format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
