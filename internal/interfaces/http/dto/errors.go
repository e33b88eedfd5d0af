package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeOperationFailed is used when a datastore or upstream call failed
	ErrCodeOperationFailed = "ERR_OPERATION_FAILED"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is missing or the actor
	// may not perform the operation
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the resource itself is off limits
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Token and credential error codes
const (
	ErrCodeTokenExpired      = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid      = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked      = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredential = "ERR_INVALID_CREDENTIALS"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInUse               = "ERR_IN_USE"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeSystemCategory    = "ERR_SYSTEM_CATEGORY"
	ErrCodeNoAttribution     = "ERR_NO_ATTRIBUTION"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:         http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeOperationFailed: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeTokenExpired:      http.StatusUnauthorized,
	ErrCodeTokenInvalid:      http.StatusUnauthorized,
	ErrCodeTokenRevoked:      http.StatusUnauthorized,
	ErrCodeInvalidCredential: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInUse:               http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeSystemCategory:    http.StatusUnprocessableEntity,
	ErrCodeNoAttribution:     http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API codes above.
// Field-level INVALID_* codes that are not listed fall back to
// ErrCodeInvalidInput. UNAUTHORIZED from a service means the caller is
// signed in but lacks the role, so it surfaces as 403.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_TRANSITION":   ErrCodeInvalidTransition,
	"SYSTEM_CATEGORY":      ErrCodeSystemCategory,
	"NO_ATTRIBUTION":       ErrCodeNoAttribution,
	"ACCOUNT_IN_USE":       ErrCodeInUse,
	"UNAUTHORIZED":         ErrCodeForbidden,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_CREDENTIALS":  ErrCodeInvalidCredential,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"TOKEN_REVOKED":        ErrCodeTokenRevoked,
	"TOKEN_MAX_REFRESH":    ErrCodeTokenExpired,
	"INVALID_MAGIC_TOKEN":  ErrCodeTokenInvalid,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"OPERATION_FAILED":     ErrCodeOperationFailed,
	"EXPORT_FAILED":        ErrCodeOperationFailed,
	"UPLOAD_URL_FAILED":    ErrCodeOperationFailed,
	"DOWNLOAD_URL_FAILED":  ErrCodeOperationFailed,
	"EXPORT_UNAVAILABLE":   ErrCodeBusinessRule,
	"PASSWORD_HASH_ERROR":  ErrCodeInternal,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
