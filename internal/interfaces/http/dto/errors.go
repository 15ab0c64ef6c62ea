package dto

import "net/http"

// Error codes returned in API error responses. Handlers map domain
// error codes onto these before picking an HTTP status.
const (
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists      = "ERR_ALREADY_EXISTS"
	ErrCodeConflict           = "ERR_CONFLICT"
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock  = "ERR_INSUFFICIENT_STOCK"
	ErrCodeCartEmpty          = "ERR_CART_EMPTY"
	ErrCodeCouponInvalid      = "ERR_COUPON_INVALID"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountDisabled    = "ERR_ACCOUNT_DISABLED"
	ErrCodeInternal           = "ERR_INTERNAL"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountDisabled:    http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeInvalidState:       http.StatusConflict,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeCartEmpty:          http.StatusUnprocessableEntity,
	ErrCodeCouponInvalid:      http.StatusUnprocessableEntity,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// DomainCodeMapping translates the codes carried by domain errors into
// API error codes. Codes missing from this table pass through NormalizeErrorCode
// as ERR_BUSINESS_RULE so new domain codes fail soft rather than as 500s.
var DomainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeValidation,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"CART_EMPTY":           ErrCodeCartEmpty,
	"COUPON_INVALID":       ErrCodeCouponInvalid,
	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"ACCOUNT_DISABLED":     ErrCodeAccountDisabled,
	"INTERNAL":             ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to an API error code.
// Codes already in ERR_ form are returned unchanged.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if mapped, ok := DomainCodeMapping[code]; ok {
		return mapped
	}
	return ErrCodeBusinessRule
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
