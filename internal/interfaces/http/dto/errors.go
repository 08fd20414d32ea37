package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes already;
// handler-local codes cover transport-level failures.
const (
	// General
	ErrCodeInternal = "INTERNAL_ERROR"

	// Input
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resources
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeDuplicateSlot = "DUPLICATE_SLOT"

	// Charge issuance
	ErrCodeDuplicateCharge     = "DUPLICATE_CHARGE"
	ErrCodeChargeInFlight      = "CHARGE_IN_FLIGHT"
	ErrCodeMissingTaxID        = "MISSING_TAX_ID"
	ErrCodeMissingDueDay       = "MISSING_DUE_DAY"
	ErrCodeNothingToCharge     = "NOTHING_TO_CHARGE"
	ErrCodeNoResponsibleTenant = "NO_RESPONSIBLE_TENANT"
	ErrCodeStaleCustomerRef    = "STALE_CUSTOMER_REFERENCE"
	ErrCodeCustomerResolution  = "CUSTOMER_RESOLUTION_FAILED"
	ErrCodeChargeSubmission    = "CHARGE_SUBMISSION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeDuplicateSlot: http.StatusConflict,

	// Idempotency guards -> 409 Conflict
	ErrCodeDuplicateCharge: http.StatusConflict,
	ErrCodeChargeInFlight:  http.StatusConflict,

	// Business preconditions -> 422 Unprocessable Entity
	ErrCodeMissingTaxID:        http.StatusUnprocessableEntity,
	ErrCodeMissingDueDay:       http.StatusUnprocessableEntity,
	ErrCodeNothingToCharge:     http.StatusUnprocessableEntity,
	ErrCodeNoResponsibleTenant: http.StatusUnprocessableEntity,

	// Provider failures -> 502 Bad Gateway
	ErrCodeStaleCustomerRef:   http.StatusBadGateway,
	ErrCodeCustomerResolution: http.StatusBadGateway,
	ErrCodeChargeSubmission:   http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
