package shopsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vphone/simshop/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeInvalidStep         = "invalid_step"
	ErrorCodeUnknownPlan         = "unknown_plan"
	ErrorCodeInvalidBankDetails  = "invalid_bank_details"
	ErrorCodeProviderUnavailable = "provider_unavailable"
	ErrorCodeProviderTimeout     = "provider_timeout"
	ErrorCodeServerError         = "server_error"
)

// APIError is the error envelope of the shop API. It implements the error
// interface and is used by the server to write responses and by the SDK
// client to surface them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Message is a human-readable description
	Message string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy with a more specific message.
func (e *APIError) WithMessage(msg string) *APIError {
	out := *e
	out.Message = msg
	return &out
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	// ErrInvalidRequest is returned for malformed bodies or parameters.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request is malformed or missing required parameters",
	}

	// ErrNotFound is returned for unknown wizard sessions and orders.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "the requested resource does not exist",
	}

	// ErrInvalidStep is returned when an action isn't valid for the
	// session's current wizard step.
	ErrInvalidStep = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeInvalidStep,
		Message:    "this action is not valid in the current step",
	}

	// ErrUnknownPlan is returned when the selected plan isn't in the catalog.
	ErrUnknownPlan = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeUnknownPlan,
		Message:    "the selected plan does not exist",
	}

	// ErrInvalidBankDetails is returned when submitted direct debit fields
	// fail validation.
	ErrInvalidBankDetails = &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       ErrorCodeInvalidBankDetails,
		Message:    "the provided bank details are invalid",
	}

	// ErrProviderUnavailable is returned when the identity provider cannot
	// be reached during checkout.
	ErrProviderUnavailable = &APIError{
		StatusCode: http.StatusBadGateway,
		Code:       ErrorCodeProviderUnavailable,
		Message:    "identity verification is temporarily unavailable",
	}

	// ErrProviderTimeout is returned when the identity provider did not
	// answer within the request deadline.
	ErrProviderTimeout = &APIError{
		StatusCode: http.StatusGatewayTimeout,
		Code:       ErrorCodeProviderTimeout,
		Message:    "identity verification timed out, please try again",
	}

	// ErrServerError is the catch-all internal failure.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)
