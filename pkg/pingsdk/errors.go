package pingsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout marks a provider call that exceeded its deadline. The
	// wizard shows timeout-specific messaging, so this is kept distinct
	// from other transport failures.
	ErrTimeout = errors.New("pingsdk: request timed out")

	// ErrMalformedResponse marks a provider response missing fields that
	// are mandatory for a usable session.
	ErrMalformedResponse = errors.New("pingsdk: malformed provider response")
)

// ProviderError is a non-success HTTP response from the provider.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Body)
}

// parseErrorResponse builds a *ProviderError from a non-2xx response body.
// PingOne errors carry {code, message}; anything else falls back to the raw
// body text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		return &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Code,
			Message:    errResp.Message,
		}
	}

	return &ProviderError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
