package pingsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Raw status values observed from the provider's status endpoint. The set is
// provider-defined and open; callers must treat unrecognized values as a
// failure condition.
const (
	RawStatusInitial    = "INITIAL"
	RawStatusWaiting    = "WAITING"
	RawStatusScanned    = "SCANNED"
	RawStatusInProgress = "IN_PROGRESS"
	RawStatusSuccessful = "VERIFICATION_SUCCESSFUL"
	RawStatusRejected   = "VERIFICATION_REJECTED"
	RawStatusExpired    = "VERIFICATION_EXPIRED"
	RawStatusFailed     = "VERIFICATION_FAILED"

	// RawStatusNotFound is synthesized locally for a 404 from the status
	// endpoint: the session hasn't materialized provider-side yet.
	RawStatusNotFound = "NOT_FOUND"
)

// StatusResponse is one poll result from the provider's status endpoint.
type StatusResponse struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	SessionData *SessionData `json:"sessionData,omitempty"`

	// Raw preserves the response body as received; useful for audit logs.
	Raw json.RawMessage `json:"-"`
}

// SessionData carries the credential data released on approval.
type SessionData struct {
	CredentialsData []CredentialData `json:"credentialsDataList"`
}

type CredentialData struct {
	Type string            `json:"type"`
	Data []CredentialField `json:"data"`
}

type CredentialField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CheckStatus polls the presentation session's verification status.
//
// A 404 means the session hasn't materialized provider-side yet and is
// reported as a RawStatusNotFound response rather than an error. Any other
// non-success status or malformed body is returned as an error for the
// caller's per-tick failure accounting.
func (c *Client) CheckStatus(ctx context.Context, accessToken, environmentID, sessionID string) (*StatusResponse, error) {
	statusURL := fmt.Sprintf("%s/environments/%s/presentationSessions/%s", c.cfg.APIBaseURL, environmentID, sessionID)
	resp, err := c.doRequest(ctx, http.MethodGet, statusURL, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &StatusResponse{ID: sessionID, Status: RawStatusNotFound}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp, body)
	}

	var sr StatusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	sr.Raw = body

	return &sr, nil
}
