package pingsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMessage is shown in the user's wallet when no custom message is set.
const DefaultMessage = "Please present your Digital ID for SIM card purchase"

// identityKeys are the claims every presentation request asks the wallet for.
var identityKeys = []string{"firstName", "lastName", "address", "birthDate"}

// bankKeys are appended when the client is configured to request direct
// debit details from the wallet.
var bankKeys = []string{"accountNumber", "sortCode"}

// PresentationSession is the validated result of creating a presentation
// request: everything the poller needs plus the QR code for the UI.
type PresentationSession struct {
	SessionID     string
	EnvironmentID string
	QRCodeURL     string
	ExpiresAt     time.Time
	Status        string
}

type presentationRequest struct {
	Message                  string                `json:"message"`
	Protocol                 string                `json:"protocol"`
	DigitalWalletApplication walletApplication     `json:"digitalWalletApplication"`
	RequestedCredentials     []requestedCredential `json:"requestedCredentials"`
}

type walletApplication struct {
	ID string `json:"id"`
}

type requestedCredential struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

type presentationResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expiresAt"`
	Environment struct {
		ID string `json:"id"`
	} `json:"environment"`
	Links struct {
		QR struct {
			Href string `json:"href"`
		} `json:"qr"`
	} `json:"_links"`
}

// CreatePresentationSession asks the provider to create a presentation
// request for the configured credential type and returns the session the
// wallet flow runs against.
//
// The provider's response must include a QR link, session id, environment id
// and expiry; a response missing any of them is unusable and fails with
// ErrMalformedResponse.
func (c *Client) CreatePresentationSession(ctx context.Context, accessToken, message string) (*PresentationSession, error) {
	if message == "" {
		message = DefaultMessage
	}

	keys := identityKeys
	if c.cfg.RequestBankDetails {
		keys = append(append([]string{}, identityKeys...), bankKeys...)
	}

	reqBody := presentationRequest{
		Message:  message,
		Protocol: "OPENID4VP",
		DigitalWalletApplication: walletApplication{
			ID: c.cfg.WalletApplicationID,
		},
		RequestedCredentials: []requestedCredential{
			{Type: c.cfg.CredentialType, Keys: keys},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode presentation request: %w", err)
	}

	sessionsURL := fmt.Sprintf("%s/environments/%s/presentationSessions", c.cfg.APIBaseURL, c.cfg.EnvironmentID)
	resp, err := c.doRequest(ctx, http.MethodPost, sessionsURL, bytes.NewReader(payload), map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp, body)
	}

	var pr presentationResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to decode presentation response: %w", err)
	}

	switch {
	case pr.Links.QR.Href == "":
		return nil, fmt.Errorf("presentation response missing qr link: %w", ErrMalformedResponse)
	case pr.ID == "":
		return nil, fmt.Errorf("presentation response missing session id: %w", ErrMalformedResponse)
	case pr.Environment.ID == "":
		return nil, fmt.Errorf("presentation response missing environment id: %w", ErrMalformedResponse)
	case pr.ExpiresAt == "":
		return nil, fmt.Errorf("presentation response missing expiry: %w", ErrMalformedResponse)
	}

	expiresAt, err := time.Parse(time.RFC3339, pr.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("presentation response has invalid expiry %q: %w", pr.ExpiresAt, ErrMalformedResponse)
	}

	return &PresentationSession{
		SessionID:     pr.ID,
		EnvironmentID: pr.Environment.ID,
		QRCodeURL:     pr.Links.QR.Href,
		ExpiresAt:     expiresAt,
		Status:        pr.Status,
	}, nil
}
