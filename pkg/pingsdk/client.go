// Package pingsdk is a client for the PingOne digital-credentials API. It
// covers the three calls the purchase flow needs: the client-credentials
// token grant, creating a presentation session (the QR code the user's
// wallet scans), and checking a session's verification status.
package pingsdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultRequestTimeout bounds every provider call unless overridden.
const DefaultRequestTimeout = 10 * time.Second

// Config carries the provider credentials and endpoints.
type Config struct {
	// AuthBaseURL is the OAuth2 host, e.g. https://auth.pingone.eu
	AuthBaseURL string
	// APIBaseURL is the API host, e.g. https://api.pingone.eu/v1
	APIBaseURL string
	// EnvironmentID is the provider environment the service operates in.
	EnvironmentID string

	ClientID     string
	ClientSecret string

	// WalletApplicationID identifies the digital wallet app that presents
	// credentials.
	WalletApplicationID string

	// CredentialType names the verifiable credential requested from the
	// wallet, e.g. "Your Digital ID from NatWest".
	CredentialType string

	// RequestBankDetails adds the direct debit claims (account number, sort
	// code) to presentation requests. When the wallet releases them the
	// wizard can skip manual bank detail entry.
	RequestBankDetails bool

	// RequestTimeout bounds each HTTP call. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Client talks to the identity provider. Safe for concurrent use.
type Client struct {
	cfg        Config
	HTTPClient *http.Client

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

// NewClient creates a provider client from config.
func NewClient(cfg Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	cfg.AuthBaseURL = strings.TrimSuffix(cfg.AuthBaseURL, "/")
	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// EnvironmentID returns the configured provider environment.
func (c *Client) EnvironmentID() string { return c.cfg.EnvironmentID }

// doRequest performs one HTTP call, classifying timeouts distinctly from
// generic transport failures so callers can differentiate the UX.
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("provider request to %s: %w", url, ErrTimeout)
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
