package pingsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiryBuffer is subtracted from the token lifetime so a cached token
// is never handed out moments before the provider rejects it.
const tokenExpiryBuffer = 30 * time.Second

// TokenResponse is the provider's client-credentials grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RequestAccessToken obtains a bearer credential via the OAuth2
// client_credentials grant. Tokens are cached until shortly before expiry,
// so repeated checkouts within a token's lifetime reuse one credential.
func (c *Client) RequestAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.cachedToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.cachedToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	tokenURL := fmt.Sprintf("%s/%s/as/token", c.cfg.AuthBaseURL, c.cfg.EnvironmentID)
	resp, err := c.doRequest(ctx, http.MethodPost, tokenURL,
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseErrorResponse(resp, body)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token: %w", ErrMalformedResponse)
	}

	c.mu.Lock()
	c.cachedToken = tokenResp.AccessToken
	c.tokenExpiry = tokenDeadline(tokenResp)
	c.mu.Unlock()

	return tokenResp.AccessToken, nil
}

// InvalidateToken drops the cached access token so the next call performs a
// fresh grant. Used when the provider starts rejecting the credential early.
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	c.cachedToken = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// tokenDeadline derives when the cached token should be refreshed. The exp
// claim of the (unverified) JWT is authoritative; expires_in is the fallback
// when the token is opaque or carries no exp.
func tokenDeadline(tr TokenResponse) time.Time {
	if claims := parseExpiry(tr.AccessToken); !claims.IsZero() {
		return claims.Add(-tokenExpiryBuffer)
	}
	if tr.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryBuffer)
	}
	// No expiry information at all: don't cache.
	return time.Time{}
}

// parseExpiry extracts the exp claim without verifying the signature. We are
// the token's audience-of-one and only need its lifetime, not its validity.
func parseExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
