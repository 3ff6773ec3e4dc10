// Package provider implements the outbound identity-exchange client.
//
// Login does not verify credentials locally. The caller presents an external
// session identifier, which is exchanged at the configured provider endpoint
// for the user's verified attributes.
package provider

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/deepbrowser/deepbrowser-server/internal/errors"
)

// Assertion holds the identity attributes returned by a successful exchange.
// SessionToken is optional; when the provider supplies one it becomes the
// local session token, otherwise the issuer mints its own.
type Assertion struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// Client exchanges external session identifiers for identity assertions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an identity-exchange client for the given endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Exchange presents an external session ID to the provider and returns the
// identity it attests to. The provider contract is a GET with the identifier
// in the X-Session-ID header; 200 means the identifier is valid.
func (c *Client) Exchange(ctx context.Context, externalSessionID string) (*Assertion, error) {
	if c.baseURL == "" {
		return nil, errors.Unavailable("identity provider is not configured")
	}
	if externalSessionID == "" {
		return nil, errors.Unauthorized("missing session identifier")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create exchange request: %w", err)
	}
	req.Header.Set("X-Session-ID", externalSessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream("identity provider unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		c.logger.Warn("identity exchange rejected",
			"status", resp.StatusCode,
		)
		return nil, errors.Unauthorized("invalid or expired session")
	}

	var assertion Assertion
	if err := json.UnmarshalRead(resp.Body, &assertion); err != nil {
		return nil, errors.Upstream("malformed identity provider response").WithCause(err)
	}

	if assertion.Email == "" {
		return nil, errors.Upstream("identity provider response missing email")
	}

	return &assertion, nil
}
