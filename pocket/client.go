package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultEndpoint = "https://getpocket.com/v3"
	authorizeURL    = "https://getpocket.com/auth/authorize"

	defaultTimeout = 30 * time.Second
)

// Client is a Pocket API client. It owns the application's consumer key and,
// once the authorization handshake has completed, the account's access
// token. A Client is safe for concurrent API calls, but re-running the
// authorization handshake from multiple goroutines must be synchronized by
// the caller.
type Client struct {
	endpoint    string
	consumerKey string

	// handshake state: pending is non-empty between RequestCode and a
	// successful ExchangeForAccessToken; accessToken is set after.
	pending     string
	accessToken string
	username    string

	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewClient creates a new Pocket client from an application consumer key.
// The returned client is unauthenticated; run the authorization handshake
// (RequestCode, AuthorizationURL, ExchangeForAccessToken) or restore a
// previously obtained Authorization with SetAuthorization.
func NewClient(consumerKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if consumerKey == "" {
		return nil, fmt.Errorf("pocket consumer key is required")
	}

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := &Client{
		endpoint:    options.endpoint,
		consumerKey: consumerKey,
		httpClient:  options.httpClient,
		logger:      logger,
		now:         options.now,
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: options.timeout}
	}

	return client, nil
}

// SetAuthorization installs a previously obtained authorization, e.g. one
// restored from configuration.
func (c *Client) SetAuthorization(auth Authorization) {
	c.accessToken = auth.AccessToken
	c.username = auth.Username
}

// Authorized reports whether the client holds an access token.
func (c *Client) Authorized() bool {
	return c.accessToken != ""
}

// Username returns the account name reported by the token exchange, if any.
func (c *Client) Username() string {
	return c.username
}

// requireAuth guards authenticated operations; it never touches the network.
func (c *Client) requireAuth() error {
	if c.accessToken == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// doRequest performs a POST with a JSON body and decodes the JSON response
// into v. Every response passes through checkResponse, so callers see either
// a decoded payload or a classified *APIError.
func (c *Client) doRequest(ctx context.Context, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	c.logger.Debug().Str("path", path).Msg("Making Pocket API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if apiErr := checkResponse(resp); apiErr != nil {
		c.logger.Debug().
			Str("path", path).
			Int("status", apiErr.StatusCode).
			Int("code", apiErr.Code).
			Msg("Pocket API request failed")
		return apiErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if v != nil {
		if err := json.Unmarshal(respBody, v); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
