package pocket

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		endpoint: defaultEndpoint,
		timeout:  defaultTimeout,
		now:      time.Now,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client, replacing the default one.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithEndpoint overrides the API endpoint. Intended for tests.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithClock sets the clock used to stamp actions that carry no explicit
// timestamp. Tests needing deterministic action timestamps inject one here.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		o.now = now
	}
}
