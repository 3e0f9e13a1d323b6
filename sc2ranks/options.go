package sc2ranks

import (
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the public API root.
	DefaultEndpoint = "http://sc2ranks.com/api"
	// DefaultTimeout bounds a single request. The API itself defines none.
	DefaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	endpoint   string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}
}

// WithEndpoint overrides the API root.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient uses the given HTTP client as is. WithTimeout is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
