package gapi

import (
	"context"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
)

// Client sends requests to a Google-style JSON API. Every request passes
// through the configured MethodOverride before it is sent.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) (*Response, error)
	Post(ctx context.Context, path string, body interface{}) (*Response, error)
	Put(ctx context.Context, path string, body interface{}) (*Response, error)
	Patch(ctx context.Context, path string, body interface{}) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
	Head(ctx context.Context, path string) (*Response, error)
	Do(ctx context.Context, method, path string, body interface{}) (*Response, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a gapi.Client.
//
// # Authentication precedence
//
//  1. TokenSource: if set, tokens are taken from it and cached until expiry.
//     DefaultCredentials fills it from Application Default Credentials.
//  2. ClientID/ClientSecret/TokenURL: uses the OAuth2 client_credentials grant.
//  3. AccessToken: used directly as a static Bearer token.
//  4. No credentials: requests are sent without authentication.
//
// # Method override
//
// OverrideMethods lists verbs that are always tunnelled through POST with
// the X-HTTP-Method-Override header. TransportSupportsPatch and
// TransportSupportsHead describe the transport; nil means supported. A
// PATCH or HEAD the transport cannot send is tunnelled even when it is not
// listed.
type Config struct {
	// Endpoint: base URL of the API (e.g., "https://www.googleapis.com").
	// gapiclient.New trims a trailing slash and adds "https://" when no
	// scheme is present.
	Endpoint string

	// AccessToken: if set, used directly as a Bearer token.
	AccessToken string
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// TokenURL: OAuth2 token endpoint used with ClientID.
	TokenURL string
	// Scopes: OAuth2 scopes requested with ClientID.
	Scopes []string
	// TokenSource: optional OAuth2 token source. Takes precedence over the
	// other credentials.
	TokenSource oauth2.TokenSource
	// DefaultCredentials: look up Application Default Credentials when no
	// TokenSource is given.
	DefaultCredentials bool

	// OverrideMethods: verbs always sent as POST plus X-HTTP-Method-Override.
	OverrideMethods []string
	// TransportSupportsPatch: false forces PATCH through the override.
	TransportSupportsPatch *bool
	// TransportSupportsHead: false forces HEAD through the override.
	TransportSupportsHead *bool

	// HTTPTimeout: optional default HTTP timeout. Most calls should rely on
	// context timeouts.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// Headers: extra headers sent with every request.
	Headers map[string]string
	// MetricsRegisterer: when set, request and override counters are
	// registered here.
	MetricsRegisterer prometheus.Registerer
}

// Capabilities returns the transport capabilities described by c.
func (c *Config) Capabilities() TransportCapabilities {
	caps := DefaultTransportCapabilities()

	if c.TransportSupportsPatch != nil {
		caps.Patch = *c.TransportSupportsPatch
	}

	if c.TransportSupportsHead != nil {
		caps.Head = *c.TransportSupportsHead
	}

	return caps
}

// MethodOverride returns the override configured by c.
func (c *Config) MethodOverride() *MethodOverride {
	return NewMethodOverrideFor(c.OverrideMethods...)
}
