package client

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/fivetwenty-io/gapi-client/internal/auth"
	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/internal/http"
	"github.com/fivetwenty-io/gapi-client/internal/metrics"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
)

// Static errors for err113 compliance.
var (
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the gapi.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	override     *gapi.MethodOverride
	baseURL      string
	logger       gapi.Logger
	metrics      *metrics.Metrics
}

var _ gapi.Client = (*Client)(nil)

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *gapi.Config) auth.TokenManager {
	if config.TokenSource != nil {
		return auth.NewTokenSourceManager(config.TokenSource)
	}

	if config.ClientID != "" && config.ClientSecret != "" && config.TokenURL != "" {
		return createOAuth2TokenManager(config)
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	return nil // No authentication
}

// createOAuth2TokenManager creates OAuth2 token manager with client credentials.
func createOAuth2TokenManager(config *gapi.Config) auth.TokenManager {
	oauthConfig := &auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		AccessToken:  config.AccessToken,
		Scopes:       config.Scopes,
	}

	return auth.NewOAuth2TokenManager(oauthConfig)
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *gapi.Config, override *gapi.MethodOverride, m *metrics.Metrics) []http.Option {
	httpOpts := []http.Option{
		http.WithMethodOverride(override),
		http.WithTransportCapabilities(config.Capabilities()),
		http.WithInterceptorChain(createInterceptorChain(config)),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if m != nil {
		httpOpts = append(httpOpts, http.WithMetrics(m))
	}

	return httpOpts
}

// createInterceptorChain tags every request with an id and the configured
// headers, and logs requests when a logger is set.
func createInterceptorChain(config *gapi.Config) *gapi.InterceptorChain {
	chain := gapi.NewInterceptorChain()
	chain.AddRequestInterceptor(gapi.RequestIDInterceptor())

	if len(config.Headers) > 0 {
		chain.AddRequestInterceptor(gapi.HeaderInterceptor(config.Headers))
	}

	if config.Logger != nil {
		chain.AddRequestInterceptor(gapi.TimingInterceptor())
		chain.AddRequestInterceptor(gapi.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(gapi.LoggingResponseInterceptor(config.Logger))
	}

	return chain
}

// New creates a new API client.
func New(ctx context.Context, config *gapi.Config) (*Client, error) {
	return NewWithTokenManager(config, createTokenManager(config))
}

// NewWithTokenManager creates a new API client with a custom token manager.
func NewWithTokenManager(config *gapi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.Endpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	var m *metrics.Metrics
	if config.MetricsRegisterer != nil {
		m = metrics.NewMetrics(config.MetricsRegisterer)
	}

	override := config.MethodOverride()
	httpOpts := createHTTPClientOptions(config, override, m)

	return &Client{
		httpClient:   http.NewClient(config.Endpoint, tokenManager, httpOpts...),
		tokenManager: tokenManager,
		override:     override,
		baseURL:      config.Endpoint,
		logger:       config.Logger,
		metrics:      m,
	}, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// MethodOverride returns the override applied to every request.
func (c *Client) MethodOverride() *gapi.MethodOverride {
	return c.override
}

// BaseURL returns the API endpoint requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RefreshToken forces the token manager to fetch a new token.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	return c.tokenManager.RefreshToken(ctx)
}

// SetToken replaces the current access token.
func (c *Client) SetToken(token string, expiresAt time.Time) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	c.tokenManager.SetToken(token, expiresAt)

	return nil
}

// Get implements gapi.Client.Get.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*gapi.Response, error) {
	return c.httpClient.Get(ctx, path, query)
}

// Post implements gapi.Client.Post.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*gapi.Response, error) {
	return c.httpClient.Post(ctx, path, body)
}

// Put implements gapi.Client.Put.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*gapi.Response, error) {
	return c.httpClient.Put(ctx, path, body)
}

// Patch implements gapi.Client.Patch.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*gapi.Response, error) {
	return c.httpClient.Patch(ctx, path, body)
}

// Delete implements gapi.Client.Delete.
func (c *Client) Delete(ctx context.Context, path string) (*gapi.Response, error) {
	return c.httpClient.Delete(ctx, path)
}

// Head implements gapi.Client.Head.
func (c *Client) Head(ctx context.Context, path string) (*gapi.Response, error) {
	return c.httpClient.Head(ctx, path)
}

// Do implements gapi.Client.Do.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (*gapi.Response, error) {
	return c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
}
