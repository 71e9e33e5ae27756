package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/gapi-client/internal/auth"
	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/internal/metrics"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/hashicorp/go-retryablehttp"
	"google.golang.org/api/googleapi"
)

// Static errors for err113 compliance.
var (
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// Request is a single API call relative to the client's base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the buffered result of a request.
type Response = gapi.Response

// Client sends JSON requests with retries. Each request passes through the
// registered initializers, the interceptor chain and finally the request's
// execute interceptor before it is serialised.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	authenticate gapi.RequestInterceptor
	logger       gapi.Logger
	debug        bool
	userAgent    string
	initializers []gapi.RequestInitializer
	chain        *gapi.InterceptorChain
	transport    gapi.Transport
	metrics      *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger gapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry limit and backoff bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying net/http client.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInitializer adds a request initializer. Initializers run in the order
// they were added.
func WithInitializer(initializer gapi.RequestInitializer) Option {
	return func(c *Client) {
		c.initializers = append(c.initializers, initializer)
	}
}

// WithMethodOverride installs override as every request's execute
// interceptor.
func WithMethodOverride(override *gapi.MethodOverride) Option {
	return WithInitializer(override)
}

// WithTransportCapabilities declares which verbs the transport can send.
func WithTransportCapabilities(transport gapi.Transport) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithInterceptorChain replaces the request and response interceptor chain.
func WithInterceptorChain(chain *gapi.InterceptorChain) Option {
	return func(c *Client) {
		c.chain = chain
	}
}

// WithMetrics records request and override metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for baseURL. A nil tokenManager sends requests
// without an Authorization header.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		userAgent:    constants.DefaultUserAgent,
		chain:        gapi.NewInterceptorChain(),
		transport:    gapi.DefaultTransportCapabilities(),
	}

	if tokenManager != nil {
		client.authenticate = gapi.AuthenticationInterceptor(tokenManager.GetToken)
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes req. When the server answers with an error status the
// response is returned together with a *googleapi.Error.
//
//nolint:funlen,cyclop // the request pipeline reads best in one place
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	apiReq := &gapi.Request{
		Method:    strings.ToUpper(req.Method),
		Path:      req.Path,
		Transport: c.transport,
	}

	if req.Body != nil {
		apiReq.Content = gapi.NewJSONContent(req.Body)
	}

	for key, value := range req.Headers {
		apiReq.SetHeader(key, value)
	}

	for _, initializer := range c.initializers {
		err := initializer.Initialize(apiReq)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize request: %w", err)
		}
	}

	if c.authenticate != nil {
		err := c.authenticate(ctx, apiReq)
		if err != nil {
			return nil, err
		}
	}

	err := c.chain.ExecuteRequestInterceptors(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	err = c.intercept(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	body, err := gapi.ReadContent(apiReq.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise request body: %w", err)
	}

	httpReq, err := c.newHTTPRequest(ctx, apiReq, req.Query, body)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":  httpReq.Method,
			"url":     httpReq.URL.String(),
			"headers": redactHeaders(httpReq.Header),
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.metrics.ObserveRequest(httpReq.Method, httpResp.StatusCode, time.Since(start).Seconds())

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"body":        truncate(respBody),
		})
	}

	resp.Error = googleapi.CheckResponse(&nethttp.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       io.NopCloser(bytes.NewReader(respBody)),
	})

	err = c.chain.ExecuteResponseInterceptors(ctx, apiReq, resp)
	if err != nil {
		return resp, err
	}

	if resp.Error != nil {
		return resp, fmt.Errorf("%s %s: %w", strings.ToUpper(req.Method), req.Path, resp.Error)
	}

	return resp, nil
}

// intercept runs the request's execute interceptor and records a method
// override when one was applied.
func (c *Client) intercept(ctx context.Context, apiReq *gapi.Request) error {
	if apiReq.Interceptor == nil {
		return nil
	}

	original := apiReq.Method

	err := apiReq.Interceptor.Intercept(ctx, apiReq)
	if err != nil {
		return fmt.Errorf("execute interceptor failed: %w", err)
	}

	if apiReq.Method == original {
		return nil
	}

	apiReq.SetMetadata(constants.MetadataOverriddenMethod, original)
	c.metrics.ObserveOverride(original)

	if c.logger != nil {
		c.logger.Debug("Method override applied", map[string]interface{}{
			"method": original,
			"path":   apiReq.Path,
		})
	}

	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, apiReq *gapi.Request, query url.Values, body []byte) (*retryablehttp.Request, error) {
	fullURL, err := c.buildURL(apiReq.Path, query)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if len(body) > 0 {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, apiReq.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	if apiReq.Content != nil && len(body) > 0 {
		httpReq.Header.Set(constants.HeaderContentType, apiReq.Content.Type())
	}

	for key, values := range apiReq.Headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}

	return httpReq, nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return withQuery(path, query)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return withQuery(c.baseURL+path, query)
}

func withQuery(rawURL string, query url.Values) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if len(query) > 0 {
		values := parsed.Query()
		for key, vals := range query {
			for _, v := range vals {
				values.Add(key, v)
			}
		}

		parsed.RawQuery = values.Encode()
	}

	return parsed.String(), nil
}

func redactHeaders(headers nethttp.Header) map[string]string {
	redacted := make(map[string]string, len(headers))

	for key := range headers {
		if key == constants.HeaderAuthorization {
			redacted[key] = constants.MaskedSecret

			continue
		}

		redacted[key] = headers.Get(key)
	}

	return redacted
}

func truncate(body []byte) string {
	if len(body) > constants.MaxErrorBodyLength {
		return string(body[:constants.MaxErrorBodyLength]) + "..."
	}

	return string(body)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodDelete,
		Path:   path,
	})
}

// Head sends a HEAD request.
func (c *Client) Head(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodHead,
		Path:   path,
	})
}
