package gapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/google/uuid"
)

// Request represents an HTTP request that can be intercepted.
//
// Transport describes the capabilities of the transport that will send the
// request. Interceptor is the execute interceptor installed by a
// RequestInitializer and runs after the InterceptorChain.
type Request struct {
	Method      string
	Path        string
	Headers     http.Header
	Content     Content
	Transport   Transport
	Interceptor ExecuteInterceptor
	Metadata    map[string]interface{}
}

// SetHeader sets a header value, allocating the header map when needed.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}

	r.Headers.Set(key, value)
}

// SetMetadata stores a value in the request metadata.
func (r *Request) SetMetadata(key string, value interface{}) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]interface{})
	}

	r.Metadata[key] = value
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// ExecuteInterceptor is the last hook to see a request before it is
// serialised.
type ExecuteInterceptor interface {
	Intercept(ctx context.Context, req *Request) error
}

// RequestInitializer prepares a request as it is built.
type RequestInitializer interface {
	Initialize(req *Request) error
}

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if overridden, ok := req.Metadata[constants.MetadataOverriddenMethod]; ok {
			fields["overridden_method"] = overridden
		}

		if start, ok := req.Metadata[constants.MetadataStartTime].(time.Time); ok {
			fields["duration"] = time.Since(start).String()
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// TimingInterceptor records when the request entered the chain.
func TimingInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		req.SetMetadata(constants.MetadataStartTime, time.Now())

		return nil
	}
}

// AuthenticationInterceptor adds authentication headers.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to get authentication token: %w", err)
		}

		req.SetHeader(constants.HeaderAuthorization, "Bearer "+token)

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		for key, value := range headers {
			req.SetHeader(key, value)
		}

		return nil
	}
}

// RequestIDInterceptor tags each request with a random X-Request-Id unless
// the caller already set one.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers.Get(constants.HeaderRequestID) != "" {
			return nil
		}

		req.SetHeader(constants.HeaderRequestID, uuid.NewString())

		return nil
	}
}
