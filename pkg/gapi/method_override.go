package gapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	// HeaderMethodOverride carries the real verb of a tunnelled request.
	HeaderMethodOverride = "X-HTTP-Method-Override"

	// PlaceholderBody replaces an empty body on overridden requests. Some
	// servers reject a POST without content.
	PlaceholderBody = " "
)

// MethodOverride tunnels HTTP verbs through POST with the
// X-HTTP-Method-Override header.
//
// A request is overridden when its method is in the configured set, or
// when it is a PATCH or HEAD that its transport cannot send. GET and POST
// are never overridden.
//
// MethodOverride is both a RequestInitializer and an ExecuteInterceptor:
// installing it with Initialize makes it the request's interceptor. The
// method set is fixed at construction, so a MethodOverride is safe for
// concurrent use.
type MethodOverride struct {
	methods map[string]struct{}
}

// NewMethodOverride only overrides verbs the transport cannot send.
func NewMethodOverride() *MethodOverride {
	return NewMethodOverrideFor()
}

// NewMethodOverrideFor overrides the given methods on every transport. The
// methods are copied.
func NewMethodOverrideFor(methods ...string) *MethodOverride {
	m := &MethodOverride{methods: make(map[string]struct{}, len(methods))}

	for _, method := range methods {
		m.methods[strings.ToUpper(strings.TrimSpace(method))] = struct{}{}
	}

	return m
}

// NewMethodOverrideFromSet is NewMethodOverrideFor over the true entries of
// set. The set is copied.
func NewMethodOverrideFromSet(set map[string]bool) *MethodOverride {
	methods := make([]string, 0, len(set))

	for method, enabled := range set {
		if enabled {
			methods = append(methods, method)
		}
	}

	return NewMethodOverrideFor(methods...)
}

// Initialize installs m as the request's execute interceptor.
func (m *MethodOverride) Initialize(req *Request) error {
	req.Interceptor = m

	return nil
}

// Intercept rewrites req to POST when ShouldOverride reports true. The
// original verb moves to the X-HTTP-Method-Override header, and an empty
// body is replaced with a single space.
func (m *MethodOverride) Intercept(ctx context.Context, req *Request) error {
	if !m.ShouldOverride(req) {
		return nil
	}

	original := strings.ToUpper(req.Method)
	req.Method = http.MethodPost
	req.SetHeader(HeaderMethodOverride, original)

	empty, err := isEmpty(req.Content)
	if err != nil {
		return fmt.Errorf("method override of %s: %w", original, err)
	}

	if empty {
		req.Content = NewStringContent(PlaceholderBody)
	}

	return nil
}

// ShouldOverride reports whether req must be tunnelled through POST. It is
// evaluated against the request's current method and transport on every
// call.
func (m *MethodOverride) ShouldOverride(req *Request) bool {
	return m.overrides(req.Method, req.Transport)
}

func (m *MethodOverride) overrides(method string, transport Transport) bool {
	method = strings.ToUpper(method)

	switch method {
	case http.MethodGet, http.MethodPost:
		return false
	}

	if m != nil {
		if _, ok := m.methods[method]; ok {
			return true
		}
	}

	if transport == nil {
		return false
	}

	switch method {
	case http.MethodPatch:
		return !transport.SupportsPatch()
	case http.MethodHead:
		return !transport.SupportsHead()
	default:
		return false
	}
}

// Methods returns the configured methods in sorted order.
func (m *MethodOverride) Methods() []string {
	if m == nil {
		return nil
	}

	methods := make([]string, 0, len(m.methods))
	for method := range m.methods {
		methods = append(methods, method)
	}

	sort.Strings(methods)

	return methods
}

// Interceptor adapts m to the InterceptorChain.
func (m *MethodOverride) Interceptor() RequestInterceptor {
	return m.Intercept
}
