package gapi

import (
	"io"
	"net/http"
	"strings"
)

// MethodOverrideTransport applies a MethodOverride to plain net/http
// requests before handing them to Base.
type MethodOverrideTransport struct {
	// Base performs the request. http.DefaultTransport is used when nil.
	Base http.RoundTripper
	// Override decides which verbs are tunnelled. A nil Override only
	// tunnels verbs Capabilities rules out.
	Override *MethodOverride
	// Capabilities describes Base. Nil means every verb is supported.
	Capabilities Transport
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified.
func (t *MethodOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.Override.overrides(req.Method, t.Capabilities) {
		return t.base().RoundTrip(req)
	}

	out := req.Clone(req.Context())
	out.Method = http.MethodPost
	out.Header.Set(HeaderMethodOverride, strings.ToUpper(req.Method))

	if req.Body == nil || req.Body == http.NoBody {
		out.Body = io.NopCloser(strings.NewReader(PlaceholderBody))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(PlaceholderBody)), nil
		}
		out.ContentLength = int64(len(PlaceholderBody))
	}

	return t.base().RoundTrip(out)
}

func (t *MethodOverrideTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}

	return t.Base
}
