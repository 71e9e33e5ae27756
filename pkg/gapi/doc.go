// Package gapi provides request types, interceptors, and helpers for talking
// to Google-style JSON APIs from constrained environments.
//
// # Overview
//
// Some HTTP stacks cannot send every verb (PATCH and HEAD are common
// casualties), and some proxies and firewalls drop anything that is not GET
// or POST. Google API servers accept a POST carrying the real verb in the
// X-HTTP-Method-Override header instead. MethodOverride performs that
// substitution per request:
//
//	override := gapi.NewMethodOverrideFor(http.MethodDelete)
//	req := &gapi.Request{Method: http.MethodDelete, Path: "/v1/items/1"}
//	_ = override.Initialize(req)
//	_ = req.Interceptor.Intercept(ctx, req)
//	// req.Method == "POST"
//	// req.Headers.Get("X-HTTP-Method-Override") == "DELETE"
//	// req.Content is a single space
//
// Plain net/http users can wrap a RoundTripper with MethodOverrideTransport
// instead.
//
// # Getting a client
//
//	cli, err := gapiclient.New(ctx, &gapi.Config{
//	  Endpoint:        "https://www.googleapis.com",
//	  AccessToken:     token,
//	  OverrideMethods: []string{"DELETE"},
//	})
//	if err != nil { log.Fatal(err) }
//
//	resp, err := cli.Patch(ctx, "/storage/v1/b/bucket", map[string]any{"labels": labels})
//
// # Errors
//
// Non-2xx responses surface as *googleapi.Error. IsNotFound, IsUnauthorized,
// IsForbidden, IsRateLimited and IsMethodNotAllowed classify them, and
// WrapError maps them onto the package's sentinel errors.
//
// # Interceptors
//
// InterceptorChain runs request and response interceptors (logging, auth
// headers, request IDs, timing) around every call. The execute interceptor
// installed by a RequestInitializer runs after the chain, immediately
// before the body is serialised.
package gapi
