package gapi

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("API endpoint is required")
	ErrContentLength    = errors.New("content length unavailable")
	ErrContentEncoding  = errors.New("content encoding failed")
	ErrContentWrite     = errors.New("content write failed")
)

// Common Google API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("gapi: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("gapi: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("gapi: resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("gapi: rate limit exceeded")

	// ErrMethodNotAllowed indicates the server rejected the verb. Tunnelling
	// it with a MethodOverride usually helps.
	ErrMethodNotAllowed = errors.New("gapi: method not allowed")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || hasStatus(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || hasStatus(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited) || hasStatus(err, http.StatusTooManyRequests)
}

// IsMethodNotAllowed returns true if the server rejected the HTTP verb.
func IsMethodNotAllowed(err error) bool {
	return errors.Is(err, ErrMethodNotAllowed) || hasStatus(err, http.StatusMethodNotAllowed)
}

// StatusCode returns the HTTP status carried by a Google API error, or 0.
func StatusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}

	return 0
}

func hasStatus(err error, code int) bool {
	return StatusCode(err) == code
}

// WrapError converts a Google API error to a more specific error type.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch StatusCode(err) {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusMethodNotAllowed:
		return ErrMethodNotAllowed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}
