package constants

import "errors"

// Configuration errors.
var (
	ErrNoEndpointConfigured = errors.New("no API endpoint configured, use --endpoint or 'gapi config set endpoint <url>'")
	ErrUnknownConfigKey     = errors.New("unknown configuration key")
	ErrNoTokenEntered       = errors.New("no token entered")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidMethod       = errors.New("invalid HTTP method")
	ErrContextRequired     = errors.New("at least one --context type is required")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)
