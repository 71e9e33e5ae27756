// Package gapiclient provides the main entry point for creating Google API
// clients with method override support.
package gapiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/gapi-client/internal/client"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"golang.org/x/oauth2/google"
)

// New creates a new Google API client.
//
// The endpoint is normalised: a trailing slash is dropped and "https://" is
// added when no scheme is present. Client credentials without a TokenURL
// use Google's token endpoint.
func New(ctx context.Context, config *gapi.Config) (gapi.Client, error) {
	if config == nil {
		return nil, gapi.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, gapi.ErrEndpointRequired
	}

	config.Endpoint = NormalizeEndpoint(config.Endpoint)

	if config.ClientID != "" && config.TokenURL == "" {
		config.TokenURL = google.Endpoint.TokenURL
	}

	if config.DefaultCredentials && config.TokenSource == nil {
		source, err := google.DefaultTokenSource(ctx, config.Scopes...)
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}

		config.TokenSource = source
	}

	c, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeEndpoint trims a trailing slash and defaults the scheme to https.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
