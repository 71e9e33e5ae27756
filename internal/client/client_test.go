package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/fivetwenty-io/gapi-client/internal/client"
	"github.com/fivetwenty-io/gapi-client/internal/auth"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires API endpoint", func(t *testing.T) {
		t.Parallel()

		config := &gapi.Config{}
		_, err := New(context.Background(), config)
		require.ErrorIs(t, err, ErrAPIEndpointRequired)
		assert.Contains(t, err.Error(), "API endpoint is required")
	})

	t.Run("creates client with access token", func(t *testing.T) {
		t.Parallel()

		config := &gapi.Config{
			Endpoint:    "https://www.googleapis.com",
			AccessToken: "test-token",
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.IsType(t, &auth.StaticTokenManager{}, client.GetTokenManager())
	})

	t.Run("creates client with client credentials", func(t *testing.T) {
		t.Parallel()

		config := &gapi.Config{
			Endpoint:     "https://www.googleapis.com",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			TokenURL:     "https://oauth2.example.com/token",
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.IsType(t, &auth.OAuth2TokenManager{}, client.GetTokenManager())
	})

	t.Run("token source takes precedence", func(t *testing.T) {
		t.Parallel()

		config := &gapi.Config{
			Endpoint:    "https://www.googleapis.com",
			AccessToken: "ignored",
			TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "from-source"}),
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)

		token, err := client.GetTokenManager().GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-source", token)
	})

	t.Run("creates client without authentication", func(t *testing.T) {
		t.Parallel()

		config := &gapi.Config{
			Endpoint:        "https://www.googleapis.com",
			OverrideMethods: []string{"delete"},
		}

		client, err := New(context.Background(), config)
		require.NoError(t, err)
		assert.Nil(t, client.GetTokenManager())
		assert.Equal(t, []string{"DELETE"}, client.MethodOverride().Methods())
		require.ErrorIs(t, client.RefreshToken(context.Background()), ErrNoTokenManagerConfigured)
		require.ErrorIs(t, client.SetToken("x", time.Time{}), ErrNoTokenManagerConfigured)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Requests(t *testing.T) {
	t.Parallel()

	type seen struct {
		Method   string `json:"method"`
		Override string `json:"override"`
		Auth     string `json:"auth"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(seen{
			Method:   request.Method,
			Override: request.Header.Get(gapi.HeaderMethodOverride),
			Auth:     request.Header.Get("Authorization"),
		})
	}))
	t.Cleanup(server.Close)

	noPatch := false
	reg := prometheus.NewRegistry()

	client, err := New(context.Background(), &gapi.Config{
		Endpoint:               server.URL,
		AccessToken:            "token",
		OverrideMethods:        []string{"DELETE"},
		TransportSupportsPatch: &noPatch,
		MetricsRegisterer:      reg,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func(ctx context.Context) (*gapi.Response, error)
		expected seen
	}{
		{
			name: "GET is sent natively",
			call: func(ctx context.Context) (*gapi.Response, error) {
				return client.Get(ctx, "/things", nil)
			},
			expected: seen{Method: "GET", Auth: "Bearer token"},
		},
		{
			name: "PUT is sent natively",
			call: func(ctx context.Context) (*gapi.Response, error) {
				return client.Put(ctx, "/things/1", map[string]string{"a": "b"})
			},
			expected: seen{Method: "PUT", Auth: "Bearer token"},
		},
		{
			name: "DELETE is configured for override",
			call: func(ctx context.Context) (*gapi.Response, error) {
				return client.Delete(ctx, "/things/1")
			},
			expected: seen{Method: "POST", Override: "DELETE", Auth: "Bearer token"},
		},
		{
			name: "PATCH falls back to override",
			call: func(ctx context.Context) (*gapi.Response, error) {
				return client.Patch(ctx, "/things/1", map[string]string{"a": "b"})
			},
			expected: seen{Method: "POST", Override: "PATCH", Auth: "Bearer token"},
		},
		{
			name: "Do uses the same pipeline",
			call: func(ctx context.Context) (*gapi.Response, error) {
				return client.Do(ctx, "delete", "/things/2", nil)
			},
			expected: seen{Method: "POST", Override: "DELETE", Auth: "Bearer token"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := tc.call(context.Background())
			require.NoError(t, err)

			var got seen
			require.NoError(t, json.Unmarshal(resp.Body, &got))
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Cleanup(func() {
		count, err := testutil.GatherAndCount(reg, "gapi_method_overrides_total")
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
