package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// errPersist is returned by a failing memoryPersister.
var errPersist = errors.New("disk full")

func writeToken(w http.ResponseWriter, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestOAuth2TokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("returns existing valid token", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			AccessToken: "existing-token",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("refreshes expired token using refresh token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/token", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			err := r.ParseForm()
			assert.NoError(t, err)
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "old-refresh-token", r.Form.Get("refresh_token"))

			writeToken(w, map[string]interface{}{
				"access_token":  "new-access-token",
				"refresh_token": "new-refresh-token",
				"expires_in":    3600,
				"token_type":    "Bearer",
			})
		}))
		defer server.Close()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/token",
			ClientID:     "client-id",
			RefreshToken: "old-refresh-token",
		})

		manager.store.Set(&Token{
			AccessToken:  "expired-token",
			RefreshToken: "old-refresh-token",
			ExpiresAt:    time.Now().Add(-1 * time.Hour),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-access-token", token)
		assert.Equal(t, "new-refresh-token", manager.Token().RefreshToken)
		assert.True(t, manager.Token().Valid())
	})

	t.Run("uses client credentials when no refresh token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/token", r.URL.Path)

			err := r.ParseForm()
			assert.NoError(t, err)
			assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
			assert.Equal(t, "scope-a scope-b", r.Form.Get("scope"))

			writeToken(w, map[string]interface{}{
				"access_token": "client-token",
				"expires_in":   3600,
				"token_type":   "Bearer",
			})
		}))
		defer server.Close()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       []string{"scope-a", "scope-b"},
			HTTPClient:   server.Client(),
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "client-token", token)
	})

	t.Run("handles token request error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_client",
				"error_description": "Client authentication failed",
			})
		}))
		defer server.Close()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/token",
			ClientID:     "bad-client",
			ClientSecret: "bad-secret",
		})

		token, err := manager.GetToken(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid_client")
		assert.Empty(t, token)
	})

	t.Run("no credentials available", func(t *testing.T) {
		t.Parallel()

		manager := NewOAuth2TokenManager(&OAuth2Config{
			TokenURL: "http://example.com/token",
		})

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)

		_, err = NewOAuth2TokenManager(nil).GetToken(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)
	})
}

func TestOAuth2TokenManager_SetToken(t *testing.T) {
	t.Parallel()

	manager := NewOAuth2TokenManager(&OAuth2Config{})

	expiresAt := time.Now().Add(1 * time.Hour)
	manager.SetToken("manual-token", expiresAt)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	storedToken := manager.store.Get()
	assert.Equal(t, "manual-token", storedToken.AccessToken)
	assert.Equal(t, "bearer", storedToken.TokenType)
	assert.Equal(t, expiresAt.Unix(), storedToken.ExpiresAt.Unix())
}

func TestOAuth2TokenManager_TokenSource(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	source := oauth2.ReuseTokenSource(nil, tokenSourceFunc(func() (*oauth2.Token, error) {
		calls.Add(1)

		return &oauth2.Token{AccessToken: "adc-token", Expiry: time.Now().Add(time.Hour)}, nil
	}))

	manager := NewTokenSourceManager(source)

	for range 3 {
		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "adc-token", token)
	}

	assert.Equal(t, int32(1), calls.Load())
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := NewStaticTokenManager("static")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static", token)

	require.ErrorIs(t, manager.RefreshToken(context.Background()), ErrStaticTokenCannotRefresh)

	manager.SetToken("replaced", time.Time{})

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replaced", token)
}

type memoryPersister struct {
	saved []string
	err   error
}

func (p *memoryPersister) SaveToken(token string, expiresAt time.Time, refreshToken string) error {
	if p.err != nil {
		return p.err
	}

	p.saved = append(p.saved, token)

	return nil
}

func TestConfigTokenManager(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeToken(w, map[string]interface{}{
			"access_token": "fresh-token",
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	}))
	t.Cleanup(server.Close)

	config := &OAuth2Config{TokenURL: server.URL, ClientID: "id", ClientSecret: "secret"}

	t.Run("persists refreshed tokens once", func(t *testing.T) {
		t.Parallel()

		persister := &memoryPersister{}
		manager := NewConfigTokenManager(config, persister, "stale", time.Now().Add(-time.Minute))

		for range 2 {
			token, err := manager.GetToken(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "fresh-token", token)
		}

		assert.Equal(t, []string{"fresh-token"}, persister.saved)
		assert.False(t, manager.GetTokenExpiry().IsZero())
	})

	t.Run("valid initial token is not persisted", func(t *testing.T) {
		t.Parallel()

		persister := &memoryPersister{}
		manager := NewConfigTokenManager(config, persister, "cached", time.Now().Add(time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cached", token)
		assert.Empty(t, persister.saved)
	})

	t.Run("persist failure does not fail the request", func(t *testing.T) {
		t.Parallel()

		var reported error

		manager := NewConfigTokenManager(config, &memoryPersister{err: errPersist}, "", time.Time{})
		manager.OnPersistError = func(err error) { reported = err }

		require.NoError(t, manager.RefreshToken(context.Background()))
		require.ErrorIs(t, reported, errPersist)
	})
}
