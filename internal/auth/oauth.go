package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Static errors for err113 compliance.
var (
	ErrNoCredentials            = errors.New("no valid credentials available")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// OAuth2Config selects how the OAuth2TokenManager obtains tokens. A
// RefreshToken takes precedence over the client_credentials grant.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
	Scopes       []string
	HTTPClient   *http.Client
}

// OAuth2TokenManager caches tokens from an OAuth2 token endpoint or an
// arbitrary oauth2.TokenSource and refreshes them on expiry.
type OAuth2TokenManager struct {
	config *OAuth2Config
	source oauth2.TokenSource
	store  *TokenStore
	mu     sync.Mutex
}

// NewOAuth2TokenManager creates a manager for config. An AccessToken in
// config is used until the first refresh.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	if config == nil {
		config = &OAuth2Config{}
	}

	manager := &OAuth2TokenManager{
		config: config,
		store:  NewTokenStore(),
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			TokenType:    "bearer",
			RefreshToken: config.RefreshToken,
		})
	}

	return manager
}

// NewTokenSourceManager wraps an existing token source, such as one from
// google.DefaultTokenSource.
func NewTokenSourceManager(source oauth2.TokenSource) *OAuth2TokenManager {
	return &OAuth2TokenManager{
		config: &OAuth2Config{},
		source: source,
		store:  NewTokenStore(),
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken fetches a new token unconditionally.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	source, err := m.tokenSource(ctx)
	if err != nil {
		return err
	}

	tok, err := source.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}

	m.store.Set(tokenFromOAuth2(tok))

	return nil
}

// SetToken manually sets the access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	current := m.store.Get()

	next := &Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}

	if current != nil {
		next.RefreshToken = current.RefreshToken
	}

	m.store.Set(next)
}

// Token returns the cached token, if any.
func (m *OAuth2TokenManager) Token() *Token {
	return m.store.Get()
}

func (m *OAuth2TokenManager) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if m.source != nil {
		return m.source, nil
	}

	if m.config.TokenURL == "" {
		return nil, ErrNoCredentials
	}

	if m.config.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.config.HTTPClient)
	}

	refreshToken := m.config.RefreshToken
	if current := m.store.Get(); current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	switch {
	case refreshToken != "":
		cfg := &oauth2.Config{
			ClientID:     m.config.ClientID,
			ClientSecret: m.config.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: m.config.TokenURL},
			Scopes:       m.config.Scopes,
		}

		return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}), nil
	case m.config.ClientID != "":
		cfg := &clientcredentials.Config{
			ClientID:     m.config.ClientID,
			ClientSecret: m.config.ClientSecret,
			TokenURL:     m.config.TokenURL,
			Scopes:       m.config.Scopes,
		}

		return cfg.TokenSource(ctx), nil
	default:
		return nil, ErrNoCredentials
	}
}

// StaticTokenManager serves a fixed token.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a manager that always returns token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the static token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

// RefreshToken always fails; a static token has no grant to refresh with.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken replaces the static token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}
