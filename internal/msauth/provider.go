package msauth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/todofewer/internal/logging"
)

// refreshBuffer is how long before expiry a token is treated as expiring.
// Refreshing early avoids racing the expiry on in-flight requests.
const refreshBuffer = 5 * time.Minute

// Store persists a token set between runs.
type Store interface {
	Save(token *Token) error
}

// TokenProvider hands out valid access tokens, refreshing transparently
// when the stored token is within refreshBuffer of expiry. A token is
// only ever replaced wholesale after a successful refresh; failed
// refreshes leave the previous token untouched.
type TokenProvider struct {
	config Config

	mu    sync.RWMutex
	token *Token

	store Store
	now   func() time.Time
}

// ProviderOption configures a TokenProvider.
type ProviderOption func(*TokenProvider)

// WithStore makes the provider persist every refreshed token.
func WithStore(store Store) ProviderOption {
	return func(p *TokenProvider) {
		p.store = store
	}
}

// NewTokenProvider creates a provider around an already-obtained token.
func NewTokenProvider(config Config, token *Token, opts ...ProviderOption) *TokenProvider {
	p := &TokenProvider{
		config: config,
		token:  token,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a copy of the current token set.
func (p *TokenProvider) Token() Token {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.token
}

// AccessToken returns a bearer token that is valid for at least
// refreshBuffer from now, refreshing first if necessary.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	// Fast path: token still comfortably valid.
	p.mu.RLock()
	if !p.token.ExpiresSoon(p.now(), refreshBuffer) {
		access := p.token.AccessToken
		p.mu.RUnlock()
		return access, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check: another caller may have refreshed while we waited.
	if !p.token.ExpiresSoon(p.now(), refreshBuffer) {
		return p.token.AccessToken, nil
	}

	fresh, err := p.config.refresh(ctx, p.token.RefreshToken)
	if err != nil {
		return "", err
	}
	p.token = fresh

	slog.Debug("access token refreshed",
		logging.Operation("msauth.refresh"),
		"expires_at", fresh.Expiry(),
		"access_token", logging.SanitizeToken(fresh.AccessToken))

	if p.store != nil {
		if err := p.store.Save(fresh); err != nil {
			return "", fmt.Errorf("persisting refreshed token: %w", err)
		}
	}
	return fresh.AccessToken, nil
}
