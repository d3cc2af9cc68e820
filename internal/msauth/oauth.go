package msauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const (
	// RedirectURL is the out-of-band redirect registered for the app.
	// The consent flow ends on this (unserved) URL; the user pastes the
	// resulting address back into the CLI.
	RedirectURL = "https://localhost/login/authorized"

	// Scope requested during consent. offline_access yields the refresh
	// token; it is consumed by the platform and never echoed back in the
	// granted scope.
	Scope = "openid Tasks.ReadWrite offline_access"

	exchangeTimeout = 30 * time.Second
)

// Config holds the OAuth2 application credentials and flow options.
type Config struct {
	ClientID     string
	ClientSecret string

	// Endpoint overrides the Microsoft identity platform endpoints.
	// Zero value means the common-tenant endpoints; tests point this at
	// a local server.
	Endpoint oauth2.Endpoint

	// RelaxedScopes disables granted-scope validation after a token
	// exchange. Microsoft tenants sometimes rewrite the granted scope
	// set (adding profile/email or dropping entries); enable this when
	// strict validation rejects otherwise usable tokens.
	RelaxedScopes bool

	// HTTPClient is used for token-endpoint requests. Defaults to a
	// client with a 30s timeout.
	HTTPClient *http.Client
}

// ConfigFromEnv builds a Config from the MSTODO_CLIENT_ID and
// MSTODO_CLIENT_SECRET environment variables. The secret is optional;
// public clients authenticate with the client ID alone.
func ConfigFromEnv() (Config, error) {
	clientID := os.Getenv("MSTODO_CLIENT_ID")
	if clientID == "" {
		return Config{}, fmt.Errorf("MSTODO_CLIENT_ID environment variable is not set")
	}
	return Config{
		ClientID:     clientID,
		ClientSecret: os.Getenv("MSTODO_CLIENT_SECRET"),
	}, nil
}

// endpoint returns the configured endpoints, defaulting to the common
// tenant of the Microsoft identity platform.
func (c Config) endpoint() oauth2.Endpoint {
	if c.Endpoint.TokenURL != "" {
		return c.Endpoint
	}
	return microsoft.AzureADEndpoint("common")
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: exchangeTimeout}
}

// AuthURL returns the URL the user must visit to authorize the app.
func (c Config) AuthURL() string {
	conf := &oauth2.Config{
		ClientID:    c.ClientID,
		Endpoint:    c.endpoint(),
		RedirectURL: RedirectURL,
		Scopes:      strings.Fields(Scope),
	}
	return conf.AuthCodeURL("state")
}

// ExchangeRedirect completes the authorization-code grant. redirect is the
// full URL the browser landed on after consent; the authorization code is
// extracted from its query string.
func (c Config) ExchangeRedirect(ctx context.Context, redirect string) (*Token, error) {
	u, err := url.Parse(strings.TrimSpace(redirect))
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URL: %w", err)
	}
	code := u.Query().Get("code")
	if code == "" {
		return nil, fmt.Errorf("redirect URL carries no authorization code")
	}
	return c.exchangeCode(ctx, code)
}

// exchangeCode trades an authorization code for a full token set.
func (c Config) exchangeCode(ctx context.Context, code string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", RedirectURL)
	data.Set("scope", Scope)

	tok, err := c.postToken(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := c.validateScope(tok.Scope); err != nil {
		return nil, err
	}
	return tok, nil
}

// refresh trades a refresh token for a replacement token set.
func (c Config) refresh(ctx context.Context, refreshToken string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)
	data.Set("refresh_token", refreshToken)
	data.Set("scope", Scope)

	return c.postToken(ctx, data)
}

func (c Config) postToken(ctx context.Context, data url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint().TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body content is
		// not part of the surfaced error.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RefreshError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		}
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	tok.stamp(time.Now())
	return &tok, nil
}

// validateScope checks that every requested scope was granted.
// offline_access is consumed by the platform and never echoed, so it is
// not required in the granted set. Extra granted scopes are always fine.
func (c Config) validateScope(granted string) error {
	if c.RelaxedScopes {
		return nil
	}
	grantedSet := make(map[string]bool)
	for _, s := range strings.Fields(granted) {
		grantedSet[s] = true
	}
	for _, want := range strings.Fields(Scope) {
		if want == "offline_access" {
			continue
		}
		if !grantedSet[want] {
			return fmt.Errorf("granted scope %q is missing %q (set RelaxedScopes to skip this check)", granted, want)
		}
	}
	return nil
}

// reasonPhrase extracts the reason phrase from a response status line.
// Falls back to the standard text for the code when the server sent none.
func reasonPhrase(resp *http.Response) string {
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
