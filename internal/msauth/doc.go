// Package msauth handles Microsoft identity platform authentication for
// the Graph To Do API.
//
// It implements the OAuth2 authorization-code flow against the common
// tenant of login.microsoftonline.com and keeps an access token fresh via
// refresh-token exchanges. Tokens are cached per account as JSON files in
// the user cache directory, so multiple Microsoft accounts can be used
// side by side.
//
// The one-time consent flow:
//
//	cfg := msauth.Config{ClientID: id, ClientSecret: secret}
//	fmt.Println(cfg.AuthURL())
//	// user visits the URL, approves, and pastes the redirect URL back
//	tok, err := cfg.ExchangeRedirect(ctx, redirectURL)
//
// Afterwards a TokenProvider hands out bearer tokens, refreshing
// transparently shortly before expiry:
//
//	provider := msauth.NewTokenProvider(cfg, tok, msauth.WithStore(store))
//	access, err := provider.AccessToken(ctx)
package msauth
