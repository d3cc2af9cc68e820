package msauth

import (
	"fmt"
	"time"
)

// Token is the full token set returned by the Microsoft identity platform.
// ExpiresAt is an absolute Unix timestamp derived from expires_in at the
// moment the token was issued; it is what expiry decisions are based on.
type Token struct {
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
	ExtExpiresIn int64  `json:"ext_expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expiry returns the absolute expiry time of the access token.
func (t *Token) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// ExpiresSoon reports whether the access token is within buffer of its
// expiry (or already past it) and should be refreshed before use.
func (t *Token) ExpiresSoon(now time.Time, buffer time.Duration) bool {
	return !now.Before(t.Expiry().Add(-buffer))
}

// stamp fills ExpiresAt from ExpiresIn relative to now. Called after every
// token endpoint response.
func (t *Token) stamp(now time.Time) {
	t.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).Unix()
}

// RefreshError reports a failed token-endpoint exchange. It carries the
// HTTP status so callers can surface it uniformly with other API failures.
type RefreshError struct {
	StatusCode int
	Reason     string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token exchange failed: %d %s", e.StatusCode, e.Reason)
}
