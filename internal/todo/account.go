package todo

import (
	"fmt"

	"github.com/teemow/todofewer/internal/msauth"
)

// HasTokenForAccount checks if a stored OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	store, err := msauth.NewFileStore(account)
	if err != nil {
		return false
	}
	return store.Exists()
}

// HasToken checks if a stored OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount(msauth.DefaultAccount)
}

// NewClientForAccount creates a To Do client backed by the stored token for
// a specific account. The token is loaded from the account's token file and
// refreshed transparently; refreshed tokens are written back to the file.
func NewClientForAccount(config msauth.Config, account string) (*Client, error) {
	store, err := msauth.NewFileStore(account)
	if err != nil {
		return nil, err
	}

	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("no valid Microsoft OAuth token found for account %s: %w", account, err)
	}

	provider := msauth.NewTokenProvider(config, token, msauth.WithStore(store))
	return NewClient(provider, WithAccount(account)), nil
}
