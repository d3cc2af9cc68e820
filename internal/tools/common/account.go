package common

import (
	"context"

	"github.com/teemow/todofewer/internal/msauth"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Defaults to "default" when no account argument is provided.
func GetAccountFromArgs(_ context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return msauth.DefaultAccount
}
