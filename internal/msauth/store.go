package msauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultAccount is the account name used when none is specified.
const DefaultAccount = "default"

// accountNameRe restricts account names to filesystem-safe characters.
var accountNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAccountName rejects account names that could escape the cache
// directory or produce awkward file names.
func ValidateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name must not be empty")
	}
	if !accountNameRe.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

// FileStore persists one token file per account under the user cache
// directory (e.g. ~/.cache/todofewer/work.token).
type FileStore struct {
	account string
}

// NewFileStore creates a store for the given account name.
func NewFileStore(account string) (*FileStore, error) {
	if err := ValidateAccountName(account); err != nil {
		return nil, err
	}
	return &FileStore{account: account}, nil
}

// Path returns the token file path for the account.
func (s *FileStore) Path() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "todofewer", s.account+".token"), nil
}

// Exists reports whether a token file is present for the account.
func (s *FileStore) Exists() bool {
	path, err := s.Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes the token file, creating the cache directory if needed.
// The file is user-readable only.
func (s *FileStore) Save(token *Token) error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Load reads the token file for the account.
func (s *FileStore) Load() (*Token, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no token for account %q: run 'todofewer auth login --account %s' first", s.account, s.account)
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &token, nil
}
