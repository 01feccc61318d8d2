package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/starford/gistlens/internal/gistapi"
)

// TokenKey is the fixed key under which the GitHub token is stored.
const TokenKey = "github_gist_token"

// envTokenVars are consulted, in order, when no token is stored.
var envTokenVars = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// ErrEmptyValue is returned by Set for blank values.
var ErrEmptyValue = errors.New("credstore: empty value")

var _ gistapi.CredentialSource = (*Store)(nil)

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.conn.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("credstore: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w for %s", ErrEmptyValue, key)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("credstore: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("credstore: delete %s: %w", key, err)
	}
	return nil
}

// Token implements gistapi.CredentialSource: the stored token first, then the
// GH_TOKEN and GITHUB_TOKEN environment variables.
func (s *Store) Token(ctx context.Context) (string, bool) {
	if tok, ok, err := s.Get(ctx, TokenKey); err == nil && ok {
		return tok, true
	}
	for _, name := range envTokenVars {
		if tok := strings.TrimSpace(os.Getenv(name)); tok != "" {
			return tok, true
		}
	}
	return "", false
}
