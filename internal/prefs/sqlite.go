package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/liminos-studio/site/internal/db"
)

// SQLiteStore persists preferences in the preferences table under a scope.
// The scope plays the role of a browser origin: the server uses one per
// visitor, the CLI uses a fixed one.
type SQLiteStore struct {
	db    *db.DB
	scope string
}

// NewSQLiteStore creates a store bound to scope.
func NewSQLiteStore(database *db.DB, scope string) *SQLiteStore {
	return &SQLiteStore{db: database, scope: scope}
}

// Scope returns the scope this store reads and writes.
func (s *SQLiteStore) Scope() string { return s.scope }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`, s.scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.scope, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE scope = ? ORDER BY key`, s.scope)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}
