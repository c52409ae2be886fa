package prefs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liminos-studio/site/internal/db"
)

// Visitors issues and tracks the anonymous ids that scope server-side
// preferences.
type Visitors struct {
	db *db.DB
}

// NewVisitors creates a visitor registry.
func NewVisitors(database *db.DB) *Visitors {
	return &Visitors{db: database}
}

// Issue records a new visitor and returns its id.
func (v *Visitors) Issue(ctx context.Context) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	if _, err := v.db.ExecContext(ctx,
		`INSERT INTO visitors (id, created_at, last_seen) VALUES (?, ?, ?)`, id, now, now,
	); err != nil {
		return "", fmt.Errorf("inserting visitor: %w", err)
	}
	return id, nil
}

// Touch marks id as seen now. It reports false when the id is unknown or
// malformed, in which case the caller should issue a new one.
func (v *Visitors) Touch(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := v.db.ExecContext(ctx,
		`UPDATE visitors SET last_seen = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("touching visitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("touching visitor: %w", err)
	}
	return n == 1, nil
}

// Store returns the preference store scoped to visitor id.
func (v *Visitors) Store(id string) *SQLiteStore {
	return NewSQLiteStore(v.db, "visitor:"+id)
}
