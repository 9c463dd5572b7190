package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionStore is a string key/value store for the signed-in session.
type SessionStore struct {
	db *sql.DB
}

func newSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Get returns the value under key, or ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	var m SessionItemModel
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM session_items WHERE key = ?`, key,
	).Scan(&m.Key, &m.Value, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("session item %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session item: %w", err)
	}
	return m.Value, nil
}

// Put stores value under key, replacing any previous value.
func (s *SessionStore) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_items (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write session item: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM session_items WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete session item: %w", err)
		}
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (s *SessionStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM session_items ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list session items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan session item: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
