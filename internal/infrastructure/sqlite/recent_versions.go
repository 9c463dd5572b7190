package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecentVersions records which versions the user browsed.
type RecentVersions struct {
	db *sql.DB
}

func newRecentVersions(db *sql.DB) *RecentVersions {
	return &RecentVersions{db: db}
}

// Touch marks cellID as viewed at the given time.
func (r *RecentVersions) Touch(ctx context.Context, cellID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recent_versions (cell_id, viewed_at) VALUES (?, ?)
		 ON CONFLICT(cell_id) DO UPDATE SET viewed_at = excluded.viewed_at`,
		cellID, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record recent version: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recently viewed first.
func (r *RecentVersions) List(ctx context.Context, limit int) ([]RecentVersion, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT cell_id, viewed_at FROM recent_versions ORDER BY viewed_at DESC, cell_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RecentVersion
	for rows.Next() {
		var m RecentVersionModel
		if err := rows.Scan(&m.CellID, &m.ViewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent version: %w", err)
		}
		out = append(out, m.toDomain())
	}
	return out, rows.Err()
}

// Clear forgets the whole history.
func (r *RecentVersions) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recent_versions`); err != nil {
		return fmt.Errorf("failed to clear recent versions: %w", err)
	}
	return nil
}
