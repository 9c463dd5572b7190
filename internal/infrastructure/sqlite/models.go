package sqlite

import "time"

// SessionItemModel is a row of session_items.
type SessionItemModel struct {
	Key       string
	Value     string
	UpdatedAt int64 // Unix timestamp
}

// RecentVersionModel is a row of recent_versions.
type RecentVersionModel struct {
	CellID   string
	ViewedAt int64 // Unix timestamp
}

// RecentVersion is a version the user opened, newest first in listings.
type RecentVersion struct {
	CellID   string
	ViewedAt time.Time
}

func (m *RecentVersionModel) toDomain() RecentVersion {
	return RecentVersion{CellID: m.CellID, ViewedAt: time.Unix(m.ViewedAt, 0)}
}
