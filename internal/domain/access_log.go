package domain

import (
	"context"
	"time"
)

// AccessLogEntry is one successful login. Entries are append-only.
type AccessLogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessLogRepository is the audit store.
type AccessLogRepository interface {
	Append(ctx context.Context, entry *AccessLogEntry) error
	// ListRecent returns at most limit entries, most recent first.
	ListRecent(ctx context.Context, limit int) ([]AccessLogEntry, error)
}

// AttemptStore counts login attempts per key inside a fixed window
// (usually in Redis). RegisterAttempt increments and returns the new count
// in one step.
type AttemptStore interface {
	RegisterAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
