package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
)

// PostgresAccessLogRepo implements domain.AccessLogRepository on the
// append-only access_logs table.
type PostgresAccessLogRepo struct {
	db *sql.DB
}

// NewPostgresAccessLogRepo creates a new repository instance.
func NewPostgresAccessLogRepo(db *sql.DB) *PostgresAccessLogRepo {
	return &PostgresAccessLogRepo{db: db}
}

// Append inserts an immutable login record.
func (r *PostgresAccessLogRepo) Append(ctx context.Context, entry *domain.AccessLogEntry) error {
	query := `
		INSERT INTO access_logs (id, user_id, email, ip, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Email, entry.IP, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting access log: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries ordered by created_at descending.
func (r *PostgresAccessLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.AccessLogEntry, error) {
	query := `
		SELECT id, user_id, email, ip, created_at
		FROM access_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying access logs: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AccessLogEntry, 0, limit)
	for rows.Next() {
		var e domain.AccessLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Email, &e.IP, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning access log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying access logs: %w", err)
	}

	return entries, nil
}
