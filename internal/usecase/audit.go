package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

// MaxRecentAccessLogs caps a single read of the audit trail.
const MaxRecentAccessLogs = 100

// AuditRecorder appends login events to the access log store.
type AuditRecorder struct {
	store domain.AccessLogRepository
	now   security.Clock
}

func NewAuditRecorder(store domain.AccessLogRepository, clock security.Clock) *AuditRecorder {
	if clock == nil {
		clock = time.Now
	}
	return &AuditRecorder{store: store, now: clock}
}

// Record appends one AccessLogEntry. Failures wrap domain.ErrAuditWriteFailed.
func (a *AuditRecorder) Record(ctx context.Context, userID, email, ip string) error {
	entry := &domain.AccessLogEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		IP:        ip,
		CreatedAt: a.now().UTC(),
	}

	if err := a.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuditWriteFailed, err)
	}
	return nil
}

// Recent returns the newest entries first. limit is clamped to
// (0, MaxRecentAccessLogs]; non-positive values mean the maximum.
func (a *AuditRecorder) Recent(ctx context.Context, limit int) ([]domain.AccessLogEntry, error) {
	if limit <= 0 || limit > MaxRecentAccessLogs {
		limit = MaxRecentAccessLogs
	}

	entries, err := a.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing access logs: %w", err)
	}
	return entries, nil
}
