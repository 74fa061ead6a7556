package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
)

func TestAuditRecorder_Record(t *testing.T) {
	logs := &memAccessLogs{}
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	rec := NewAuditRecorder(logs, fixedClock(now))

	require.NoError(t, rec.Record(context.Background(), "u-1", "a@x.com", "10.0.0.5"))
	require.NoError(t, rec.Record(context.Background(), "u-1", "a@x.com", "10.0.0.5"))

	require.Len(t, logs.entries, 2)
	e := logs.entries[0]
	assert.Equal(t, "u-1", e.UserID)
	assert.Equal(t, "a@x.com", e.Email)
	assert.Equal(t, "10.0.0.5", e.IP)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	assert.True(t, e.CreatedAt.Equal(now))
	assert.NotEqual(t, logs.entries[0].ID, logs.entries[1].ID)
}

func TestAuditRecorder_RecordFailure(t *testing.T) {
	rec := NewAuditRecorder(&memAccessLogs{err: errors.New("db down")}, nil)

	err := rec.Record(context.Background(), "u-1", "a@x.com", "10.0.0.5")
	assert.ErrorIs(t, err, domain.ErrAuditWriteFailed)
	assert.ErrorContains(t, err, "db down")
}

func TestAuditRecorder_Recent(t *testing.T) {
	logs := &memAccessLogs{}
	for i := 0; i < 150; i++ {
		logs.entries = append(logs.entries, domain.AccessLogEntry{ID: fmt.Sprintf("e-%03d", i)})
	}
	rec := NewAuditRecorder(logs, nil)

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, MaxRecentAccessLogs},
		{"negative", -5, MaxRecentAccessLogs},
		{"small", 10, 10},
		{"at cap", 100, 100},
		{"above cap", 1000, MaxRecentAccessLogs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := rec.Recent(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, logs.gotLimit)
			assert.Len(t, entries, tt.wantLimit)
			assert.Equal(t, "e-149", entries[0].ID)
		})
	}
}

func TestAuditRecorder_RecentEmpty(t *testing.T) {
	entries, err := NewAuditRecorder(&memAccessLogs{}, nil).Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuditRecorder_RecentFailure(t *testing.T) {
	_, err := NewAuditRecorder(&memAccessLogs{err: errors.New("timeout")}, nil).Recent(context.Background(), 10)
	assert.ErrorContains(t, err, "timeout")
}
