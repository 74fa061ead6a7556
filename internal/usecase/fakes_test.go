package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	err     error
	lookups int
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

type memAccessLogs struct {
	mu       sync.Mutex
	entries  []domain.AccessLogEntry
	err      error
	gotLimit int
}

func (m *memAccessLogs) Append(_ context.Context, e *domain.AccessLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memAccessLogs) ListRecent(_ context.Context, limit int) ([]domain.AccessLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.AccessLogEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type memAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemAttempts() *memAttempts {
	return &memAttempts{counts: map[string]int64{}}
}

func (m *memAttempts) RegisterAttempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memAttempts) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.counts, key)
	return nil
}

// countingVerifier records how often the codec is reached.
type countingVerifier struct {
	inner TokenVerifier
	calls int
}

func (c *countingVerifier) Verify(token string) (*security.Claims, error) {
	c.calls++
	return c.inner.Verify(token)
}

type failingIssuer struct{}

func (failingIssuer) Issue(string, string, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("signer unavailable")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustHash(password string) string {
	h, err := security.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

func fixedClock(t time.Time) security.Clock {
	return func() time.Time { return t }
}
