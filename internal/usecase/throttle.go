package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
)

// LoginThrottle limits login attempts per (connection address, email)
// inside a window. A nil *LoginThrottle never blocks.
//
// Every attempt is counted before the password is checked, so concurrent
// guesses cannot overshoot the budget; a successful login clears the count.
// Store outages fail open: the attempt proceeds and a warning is logged.
type LoginThrottle struct {
	store       domain.AttemptStore
	maxFailures int64
	window      time.Duration
	log         logrus.FieldLogger
}

// NewLoginThrottle returns nil when maxFailures is not positive, which
// disables throttling.
func NewLoginThrottle(store domain.AttemptStore, maxFailures int, window time.Duration, log logrus.FieldLogger) *LoginThrottle {
	if store == nil || maxFailures <= 0 {
		return nil
	}
	return &LoginThrottle{
		store:       store,
		maxFailures: int64(maxFailures),
		window:      window,
		log:         log,
	}
}

// throttleKey uses the connection's own address. X-Forwarded-For is chosen
// by the client and would give every guess a fresh counter.
func throttleKey(directIP, email string) string {
	if directIP == "" {
		directIP = "unknown"
	}
	return directIP + "|" + email
}

// Acquire counts one attempt and returns domain.ErrTooManyAttempts once
// more than maxFailures unsuccessful attempts fall in the window.
func (t *LoginThrottle) Acquire(ctx context.Context, key string) error {
	if t == nil {
		return nil
	}

	n, err := t.store.RegisterAttempt(ctx, key, t.window)
	if err != nil {
		t.log.WithError(err).Warn("login throttle unavailable, allowing attempt")
		return nil
	}
	if n > t.maxFailures {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// Clear forgets previous attempts after a successful login.
func (t *LoginThrottle) Clear(ctx context.Context, key string) {
	if t == nil {
		return
	}
	if err := t.store.Reset(ctx, key); err != nil {
		t.log.WithError(err).Warn("failed to reset login attempts")
	}
}
