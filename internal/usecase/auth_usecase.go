package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/internal/observability"
	"github.com/FilipeAphrody/sentinel-access/pkg/clientip"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

// TokenIssuer signs an access token for an identity.
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

// AuthOption customises an AuthUsecase.
type AuthOption func(*AuthUsecase)

// WithThrottle enables failed-login throttling.
func WithThrottle(t *LoginThrottle) AuthOption {
	return func(u *AuthUsecase) { u.throttle = t }
}

// WithMetrics records login outcomes and audit failures.
func WithMetrics(m *observability.Metrics) AuthOption {
	return func(u *AuthUsecase) { u.metrics = m }
}

// WithDecoyCost sets the bcrypt cost of the hash compared against when the
// email is unknown. It should match the cost of stored hashes.
func WithDecoyCost(cost int) AuthOption {
	return func(u *AuthUsecase) { u.decoyCost = cost }
}

// AuthUsecase is the login orchestrator: credential lookup, credential
// check, token issue and audit record, in that order.
type AuthUsecase struct {
	users    domain.UserRepository
	tokens   TokenIssuer
	audit    *AuditRecorder
	throttle *LoginThrottle
	metrics  *observability.Metrics
	log      logrus.FieldLogger

	decoyCost int
	decoyHash string
}

func NewAuthUsecase(users domain.UserRepository, tokens TokenIssuer, audit *AuditRecorder, log logrus.FieldLogger, opts ...AuthOption) *AuthUsecase {
	u := &AuthUsecase{
		users:     users,
		tokens:    tokens,
		audit:     audit,
		log:       log,
		decoyCost: security.DefaultBcryptCost,
	}
	for _, opt := range opts {
		opt(u)
	}

	// Built up front so no request pays for it.
	hash, err := security.HashPassword("sentinel-decoy-password", u.decoyCost)
	if err != nil {
		log.WithError(err).Warn("failed to build decoy hash")
	}
	u.decoyHash = hash

	return u
}

// Login authenticates by email and password.
//
// Unknown email, empty password and wrong password all return the same
// domain.ErrInvalidCredentials and leave no token or audit record behind.
// A failed audit write does not fail the login: it is logged and counted.
func (u *AuthUsecase) Login(ctx context.Context, email, password string, client clientip.Source) (*domain.LoginResult, error) {
	ip := client.Resolve()
	key := throttleKey(client.DirectIP, email)

	if err := u.throttle.Acquire(ctx, key); err != nil {
		u.metrics.ObserveLogin(observability.LoginThrottled)
		u.log.WithField("ip", ip).Warn("login throttled")
		return nil, err
	}

	user, err := u.checkCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			u.metrics.ObserveLogin(observability.LoginRejected)
			u.log.WithField("ip", ip).Info("login rejected")
		} else {
			u.metrics.ObserveLogin(observability.LoginError)
		}
		return nil, err
	}
	u.throttle.Clear(ctx, key)

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		u.metrics.ObserveLogin(observability.LoginError)
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	if err := u.audit.Record(ctx, user.ID, user.Email, ip); err != nil {
		u.metrics.AuditWriteFailed()
		u.log.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID,
			"ip":      ip,
		}).Error("access log write failed after successful login")
	}

	u.metrics.ObserveLogin(observability.LoginSuccess)
	u.log.WithFields(logrus.Fields{"user_id": user.ID, "ip": ip}).Info("login succeeded")

	return &domain.LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user.Safe(),
	}, nil
}

func (u *AuthUsecase) checkCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same hashing time as a real comparison.
			_, _ = security.ComparePassword(password, u.decoyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDirectoryUnavailable, err)
	}

	// The comparison runs even for an empty password so that every rejection
	// costs one hash.
	match, err := security.ComparePassword(password, user.PasswordHash)
	if err != nil {
		u.log.WithError(err).WithField("user_id", user.ID).Warn("stored password hash is unreadable")
	}
	if password == "" || !match {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
