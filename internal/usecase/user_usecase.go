package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

// Password length bounds accepted at provisioning. bcrypt rejects input
// beyond 72 bytes.
const (
	MinPasswordLength = 3
	MaxPasswordLength = 72
)

// CreateUserInput is the provisioning request for a new account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserUsecase provisions and reads accounts. It never returns password hashes.
type UserUsecase struct {
	users      domain.UserRepository
	bcryptCost int
	now        security.Clock
}

func NewUserUsecase(users domain.UserRepository, bcryptCost int, clock security.Clock) *UserUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &UserUsecase{users: users, bcryptCost: bcryptCost, now: clock}
}

// Me returns the account behind an authenticated principal.
func (u *UserUsecase) Me(ctx context.Context, p domain.Principal) (*domain.SafeUser, error) {
	user, err := u.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	safe := user.Safe()
	return &safe, nil
}

// List returns every account.
func (u *UserUsecase) List(ctx context.Context) ([]domain.SafeUser, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SafeUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Safe())
	}
	return out, nil
}

// Create validates the input, hashes the password and stores the account.
// The role defaults to domain.RoleUser. A duplicate email surfaces as
// domain.ErrEmailTaken from the repository.
func (u *UserUsecase) Create(ctx context.Context, in CreateUserInput) (*domain.SafeUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password, u.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	safe := user.Safe()
	return &safe, nil
}

// EnsureAdmin creates an admin account unless the email is already
// registered. It reports whether an account was created.
func (u *UserUsecase) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	_, err = u.Create(ctx, CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		// Lost a race with a concurrent seed.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func validateCreate(in CreateUserInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}
	if len(in.Password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must have at most %d bytes", domain.ErrInvalidInput, MaxPasswordLength)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: role must be admin or user", domain.ErrInvalidInput)
	}
	return nil
}
