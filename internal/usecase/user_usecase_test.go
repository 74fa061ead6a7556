package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FilipeAphrody/sentinel-access/internal/domain"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"
)

func newTestUserUsecase(users *memUsers) *UserUsecase {
	return NewUserUsecase(users, bcrypt.MinCost, fixedClock(loginNow))
}

func TestUserUsecase_Create(t *testing.T) {
	users := newMemUsers()
	uc := newTestUserUsecase(users)

	got, err := uc.Create(context.Background(), CreateUserInput{
		Name:     "  Bob ",
		Email:    " b@x.com ",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "b@x.com", got.Email)
	assert.Equal(t, domain.RoleUser, got.Role)

	stored, err := users.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.Equal(t, loginNow, stored.CreatedAt)
	ok, err := security.ComparePassword("secret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserUsecase_CreateValidation(t *testing.T) {
	valid := CreateUserInput{Name: "Bob", Email: "b@x.com", Password: "secret", Role: domain.RoleAdmin}

	tests := []struct {
		name   string
		mutate func(*CreateUserInput)
	}{
		{"blank name", func(in *CreateUserInput) { in.Name = "   " }},
		{"missing email", func(in *CreateUserInput) { in.Email = "" }},
		{"malformed email", func(in *CreateUserInput) { in.Email = "not-an-email" }},
		{"display name email", func(in *CreateUserInput) { in.Email = "Bob <b@x.com>" }},
		{"short password", func(in *CreateUserInput) { in.Password = "ab" }},
		{"long password", func(in *CreateUserInput) { in.Password = strings.Repeat("x", MaxPasswordLength+1) }},
		{"unknown role", func(in *CreateUserInput) { in.Role = "root" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUsers()
			in := valid
			tt.mutate(&in)

			_, err := newTestUserUsecase(users).Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, users.byID)
		})
	}
}

func TestUserUsecase_CreateDuplicateEmail(t *testing.T) {
	users := newMemUsers(&domain.User{ID: "u-1", Name: "Alice", Email: "a@x.com", Role: domain.RoleUser})

	_, err := newTestUserUsecase(users).Create(context.Background(), CreateUserInput{
		Name: "Other", Email: "a@x.com", Password: "secret",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, users.byID, 1)
}

func TestUserUsecase_Me(t *testing.T) {
	users := newMemUsers(&domain.User{ID: "u-1", Name: "Alice", Email: "a@x.com", PasswordHash: "h", Role: domain.RoleUser})
	uc := newTestUserUsecase(users)

	me, err := uc.Me(context.Background(), domain.Principal{ID: "u-1", Email: "a@x.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, &domain.SafeUser{ID: "u-1", Name: "Alice", Email: "a@x.com", Role: domain.RoleUser}, me)

	_, err = uc.Me(context.Background(), domain.Principal{ID: "deleted"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUsecase_List(t *testing.T) {
	users := newMemUsers(
		&domain.User{ID: "u-1", Email: "a@x.com", PasswordHash: "h1", Role: domain.RoleUser},
		&domain.User{ID: "u-2", Email: "b@x.com", PasswordHash: "h2", Role: domain.RoleAdmin},
	)

	list, err := newTestUserUsecase(users).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	users.err = errors.New("db down")
	_, err = newTestUserUsecase(users).List(context.Background())
	assert.Error(t, err)
}

func TestUserUsecase_EnsureAdmin(t *testing.T) {
	users := newMemUsers()
	uc := newTestUserUsecase(users)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "Admin", "admin@local.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "Admin", "admin@local.com", "other-password")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, users.byID, 1)
	admin, err := users.GetByEmail(ctx, "admin@local.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	ok, _ := security.ComparePassword("admin123", admin.PasswordHash)
	assert.True(t, ok)
}

func TestUserUsecase_EnsureAdminDirectoryError(t *testing.T) {
	users := newMemUsers()
	users.err = errors.New("connection refused")

	created, err := newTestUserUsecase(users).EnsureAdmin(context.Background(), "Admin", "admin@local.com", "admin123")
	assert.Error(t, err)
	assert.False(t, created)
}

func TestUserUsecase_CreatedAtIsUTC(t *testing.T) {
	users := newMemUsers()
	local := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	uc := NewUserUsecase(users, bcrypt.MinCost, fixedClock(local))

	got, err := uc.Create(context.Background(), CreateUserInput{Name: "C", Email: "c@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, users.byID[got.ID].CreatedAt.Location())
}
