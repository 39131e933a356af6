package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stayforge/auth-server/internal/auth"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService() *UserService {
	return NewUserService(memory.NewUserStore())
}

func createUser(t *testing.T, s *UserService, email, username string) *domain.User {
	t.Helper()
	u, err := s.Create(context.Background(), domain.UserCreate{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Create(t *testing.T) {
	s := newUserService()
	u := createUser(t, s, "alice@example.com", "alice")

	assert.NotZero(t, u.ID)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSuperuser)
	assert.NotEqual(t, "password123", u.HashedPassword)
	assert.True(t, auth.CheckPassword(u.HashedPassword, "password123"))
}

func TestUserService_CreateValidation(t *testing.T) {
	s := newUserService()
	ctx := context.Background()

	tests := []struct {
		name string
		in   domain.UserCreate
	}{
		{"bad email", domain.UserCreate{Email: "nope", Username: "alice", Password: "password123"}},
		{"short username", domain.UserCreate{Email: "a@example.com", Username: "al", Password: "password123"}},
		{"short password", domain.UserCreate{Email: "a@example.com", Username: "alice", Password: "short"}},
		{"password over 72 bytes", domain.UserCreate{Email: "a@example.com", Username: "alice", Password: strings.Repeat("p", 80)}},
		{"multibyte password over 72 bytes", domain.UserCreate{Email: "a@example.com", Username: "alice", Password: strings.Repeat("é", 40)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_CreateDuplicate(t *testing.T) {
	s := newUserService()
	ctx := context.Background()
	createUser(t, s, "alice@example.com", "alice")

	_, err := s.Create(ctx, domain.UserCreate{Email: "alice@example.com", Username: "alice2", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, domain.UserCreate{Email: "other@example.com", Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	s := newUserService()
	_, err := s.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	s := newUserService()
	ctx := context.Background()
	createUser(t, s, "a@example.com", "aaa")
	createUser(t, s, "b@example.com", "bbb")
	createUser(t, s, "c@example.com", "ccc")

	users, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	users, err = s.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bbb", users[0].Username)

	users, err = s.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	_, err = s.List(ctx, -1, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Update(t *testing.T) {
	s := newUserService()
	ctx := context.Background()
	alice := createUser(t, s, "alice@example.com", "alice")
	createUser(t, s, "bob@example.com", "bob")

	taken := "bob"
	_, err := s.Update(ctx, alice.ID, domain.UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Keeping one's own email is not a conflict.
	same := "alice@example.com"
	newName := "alice_w"
	inactive := false
	newPass := "another-password"
	u, err := s.Update(ctx, alice.ID, domain.UserUpdate{
		Email:    &same,
		Username: &newName,
		Password: &newPass,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_w", u.Username)
	assert.False(t, u.IsActive)
	assert.True(t, auth.CheckPassword(u.HashedPassword, "another-password"))

	tooLong := strings.Repeat("p", 73)
	_, err = s.Update(ctx, alice.ID, domain.UserUpdate{Password: &tooLong})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Update(ctx, 999, domain.UserUpdate{Username: &newName})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	s := newUserService()
	ctx := context.Background()
	u := createUser(t, s, "alice@example.com", "alice")

	require.NoError(t, s.Delete(ctx, u.ID))
	assert.ErrorIs(t, s.Delete(ctx, u.ID), domain.ErrNotFound)
	_, err := s.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
