package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stayforge/auth-server/internal/auth"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stayforge/auth-server/internal/validation"
)

const (
	defaultUserListLimit = 100
	maxUserListLimit     = 1000
)

type UserService struct {
	store domain.UserStore
}

func NewUserService(s domain.UserStore) *UserService {
	return &UserService{store: s}
}

func (s *UserService) Create(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, 0, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", mapStoreErr(err))
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

// List returns users ordered by id. A zero limit means the default page size.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must not be negative", domain.ErrValidation)
	}
	if limit == 0 {
		limit = defaultUserListLimit
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}

	users, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	if err := validation.Validate(in); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if err := s.ensureFree(ctx, id, *in.Email, ""); err != nil {
			return nil, err
		}
		u.Email = *in.Email
	}
	if in.Username != nil {
		if err := s.ensureFree(ctx, id, "", *in.Username); err != nil {
			return nil, err
		}
		u.Username = *in.Username
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.HashedPassword = hash
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", mapStoreErr(err))
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
		}
		return err
	}
	return nil
}

// ensureFree fails with a conflict when email or username belongs to a user
// other than selfID. Empty values are skipped.
func (s *UserService) ensureFree(ctx context.Context, selfID int64, email, username string) error {
	if email != "" {
		existing, err := s.store.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("%w: email already taken", domain.ErrConflict)
		}
	}
	if username != "" {
		existing, err := s.store.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("%w: username already taken", domain.ErrConflict)
		}
	}
	return nil
}
