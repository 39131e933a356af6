package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
)

// UserStore mirrors the unique email and username constraints of the users table.
type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]domain.User)}
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(u) {
		return store.ErrConflict
	}
	s.nextID++
	now := time.Now().UTC()
	u.ID = s.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findOne(func(u domain.User) bool { return u.Email == email })
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.findOne(func(u domain.User) bool { return u.Username == username })
}

func (s *UserStore) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *UserStore) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	if s.taken(u) {
		return store.ErrConflict
	}
	u.CreatedAt = existing.CreatedAt
	u.IsSuperuser = existing.IsSuperuser
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) Ping(context.Context) error { return nil }

// taken reports whether another user already holds u's email or username.
// Callers must hold the lock.
func (s *UserStore) taken(u *domain.User) bool {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.Username == u.Username {
			return true
		}
	}
	return false
}

func (s *UserStore) findOne(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}
