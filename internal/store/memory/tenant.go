// Package memory holds in-process stores used for local development and tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
)

// TenantStore keeps tenants in a map keyed by id. Returned values are copies.
type TenantStore struct {
	mu      sync.RWMutex
	tenants map[string]domain.Tenant
	now     func() time.Time
}

func NewTenantStore() *TenantStore {
	return &TenantStore{
		tenants: make(map[string]domain.Tenant),
		now:     time.Now,
	}
}

func (s *TenantStore) Create(_ context.Context, t *domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tenants[t.ID] = cloneTenant(*t)
	return nil
}

func (s *TenantStore) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t = cloneTenant(t)
	return &t, nil
}

func (s *TenantStore) Update(_ context.Context, t *domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tenants[t.ID]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = existing.Status
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now().UTC()
	s.tenants[t.ID] = cloneTenant(*t)
	return nil
}

func (s *TenantStore) SetStatus(_ context.Context, id string, status domain.TenantStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = s.now().UTC()
	s.tenants[id] = t
	return nil
}

func (s *TenantStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, id)
	return nil
}

func (s *TenantStore) ListPending(_ context.Context, createdBefore time.Time) ([]domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Tenant
	for _, t := range s.tenants {
		if t.Status == domain.TenantStatusPending && t.CreatedAt.Before(createdBefore) {
			out = append(out, cloneTenant(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *TenantStore) Ping(context.Context) error { return nil }

// cloneTenant copies the metadata map so stored and returned tenants never
// share it.
func cloneTenant(t domain.Tenant) domain.Tenant {
	t.Metadata = maps.Clone(t.Metadata)
	return t
}

// SetClock overrides the time source used for timestamps.
func (s *TenantStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
