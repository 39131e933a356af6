package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
)

// MembershipStore enforces (member_sub, tenant_id) uniqueness the same way
// the MongoDB unique index does.
type MembershipStore struct {
	mu      sync.RWMutex
	members []domain.Membership
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{}
}

func (s *MembershipStore) Create(_ context.Context, m *domain.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.MemberSub == m.MemberSub && existing.TenantID == m.TenantID {
			return store.ErrConflict
		}
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	s.members = append(s.members, *m)
	return nil
}

func (s *MembershipStore) Get(_ context.Context, memberSub, tenantID string) (*domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.MemberSub == memberSub && m.TenantID == tenantID {
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MembershipStore) ListBySubject(_ context.Context, memberSub string) ([]domain.Membership, error) {
	return s.filter(func(m domain.Membership) bool { return m.MemberSub == memberSub }), nil
}

func (s *MembershipStore) ListByTenant(_ context.Context, tenantID string) ([]domain.Membership, error) {
	return s.filter(func(m domain.Membership) bool { return m.TenantID == tenantID }), nil
}

func (s *MembershipStore) DeleteByTenant(_ context.Context, tenantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.members[:0]
	var deleted int64
	for _, m := range s.members {
		if m.TenantID == tenantID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.members = kept
	return deleted, nil
}

func (s *MembershipStore) filter(keep func(domain.Membership) bool) []domain.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Membership{}
	for _, m := range s.members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
