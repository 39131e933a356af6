package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/metrics"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stayforge/auth-server/internal/validation"
	"go.uber.org/zap"
)

// TenantService decides who may read, change or remove a tenant and its
// memberships. Membership of the tenant is the gate for every operation on an
// existing tenant.
type TenantService struct {
	tenants     domain.TenantStore
	memberships domain.MembershipStore
	logger      *zap.Logger
	metrics     *metrics.Metrics

	deleteRequiresOwner bool
}

func NewTenantService(ts domain.TenantStore, ms domain.MembershipStore, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenants:     ts,
		memberships: ms,
		logger:      logger,
	}
}

func (s *TenantService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetDeleteRequiresOwner restricts DeleteTenant to the owning membership.
// By default any member may delete a tenant.
func (s *TenantService) SetDeleteRequiresOwner(v bool) {
	s.deleteRequiresOwner = v
}

// CreateTenant stores a new tenant owned by subject. The tenant is written as
// pending, the owner membership is written, then the tenant is activated. If
// the membership write fails the tenant is removed again; anything left behind
// is picked up by the reconciler.
func (s *TenantService) CreateTenant(ctx context.Context, subject string, attrs domain.TenantAttributes) (*domain.Tenant, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", domain.ErrValidation)
	}
	attrs.Normalize()
	if err := validation.Validate(attrs); err != nil {
		return nil, err
	}

	t := &domain.Tenant{Status: domain.TenantStatusPending}
	attrs.Apply(t)
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}

	owner := &domain.Membership{
		MemberSub: subject,
		TenantID:  t.ID,
		Role:      domain.RoleAdmin,
		Owner:     true,
	}
	if err := s.memberships.Create(ctx, owner); err != nil {
		cleanupCtx := context.WithoutCancel(ctx)
		if delErr := s.tenants.Delete(cleanupCtx, t.ID); delErr != nil {
			s.logger.Error("failed to remove tenant without owner",
				zap.String("tenant_id", t.ID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("create owner membership: %w", mapStoreErr(err))
	}

	if err := s.tenants.SetStatus(ctx, t.ID, domain.TenantStatusActive); err != nil {
		s.logger.Warn("failed to activate tenant, leaving it to the reconciler",
			zap.String("tenant_id", t.ID),
			zap.Error(err))
	} else {
		t.Status = domain.TenantStatusActive
	}

	s.metrics.IncTenantCreated()
	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID),
		zap.String("owner", subject))
	return t, nil
}

// ListTenantsForSubject returns every tenant subject belongs to with its full
// roster. Entries that cannot be resolved are logged and skipped.
func (s *TenantService) ListTenantsForSubject(ctx context.Context, subject string) ([]domain.TenantWithMembers, error) {
	memberships, err := s.memberships.ListBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return nil, fmt.Errorf("%w: no tenants found for member_sub %s", domain.ErrNotFound, subject)
	}

	result := make([]domain.TenantWithMembers, 0, len(memberships))
	for _, m := range memberships {
		if m.TenantID == "" {
			continue
		}
		view, err := s.loadTenant(ctx, m.TenantID)
		if err != nil {
			s.logger.Error("skipping unresolvable membership",
				zap.String("membership_id", m.ID),
				zap.String("tenant_id", m.TenantID),
				zap.Error(err))
			continue
		}
		result = append(result, *view)
	}
	return result, nil
}

func (s *TenantService) GetTenant(ctx context.Context, subject, tenantID string) (*domain.TenantWithMembers, error) {
	if _, err := s.authorize(ctx, "get", subject, tenantID); err != nil {
		return nil, err
	}
	return s.loadTenant(ctx, tenantID)
}

// UpdateTenant changes the fields set in upd and keeps the rest. The caller's
// role must grant write access.
func (s *TenantService) UpdateTenant(ctx context.Context, subject, tenantID string, upd domain.TenantUpdate) (*domain.Tenant, error) {
	m, err := s.authorize(ctx, "update", subject, tenantID)
	if err != nil {
		return nil, err
	}
	if !m.Role.CanWrite() {
		s.metrics.IncAccessDenied("update")
		return nil, fmt.Errorf("%w: role %s cannot modify this tenant", domain.ErrForbidden, m.Role)
	}

	if err := validation.Validate(upd); err != nil {
		return nil, err
	}

	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", mapStoreErr(err))
	}
	upd.Apply(t)
	if err := s.tenants.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update tenant: %w", mapStoreErr(err))
	}
	return t, nil
}

// DeleteTenant removes the tenant and then every membership that references
// it. A tenant record that is already gone is not an error, so a retry after a
// partial failure completes the cleanup.
func (s *TenantService) DeleteTenant(ctx context.Context, subject, tenantID string) error {
	m, err := s.authorize(ctx, "delete", subject, tenantID)
	if err != nil {
		return err
	}
	if s.deleteRequiresOwner && !m.Owner {
		s.metrics.IncAccessDenied("delete")
		return fmt.Errorf("%w: only the tenant owner may delete it", domain.ErrForbidden)
	}

	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	removed, err := s.memberships.DeleteByTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}

	s.metrics.IncTenantDeleted()
	s.logger.Info("tenant deleted",
		zap.String("tenant_id", tenantID),
		zap.String("deleted_by", subject),
		zap.Int64("memberships_removed", removed))
	return nil
}

func (s *TenantService) ListMembers(ctx context.Context, subject, tenantID string) ([]domain.Membership, error) {
	if _, err := s.authorize(ctx, "list_members", subject, tenantID); err != nil {
		return nil, err
	}
	members, err := s.memberships.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// InviteMember acknowledges an invitation for email. Invitations are not
// delivered and do not create a membership yet.
func (s *TenantService) InviteMember(ctx context.Context, subject, tenantID, email string) (*domain.Invitation, error) {
	if _, err := s.authorize(ctx, "invite", subject, tenantID); err != nil {
		return nil, err
	}
	if err := validation.Var("email", email, "required,email"); err != nil {
		return nil, err
	}

	s.logger.Info("member invitation accepted",
		zap.String("tenant_id", tenantID),
		zap.String("invited_by", subject))
	return &domain.Invitation{
		TenantID: tenantID,
		Email:    email,
		Status:   domain.InvitationPending,
	}, nil
}

// authorize returns the caller's membership of tenantID. A missing membership
// is reported as forbidden whether or not the tenant exists.
func (s *TenantService) authorize(ctx context.Context, op, subject, tenantID string) (*domain.Membership, error) {
	if subject == "" || tenantID == "" {
		s.metrics.IncAccessDenied(op)
		return nil, fmt.Errorf("%w: not a member of this tenant", domain.ErrForbidden)
	}

	m, err := s.memberships.Get(ctx, subject, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.IncAccessDenied(op)
			return nil, fmt.Errorf("%w: not a member of this tenant", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("check membership: %w", err)
	}
	return m, nil
}

func (s *TenantService) loadTenant(ctx context.Context, tenantID string) (*domain.TenantWithMembers, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %s not found", domain.ErrNotFound, tenantID)
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	members, err := s.memberships.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return &domain.TenantWithMembers{ID: tenantID, Tenant: t, Members: members}, nil
}

// mapStoreErr translates store sentinels into domain error kinds.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
