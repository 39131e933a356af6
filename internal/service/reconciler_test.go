package service

import (
	"context"
	"testing"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stayforge/auth-server/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcilerService_RunOnce(t *testing.T) {
	ctx := context.Background()
	ts := memory.NewTenantStore()
	ms := memory.NewMembershipStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts.SetClock(func() time.Time { return base })

	owned := &domain.Tenant{Name: "Owned", Status: domain.TenantStatusPending}
	require.NoError(t, ts.Create(ctx, owned))
	require.NoError(t, ms.Create(ctx, &domain.Membership{MemberSub: "u1", TenantID: owned.ID, Role: domain.RoleAdmin, Owner: true}))

	orphan := &domain.Tenant{Name: "Orphan", Status: domain.TenantStatusPending}
	require.NoError(t, ts.Create(ctx, orphan))
	require.NoError(t, ms.Create(ctx, &domain.Membership{MemberSub: "u2", TenantID: orphan.ID, Role: domain.RoleRead}))

	active := &domain.Tenant{Name: "Active", Status: domain.TenantStatusActive}
	require.NoError(t, ts.Create(ctx, active))

	r := NewReconcilerService(ts, ms, zap.NewNop())
	r.SetGracePeriod(5 * time.Minute)

	// Inside the grace period nothing is touched.
	r.now = func() time.Time { return base.Add(time.Minute) }
	activated, reaped, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, activated)
	assert.Zero(t, reaped)

	r.now = func() time.Time { return base.Add(10 * time.Minute) }
	activated, reaped, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, activated)
	assert.Equal(t, 1, reaped)

	got, err := ts.GetByID(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantStatusActive, got.Status)

	_, err = ts.GetByID(ctx, orphan.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	members, err := ms.ListByTenant(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	got, err = ts.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TenantStatusActive, got.Status)
}

func TestReconcilerService_StartReconcilesOnTick(t *testing.T) {
	ctx := context.Background()
	ts := memory.NewTenantStore()
	ms := memory.NewMembershipStore()

	pending := &domain.Tenant{Name: "Pending", Status: domain.TenantStatusPending}
	require.NoError(t, ts.Create(ctx, pending))
	require.NoError(t, ms.Create(ctx, &domain.Membership{MemberSub: "u1", TenantID: pending.ID, Role: domain.RoleAdmin, Owner: true}))

	r := NewReconcilerService(ts, ms, zap.NewNop())
	r.SetInterval(5 * time.Millisecond)
	r.SetGracePeriod(time.Nanosecond)
	r.Start()
	defer r.Stop()

	assert.Eventually(t, func() bool {
		got, err := ts.GetByID(ctx, pending.ID)
		return err == nil && got.Status == domain.TenantStatusActive
	}, time.Second, 5*time.Millisecond)
}
