package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to MONGODB_URI with a throwaway database, or skips
// when no server is configured.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := Connect(ctx, uri, fmt.Sprintf("authserver_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.EnsureIndexes(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = c.db.Drop(ctx)
		_ = c.Disconnect(ctx)
	})
	return c
}

func TestMembershipStore_DuplicateIsConflict(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	ms := c.Memberships()

	require.NoError(t, ms.Create(ctx, &domain.Membership{MemberSub: "u1", TenantID: "t1", Role: domain.RoleAdmin, Owner: true}))
	err := ms.Create(ctx, &domain.Membership{MemberSub: "u1", TenantID: "t1", Role: domain.RoleRead})
	assert.ErrorIs(t, err, store.ErrConflict)

	// Same subject in another tenant is fine.
	require.NoError(t, ms.Create(ctx, &domain.Membership{MemberSub: "u1", TenantID: "t2", Role: domain.RoleRead}))

	got, err := ms.ListBySubject(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	n, err := ms.DeleteByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = ms.Get(ctx, "u1", "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTenantStore_MalformedIDs(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	ts := c.Tenants()

	assert.NoError(t, ts.Delete(ctx, "not-an-object-id"))

	_, err := ts.GetByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, ts.SetStatus(ctx, "not-an-object-id", domain.TenantStatusActive), store.ErrNotFound)
	assert.ErrorIs(t, ts.Update(ctx, &domain.Tenant{ID: "not-an-object-id", Name: "Acme"}), store.ErrNotFound)
}

func TestTenantStore_ListPending(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	ts := c.Tenants()

	pending := &domain.Tenant{Name: "Pending", Environment: domain.EnvironmentDevelopment, Status: domain.TenantStatusPending}
	require.NoError(t, ts.Create(ctx, pending))
	active := &domain.Tenant{Name: "Active", Environment: domain.EnvironmentDevelopment, Status: domain.TenantStatusPending}
	require.NoError(t, ts.Create(ctx, active))
	require.NoError(t, ts.SetStatus(ctx, active.ID, domain.TenantStatusActive))

	got, err := ts.ListPending(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)

	got, err = ts.ListPending(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, ts.Delete(ctx, pending.ID))
	_, err = ts.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
