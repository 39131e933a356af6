package mongostore

import (
	"testing"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTenantDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got := tenantDoc{
		ID:          oid,
		Name:        "Acme",
		Environment: "production",
		CreatedAt:   created,
	}.toDomain()

	assert.Equal(t, oid.Hex(), got.ID)
	assert.Equal(t, domain.EnvironmentProduction, got.Environment)
	assert.Equal(t, domain.TenantStatusActive, got.Status, "documents without status are complete")
	assert.NotNil(t, got.Metadata)
	assert.Equal(t, created, got.CreatedAt)

	pending := tenantDoc{ID: oid, Status: string(domain.TenantStatusPending)}.toDomain()
	assert.Equal(t, domain.TenantStatusPending, pending.Status)
}

func TestTenantDoc_BSONFieldNames(t *testing.T) {
	desc := "demo"
	raw, err := bson.Marshal(tenantDoc{
		ID:          primitive.NewObjectID(),
		Name:        "Acme",
		Description: &desc,
		Metadata:    map[string]any{"plan": "pro"},
		Status:      string(domain.TenantStatusActive),
	})
	assert.NoError(t, err)

	var m bson.M
	assert.NoError(t, bson.Unmarshal(raw, &m))
	for _, key := range []string{"_id", "name", "description", "environment", "stripe_customer_id", "metadata", "status", "created_at", "updated_at"} {
		assert.Contains(t, m, key)
	}
}

func TestMembershipDoc_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	got := membershipDoc{ID: oid, MemberSub: "u1", TenantID: "t1", Role: "admin", Owner: true}.toDomain()

	assert.Equal(t, oid.Hex(), got.ID)
	assert.Equal(t, "u1", got.MemberSub)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.True(t, got.Owner)
}
