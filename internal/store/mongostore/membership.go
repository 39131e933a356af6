package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type membershipDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	MemberSub string             `bson:"member_sub"`
	TenantID  string             `bson:"tenant_id"`
	Role      string             `bson:"role"`
	Owner     bool               `bson:"owner"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d membershipDoc) toDomain() domain.Membership {
	return domain.Membership{
		ID:        d.ID.Hex(),
		MemberSub: d.MemberSub,
		TenantID:  d.TenantID,
		Role:      domain.Role(d.Role),
		Owner:     d.Owner,
		CreatedAt: d.CreatedAt,
	}
}

type MembershipStore struct {
	coll *mongo.Collection
}

func (s *MembershipStore) Create(ctx context.Context, m *domain.Membership) error {
	doc := membershipDoc{
		ID:        primitive.NewObjectID(),
		MemberSub: m.MemberSub,
		TenantID:  m.TenantID,
		Role:      string(m.Role),
		Owner:     m.Owner,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return err
	}
	m.ID = doc.ID.Hex()
	m.CreatedAt = doc.CreatedAt
	return nil
}

func (s *MembershipStore) Get(ctx context.Context, memberSub, tenantID string) (*domain.Membership, error) {
	var doc membershipDoc
	err := s.coll.FindOne(ctx, bson.M{"member_sub": memberSub, "tenant_id": tenantID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	m := doc.toDomain()
	return &m, nil
}

func (s *MembershipStore) ListBySubject(ctx context.Context, memberSub string) ([]domain.Membership, error) {
	return s.find(ctx, bson.M{"member_sub": memberSub})
}

func (s *MembershipStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.Membership, error) {
	return s.find(ctx, bson.M{"tenant_id": tenantID})
}

func (s *MembershipStore) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"tenant_id": tenantID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MembershipStore) find(ctx context.Context, filter bson.M) ([]domain.Membership, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []membershipDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	members := make([]domain.Membership, 0, len(docs))
	for _, d := range docs {
		members = append(members, d.toDomain())
	}
	return members, nil
}
