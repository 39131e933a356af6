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
)

type tenantDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Description      *string            `bson:"description"`
	Environment      string             `bson:"environment"`
	StripeCustomerID *string            `bson:"stripe_customer_id"`
	Metadata         map[string]any     `bson:"metadata"`
	Status           string             `bson:"status"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (d tenantDoc) toDomain() domain.Tenant {
	md := d.Metadata
	if md == nil {
		md = map[string]any{}
	}
	status := domain.TenantStatus(d.Status)
	if status == "" {
		// Documents written before status tracking existed are complete.
		status = domain.TenantStatusActive
	}
	return domain.Tenant{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Description:      d.Description,
		Environment:      domain.Environment(d.Environment),
		StripeCustomerID: d.StripeCustomerID,
		Metadata:         md,
		Status:           status,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type TenantStore struct {
	client *Client
	coll   *mongo.Collection
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := tenantDoc{
		ID:               primitive.NewObjectID(),
		Name:             t.Name,
		Description:      t.Description,
		Environment:      string(t.Environment),
		StripeCustomerID: t.StripeCustomerID,
		Metadata:         t.Metadata,
		Status:           string(t.Status),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	t.ID = doc.ID.Hex()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (s *TenantStore) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc tenantDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	t := doc.toDomain()
	return &t, nil
}

func (s *TenantStore) Update(ctx context.Context, t *domain.Tenant) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return store.ErrNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":               t.Name,
		"description":        t.Description,
		"environment":        string(t.Environment),
		"stripe_customer_id": t.StripeCustomerID,
		"metadata":           t.Metadata,
		"updated_at":         now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (s *TenantStore) SetStatus(ctx context.Context, id string, status domain.TenantStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *TenantStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids can never match a stored tenant.
		return nil
	}
	_, err = s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (s *TenantStore) ListPending(ctx context.Context, createdBefore time.Time) ([]domain.Tenant, error) {
	cur, err := s.coll.Find(ctx, bson.M{
		"status":     string(domain.TenantStatusPending),
		"created_at": bson.M{"$lt": createdBefore},
	})
	if err != nil {
		return nil, err
	}

	var docs []tenantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	tenants := make([]domain.Tenant, 0, len(docs))
	for _, d := range docs {
		tenants = append(tenants, d.toDomain())
	}
	return tenants, nil
}

func (s *TenantStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
