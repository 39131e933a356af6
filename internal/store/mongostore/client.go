// Package mongostore persists tenants and memberships in MongoDB.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	tenantCollection     = "tenant"
	membershipCollection = "tenant_membership"
)

// Client owns the MongoDB connection shared by the tenant and membership
// stores. It is created once at startup and closed on shutdown.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		// Nested metadata documents decode as maps so they serialize as JSON objects.
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	return &Client{client: c, db: c.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the stores rely on. The membership index
// makes (member_sub, tenant_id) unique.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(membershipCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_sub", Value: 1}, {Key: "tenant_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("member_sub_tenant_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}},
			Options: options.Index().SetName("tenant_id"),
		},
	})
	if err != nil {
		return fmt.Errorf("create membership indexes: %w", err)
	}

	_, err = c.db.Collection(tenantCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("status_created_at"),
	})
	if err != nil {
		return fmt.Errorf("create tenant indexes: %w", err)
	}
	return nil
}

func (c *Client) Tenants() *TenantStore {
	return &TenantStore{client: c, coll: c.db.Collection(tenantCollection)}
}

func (c *Client) Memberships() *MembershipStore {
	return &MembershipStore{coll: c.db.Collection(membershipCollection)}
}
