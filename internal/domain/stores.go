package domain

import (
	"context"
	"time"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	SetStatus(ctx context.Context, id string, status TenantStatus) error
	// Delete removes the tenant. Deleting an absent tenant is not an error.
	Delete(ctx context.Context, id string) error
	ListPending(ctx context.Context, createdBefore time.Time) ([]Tenant, error)
	Ping(ctx context.Context) error
}

type MembershipStore interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, memberSub, tenantID string) (*Membership, error)
	ListBySubject(ctx context.Context, memberSub string) ([]Membership, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Membership, error)
	DeleteByTenant(ctx context.Context, tenantID string) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
