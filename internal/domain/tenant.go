package domain

import "time"

type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

// Environments lists every environment in declaration order.
func Environments() []Environment {
	return []Environment{EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction}
}

func (e Environment) Valid() bool {
	switch e {
	case EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction:
		return true
	}
	return false
}

// TenantStatus tracks whether the owner membership of a tenant has been
// confirmed. Tenants are written as pending and flipped to active once the
// owner membership exists.
type TenantStatus string

const (
	TenantStatusPending TenantStatus = "pending"
	TenantStatusActive  TenantStatus = "active"
)

type Tenant struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      *string        `json:"description"`
	Environment      Environment    `json:"environment"`
	StripeCustomerID *string        `json:"stripe_customer_id"`
	Metadata         map[string]any `json:"metadata"`
	Status           TenantStatus   `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TenantAttributes are the caller-controlled fields of a new tenant. Names
// are 4 to 64 characters of letters, digits, spaces, '_' and '-'.
type TenantAttributes struct {
	Name             string         `json:"name" validate:"min=4,max=64,tenantname"`
	Description      *string        `json:"description" validate:"omitnil,max=1024"`
	Environment      Environment    `json:"environment" validate:"omitempty,oneof=development staging production"`
	StripeCustomerID *string        `json:"stripe_customer_id"`
	Metadata         map[string]any `json:"metadata"`
}

// Normalize fills defaults for omitted optional fields.
func (a *TenantAttributes) Normalize() {
	if a.Environment == "" {
		a.Environment = EnvironmentDevelopment
	}
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
}

// Apply copies the attributes onto t, leaving identity and status untouched.
func (a TenantAttributes) Apply(t *Tenant) {
	t.Name = a.Name
	t.Description = a.Description
	t.Environment = a.Environment
	t.StripeCustomerID = a.StripeCustomerID
	t.Metadata = a.Metadata
}

// TenantUpdate is a partial update; nil fields are left unchanged.
type TenantUpdate struct {
	Name             *string        `json:"name" validate:"omitnil,min=4,max=64,tenantname"`
	Description      *string        `json:"description" validate:"omitnil,max=1024"`
	Environment      *Environment   `json:"environment" validate:"omitnil,oneof=development staging production"`
	StripeCustomerID *string        `json:"stripe_customer_id"`
	Metadata         map[string]any `json:"metadata"`
}

// Apply copies the set fields onto t.
func (u TenantUpdate) Apply(t *Tenant) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = u.Description
	}
	if u.Environment != nil {
		t.Environment = *u.Environment
	}
	if u.StripeCustomerID != nil {
		t.StripeCustomerID = u.StripeCustomerID
	}
	if u.Metadata != nil {
		t.Metadata = u.Metadata
	}
}

// TenantWithMembers is a tenant together with its full member roster.
type TenantWithMembers struct {
	ID      string       `json:"id"`
	Tenant  *Tenant      `json:"tenant"`
	Members []Membership `json:"members"`
}
