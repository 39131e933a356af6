package validation

import (
	"strings"
	"testing"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidate_TenantAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attrs   domain.TenantAttributes
		wantErr bool
	}{
		{"valid simple", domain.TenantAttributes{Name: "Acme Corp"}, false},
		{"valid min length", domain.TenantAttributes{Name: "Acme"}, false},
		{"valid max length", domain.TenantAttributes{Name: strings.Repeat("a", 64)}, false},
		{"valid underscore and hyphen", domain.TenantAttributes{Name: "my_tenant-01"}, false},
		{"valid ideographic space", domain.TenantAttributes{Name: "Acme\u3000Corp"}, false},
		{"ideographic characters count as one", domain.TenantAttributes{Name: strings.Repeat("\u3000", 64)}, false},
		{"too short", domain.TenantAttributes{Name: "Acm"}, true},
		{"too long", domain.TenantAttributes{Name: strings.Repeat("a", 65)}, true},
		{"empty", domain.TenantAttributes{Name: ""}, true},
		{"disallowed punctuation", domain.TenantAttributes{Name: "Acme!Corp"}, true},
		{"disallowed dot", domain.TenantAttributes{Name: "acme.corp"}, true},
		{"non-ascii letters", domain.TenantAttributes{Name: "Café Corp"}, true},
		{"description at limit", domain.TenantAttributes{Name: "Acme", Description: strPtr(strings.Repeat("d", 1024))}, false},
		{"description too long", domain.TenantAttributes{Name: "Acme", Description: strPtr(strings.Repeat("d", 1025))}, true},
		{"known environment", domain.TenantAttributes{Name: "Acme", Environment: domain.EnvironmentProduction}, false},
		{"unknown environment", domain.TenantAttributes{Name: "Acme", Environment: "qa"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.attrs)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_TenantUpdate(t *testing.T) {
	qa := domain.Environment("qa")

	assert.NoError(t, Validate(domain.TenantUpdate{}))
	assert.NoError(t, Validate(domain.TenantUpdate{Name: strPtr("Acme Inc")}))
	assert.ErrorIs(t, Validate(domain.TenantUpdate{Name: strPtr("")}), domain.ErrValidation)
	assert.ErrorIs(t, Validate(domain.TenantUpdate{Name: strPtr("no")}), domain.ErrValidation)
	assert.ErrorIs(t, Validate(domain.TenantUpdate{Environment: &qa}), domain.ErrValidation)
}

func TestValidate_UserCreate(t *testing.T) {
	ok := domain.UserCreate{Email: "a@example.com", Username: "alice", Password: "password123"}
	assert.NoError(t, Validate(ok))

	tests := []struct {
		name    string
		mutate  func(u *domain.UserCreate)
		message string
	}{
		{"bad email", func(u *domain.UserCreate) { u.Email = "nope" }, "email must be a valid email"},
		{"short username", func(u *domain.UserCreate) { u.Username = "al" }, "username must be at least 3 characters"},
		{"short password", func(u *domain.UserCreate) { u.Password = "short" }, "password must be at least 8 characters"},
		{"password over bcrypt limit", func(u *domain.UserCreate) { u.Password = strings.Repeat("p", 73) }, "password must be at most 72 bytes"},
		{"multibyte password over bcrypt limit", func(u *domain.UserCreate) { u.Password = strings.Repeat("é", 40) }, "password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := ok
			tt.mutate(&u)
			err := Validate(u)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "bob@example.com", "required,email"))

	err := Var("email", "Bob <bob@example.com>", "required,email")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email")

	assert.ErrorIs(t, Var("email", "", "required,email"), domain.ErrValidation)
}
