package domain

import "time"

type Role string

const (
	RoleRead      Role = "read"
	RoleWrite     Role = "write"
	RoleReadWrite Role = "readwrite"
	RoleAdmin     Role = "admin"
)

// Roles lists every role in declaration order.
func Roles() []Role {
	return []Role{RoleRead, RoleWrite, RoleReadWrite, RoleAdmin}
}

func (r Role) Valid() bool {
	switch r {
	case RoleRead, RoleWrite, RoleReadWrite, RoleAdmin:
		return true
	}
	return false
}

// CanWrite reports whether the role may modify tenant attributes.
func (r Role) CanWrite() bool {
	switch r {
	case RoleRead:
		return false
	case RoleWrite, RoleReadWrite, RoleAdmin:
		return true
	}
	return false
}

type Membership struct {
	ID        string    `json:"id"`
	MemberSub string    `json:"member_sub"`
	TenantID  string    `json:"tenant_id"`
	Role      Role      `json:"role"`
	Owner     bool      `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation acknowledges an invite request. No membership is created yet.
type Invitation struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

const InvitationPending = "pending"
