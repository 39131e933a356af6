package domain

import "context"

type IdentityKind string

const (
	// IdentityService is a caller holding the shared API key. It acts on
	// behalf of the subject named in the request.
	IdentityService IdentityKind = "service"
	// IdentityUser is a caller holding a signed token for its own subject.
	IdentityUser IdentityKind = "user"
)

type Identity struct {
	Kind    IdentityKind
	Subject string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}
