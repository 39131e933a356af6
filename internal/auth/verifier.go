package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/stayforge/auth-server/internal/domain"
)

var ErrInvalidCredential = errors.New("invalid credential")

// Verifier accepts either the shared API key or a signed access token.
type Verifier struct {
	apiKey string
	tokens *TokenManager
}

// NewVerifier builds a verifier. An empty apiKey disables API key access and
// a nil token manager disables token access.
func NewVerifier(apiKey string, tokens *TokenManager) *Verifier {
	return &Verifier{apiKey: apiKey, tokens: tokens}
}

func (v *Verifier) Verify(_ context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, ErrInvalidCredential
	}
	if v.apiKey != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(v.apiKey)) == 1 {
		return domain.Identity{Kind: domain.IdentityService}, nil
	}
	if v.tokens == nil {
		return domain.Identity{}, ErrInvalidCredential
	}

	sub, err := v.tokens.Subject(credential)
	if err != nil {
		return domain.Identity{}, ErrInvalidCredential
	}
	return domain.Identity{Kind: domain.IdentityUser, Subject: sub}, nil
}
