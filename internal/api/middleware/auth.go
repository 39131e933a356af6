package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stayforge/auth-server/internal/domain"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	identitySlotKey    contextKey = "identity_slot"
)

// identitySlot lets middleware that wraps Authenticate observe the identity
// resolved further down the chain.
type identitySlot struct {
	id  domain.Identity
	set bool
}

// StatusMissingCredential is returned when no Authorization header is sent.
const StatusMissingCredential = 444

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(domain.Identity)
	return id, ok
}

// WithIdentity stores id in ctx. Used by Authenticate and by tests.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	if slot, ok := ctx.Value(identitySlotKey).(*identitySlot); ok {
		slot.id, slot.set = id, true
	}
	return context.WithValue(ctx, identityContextKey, id)
}

// Authenticate requires an Authorization header carrying either the service
// API key or a signed access token, optionally prefixed with "Bearer ".
func Authenticate(verifier domain.IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				writeError(w, StatusMissingCredential, "missing authorization header")
				return
			}

			credential := authHeader
			if scheme, rest, found := strings.Cut(authHeader, " "); found && strings.EqualFold(scheme, "Bearer") {
				credential = strings.TrimSpace(rest)
			}

			identity, err := verifier.Verify(r.Context(), credential)
			if err != nil {
				writeError(w, http.StatusForbidden, "invalid authorization")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
