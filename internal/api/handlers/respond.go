package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stayforge/auth-server/internal/api/middleware"
	"github.com/stayforge/auth-server/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain error kinds to HTTP statuses. Internal
// failures are reported with the generic message only.
func writeServiceError(w http.ResponseWriter, err error, internalMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, internalMsg)
	}
}

// subjectFor resolves the subject a request acts for. A user identity always
// acts for its own subject and may not name another one in the query. The
// service identity must name the subject in the query parameter.
func subjectFor(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	requested := r.URL.Query().Get(param)

	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}

	switch id.Kind {
	case domain.IdentityUser:
		if requested != "" && requested != id.Subject {
			writeError(w, http.StatusForbidden, param+" does not match the authenticated subject")
			return "", false
		}
		return id.Subject, true
	case domain.IdentityService:
		if requested == "" {
			writeError(w, http.StatusUnprocessableEntity, param+" is required")
			return "", false
		}
		return requested, true
	}

	writeError(w, http.StatusUnauthorized, "unauthorized")
	return "", false
}
