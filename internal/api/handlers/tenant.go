package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/service"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type deleteTenantResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "current_user_sub")
	if !ok {
		return
	}

	var req domain.TenantAttributes
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.svc.CreateTenant(r.Context(), subject, req)
	if err != nil {
		writeServiceError(w, err, "failed to create tenant")
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	tenants, err := h.svc.ListTenantsForSubject(r.Context(), subject)
	if err != nil {
		writeServiceError(w, err, "internal server error occurred while listing tenants")
		return
	}

	writeJSON(w, http.StatusOK, tenants)
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	view, err := h.svc.GetTenant(r.Context(), subject, chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, err, "failed to get tenant")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	var req domain.TenantUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.svc.UpdateTenant(r.Context(), subject, chi.URLParam(r, "tenantID"), req)
	if err != nil {
		writeServiceError(w, err, "failed to update tenant")
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	tenantID := chi.URLParam(r, "tenantID")
	if err := h.svc.DeleteTenant(r.Context(), subject, tenantID); err != nil {
		writeServiceError(w, err, "failed to delete tenant")
		return
	}

	writeJSON(w, http.StatusOK, deleteTenantResponse{ID: tenantID, Deleted: true})
}

func (h *TenantHandler) Members(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(r.Context(), subject, chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, err, "failed to list members")
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *TenantHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFor(w, r, "member_sub")
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	if email == "" {
		writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	inv, err := h.svc.InviteMember(r.Context(), subject, chi.URLParam(r, "tenantID"), email)
	if err != nil {
		writeServiceError(w, err, "failed to invite member")
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

func (h *TenantHandler) Environments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Environments())
}

func (h *TenantHandler) Roles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Roles())
}
