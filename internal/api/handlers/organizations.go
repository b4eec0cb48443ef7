package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kedarvyas/mandirapp/internal/dto"
	"github.com/kedarvyas/mandirapp/internal/kiosk"
	svc "github.com/kedarvyas/mandirapp/internal/services"
)

// CreateOrganization bootstraps a new tenant with its first admin staff
// account. Unauthenticated by design; this is the signup surface.
func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateOrganizationInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	org, admin, err := h.factory.Services.Organization.CreateWithAdmin(r.Context(), input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope{
		"organization": org,
		"admin":        admin,
	}, nil)
}

// OrganizationByCode is the public org-code validation endpoint the member
// app calls during onboarding.
func (h *Handlers) OrganizationByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "orgCode")

	org, err := h.factory.Services.Organization.GetByCode(r.Context(), code)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, org, nil)
}

func (h *Handlers) CurrentOrganization(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	org, err := h.factory.Services.Organization.GetByID(r.Context(), caller.OrganizationID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, org, nil)
}

func (h *Handlers) InviteStaff(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.CreateStaffInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	org, err := h.factory.Services.Organization.GetByID(r.Context(), caller.OrganizationID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	staff, err := h.factory.Services.Staff.Invite(r.Context(), caller.OrganizationID, org.Name, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, staff, nil)
}

func (h *Handlers) GetKioskSettings(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	settings, err := h.factory.Services.Organization.KioskSettings(r.Context(), caller.OrganizationID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settings, nil)
}

func (h *Handlers) UpdateKioskSettings(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input kiosk.Settings
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	updated, err := h.factory.Services.Organization.UpdateKioskSettings(r.Context(), caller.OrganizationID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated, nil)
}
