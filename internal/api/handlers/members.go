package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/dto"
	svc "github.com/kedarvyas/mandirapp/internal/services"
)

func (h *Handlers) memberIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid member id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.CreateMemberInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	created, err := h.factory.Services.Member.Create(r.Context(), caller.OrganizationID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created, nil)
}

func (h *Handlers) RegisterFamily(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.RegisterFamilyInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	family, err := h.factory.Services.Member.RegisterFamily(r.Context(), caller.OrganizationID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, family, nil)
}

func (h *Handlers) AddFamilyMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		h.errorResponse(w, r, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid family group id",
		})
		return
	}

	var input dto.FamilyDependent
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.Member.AddFamilyMember(r.Context(), caller.OrganizationID, groupID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, member, nil)
}

// ListMembers returns all members, or a capped name/phone search when
// ?search= is present.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	if query := r.URL.Query().Get("search"); query != "" {
		members, err := h.factory.Services.Member.Search(r.Context(), caller.OrganizationID, query)
		if err != nil {
			h.errorResponse(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, members, nil)
		return
	}

	members, err := h.factory.Services.Member.List(r.Context(), caller.OrganizationID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, members, nil)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, ok := h.memberIDParam(w, r)
	if !ok {
		return
	}

	member, err := h.factory.Services.Member.Get(r.Context(), caller.OrganizationID, id)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, ok := h.memberIDParam(w, r)
	if !ok {
		return
	}

	var input dto.UpdateMemberInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.Member.Update(r.Context(), caller.OrganizationID, id, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) ActivateMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, ok := h.memberIDParam(w, r)
	if !ok {
		return
	}

	member, err := h.factory.Services.Member.Activate(r.Context(), caller.OrganizationID, id)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

// CurrentMember serves the member app's own profile, including the QR token
// the check-in screen renders.
func (h *Handlers) CurrentMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	member, err := h.factory.Services.Member.Get(r.Context(), caller.OrganizationID, caller.ID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

// UpdateCurrentMember lets a signed-in member complete or edit their own
// profile. Status is staff-controlled and ignored here.
func (h *Handlers) UpdateCurrentMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.UpdateMemberInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	input.Status = nil

	member, err := h.factory.Services.Member.Update(r.Context(), caller.OrganizationID, caller.ID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) UploadMemberPhoto(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.UploadPhotoInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.Member.UploadPhoto(r.Context(), caller.OrganizationID, caller.ID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.RegisterPushTokenInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	err := h.factory.Services.Member.RegisterPushToken(r.Context(), caller.OrganizationID, caller.ID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{"message": "Push token registered"}, nil)
}
