package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/dto"
	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

func (h *Handlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.CreateAnnouncementInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	announcement, err := h.factory.Services.Announcement.Create(r.Context(), caller.OrganizationID, caller.ID, caller.Role, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, announcement, nil)
}

func (h *Handlers) PublishAnnouncement(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, &svc.ApiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid announcement id",
		})
		return
	}

	announcement, err := h.factory.Services.Announcement.Publish(r.Context(), caller.OrganizationID, id, caller.Role)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, announcement, nil)
}

// ListAnnouncements shows drafts to staff; members only ever see published
// announcements.
func (h *Handlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	publishedOnly := caller.Type != token.JWTTypeStaff

	announcements, err := h.factory.Services.Announcement.List(r.Context(), caller.OrganizationID, publishedOnly)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, announcements, nil)
}
