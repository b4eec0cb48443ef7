package handlers

import (
	"net/http"

	"github.com/kedarvyas/mandirapp/internal/dto"
	svc "github.com/kedarvyas/mandirapp/internal/services"
)

// ResolveQRToken maps a scanned code to a member. Exact match only.
func (h *Handlers) ResolveQRToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.ResolveTokenInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	member, err := h.factory.Services.CheckIn.ResolveToken(r.Context(), caller.OrganizationID, input.QRToken)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member, nil)
}

func (h *Handlers) CommitCheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.CheckInInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	result, err := h.factory.Services.CheckIn.Commit(r.Context(), caller.OrganizationID, input.MemberID)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, result, nil)
}

func (h *Handlers) ListRecentCheckIns(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	checkIns, err := h.factory.Services.CheckIn.ListRecent(r.Context(), caller.OrganizationID, h.getLimitParam(r, 50))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, checkIns, nil)
}
