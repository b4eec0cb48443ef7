package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kedarvyas/mandirapp/internal/dto"
	svc "github.com/kedarvyas/mandirapp/internal/services"
)

func (h *Handlers) LogPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var input dto.LogPaymentInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	payment, err := h.factory.Services.Payment.Log(r.Context(), caller.OrganizationID, input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, payment, nil)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	caller, ok := svc.AuthFromContext(r.Context())
	if !ok {
		h.unauthorizedError(w, r)
		return
	}

	var memberID *uuid.UUID
	if v := r.URL.Query().Get("member_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.errorResponse(w, r, &svc.ApiError{
				Status:  http.StatusBadRequest,
				Message: "Invalid member_id filter",
			})
			return
		}
		memberID = &id
	}

	payments, err := h.factory.Services.Payment.List(r.Context(), caller.OrganizationID, memberID, h.getLimitParam(r, 50))
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payments, nil)
}
