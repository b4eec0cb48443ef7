package handlers

import (
	"net/http"

	"github.com/kedarvyas/mandirapp/internal/dto"
)

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input dto.LoginInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := h.factory.Services.Staff.Login(r.Context(), &input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp, nil)
}

func (h *Handlers) SetPassword(w http.ResponseWriter, r *http.Request) {
	var input dto.SetPasswordInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := h.factory.Services.Staff.SetPassword(r.Context(), &input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp, nil)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var input dto.RefreshInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := h.factory.Services.Staff.Refresh(r.Context(), &input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp, nil)
}

// RequestOTP starts the member phone sign-in flow. It always returns 202 so
// the endpoint cannot be used to probe which phone numbers are registered.
func (h *Handlers) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var input dto.RequestOTPInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.factory.Services.Identity.RequestOTP(r.Context(), input); err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, envelope{"message": "Verification code sent"}, nil)
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var input dto.VerifyOTPInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := h.factory.Services.Identity.VerifyOTP(r.Context(), input)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp, nil)
}
