package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// KioskView is the unauthenticated endpoint a donation kiosk loads on boot.
// An unknown or inactive org code and a disabled kiosk each map to a
// full-screen state; the device shows them until reconfigured.
func (h *Handlers) KioskView(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "orgCode")

	org, settings, err := h.factory.Services.Organization.KioskView(r.Context(), code)
	if err != nil {
		h.errorResponse(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{
		"organization": org,
		"kiosk":        settings,
	}, nil)
}
