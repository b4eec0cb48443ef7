package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kedarvyas/mandirapp/internal/services"
)

func (h *Handlers) logError(r *http.Request, err error) {
	h.factory.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
}

func (h *Handlers) errorResponse(w http.ResponseWriter, r *http.Request, message any) {
	status := http.StatusInternalServerError
	body := map[string]any{
		"message": "Internal server error",
		"status":  status,
	}

	if apiErr, ok := message.(*services.ApiError); ok {
		status = apiErr.Status
		body["message"] = apiErr.Message
		body["status"] = status
		if apiErr.Errors != nil {
			body["errors"] = apiErr.Errors
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logError(r, fmt.Errorf("failed to write error response: %w", err))
		return
	}

	if status >= http.StatusInternalServerError {
		h.logError(r, fmt.Errorf("%v", message))
	}
}

func (h *Handlers) unauthorizedError(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, &services.ApiError{
		Status:  http.StatusUnauthorized,
		Message: "You must be signed in to access this resource",
	})
}
