package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type envelope map[string]any

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"data":   data,
		"status": status,
	}); err != nil {
		return err
	}

	return nil
}

// getLimitParam reads ?limit, defaulting to fallback and clamping to [1,200].
func (h *Handlers) getLimitParam(r *http.Request, fallback uint64) uint64 {
	limit := fallback
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			if n > 200 {
				n = 200
			}
			limit = n
		}
	}
	return limit
}
