package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	svc "github.com/kedarvyas/mandirapp/internal/services"
)

// LoggerMiddleware logs each request through the shared zerolog instance.
func (m *Middleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		var callerID string
		if caller, ok := svc.AuthFromContext(r.Context()); ok {
			callerID = caller.ID.String()
		}

		m.Logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Str("caller_id", callerID).
			Msg("incoming_request")
	})
}
