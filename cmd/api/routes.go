package main

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kedarvyas/mandirapp/internal/constants"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

func (s *Server) router() {
	r := s.Factory.Router

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.Factory.Middleware.LoggerMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.Config.Server.FEURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.Handlers.HealthCheckHandler)

		// Public: tenant bootstrap and the member app's org-code check.
		r.Post("/organizations", s.Handlers.CreateOrganization)
		r.Get("/organizations/code/{orgCode}", s.Handlers.OrganizationByCode)

		// Public: the donation kiosk boots from here.
		r.Get("/kiosk/{orgCode}", s.Handlers.KioskView)

		// Staff auth.
		r.Post("/auth/login", s.Handlers.Login)
		r.Post("/auth/set-password", s.Handlers.SetPassword)
		r.Post("/auth/refresh", s.Handlers.RefreshToken)

		// Member phone sign-in.
		r.Post("/auth/otp/request", s.Handlers.RequestOTP)
		r.Post("/auth/otp/verify", s.Handlers.VerifyOTP)

		// Staff dashboard.
		r.Group(func(r chi.Router) {
			r.Use(s.Factory.Middleware.RequireAuth(token.JWTTypeStaff))

			r.Get("/organization", s.Handlers.CurrentOrganization)

			r.Group(func(r chi.Router) {
				r.Use(s.Factory.Middleware.RequireRole(
					string(constants.RoleOwner),
					string(constants.RoleAdmin),
				))
				r.Post("/staff", s.Handlers.InviteStaff)
				r.Get("/kiosk-settings", s.Handlers.GetKioskSettings)
				r.Put("/kiosk-settings", s.Handlers.UpdateKioskSettings)
			})

			r.Route("/members", func(r chi.Router) {
				r.Get("/", s.Handlers.ListMembers)
				r.Post("/", s.Handlers.CreateMember)
				r.Get("/{id}", s.Handlers.GetMember)
				r.Patch("/{id}", s.Handlers.UpdateMember)
				r.Post("/{id}/activate", s.Handlers.ActivateMember)
			})

			r.Post("/families", s.Handlers.RegisterFamily)
			r.Post("/families/{groupID}/members", s.Handlers.AddFamilyMember)

			r.Route("/check-ins", func(r chi.Router) {
				r.Get("/", s.Handlers.ListRecentCheckIns)
				r.Post("/", s.Handlers.CommitCheckIn)
				r.Post("/resolve", s.Handlers.ResolveQRToken)
			})

			r.Get("/payments", s.Handlers.ListPayments)
			r.Post("/payments", s.Handlers.LogPayment)

			r.Get("/announcements", s.Handlers.ListAnnouncements)
			r.Post("/announcements", s.Handlers.CreateAnnouncement)
			r.Post("/announcements/{id}/publish", s.Handlers.PublishAnnouncement)
		})

		// Member app.
		r.Group(func(r chi.Router) {
			r.Use(s.Factory.Middleware.RequireAuth(token.JWTTypeMember))

			r.Get("/me", s.Handlers.CurrentMember)
			r.Patch("/me", s.Handlers.UpdateCurrentMember)
			r.Post("/me/photo", s.Handlers.UploadMemberPhoto)
			r.Post("/me/push-token", s.Handlers.RegisterPushToken)
			r.Get("/me/announcements", s.Handlers.ListAnnouncements)
		})
	})
}
