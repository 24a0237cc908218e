package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/confreg/confreg/internal/handlers"
)

func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	// Registrant-facing
	r.Post("/api/forms/{id}/register", handlers.RegisterSubmit)
	r.Get("/api/registrations/token/{token}", handlers.RegistrationByToken)
	r.Post("/api/registrations/token/{token}/withdraw", handlers.WithdrawByToken)
	r.Get("/api/registrations/{id}/files/{fieldID}/{filename}", handlers.RegistrationFile)
	r.Get("/api/events/{id}/participants", handlers.ParticipantsList)
	r.Get("/tickets/{token}.png", handlers.TicketQR)

	// Ticket scans land here; check-in itself needs the admin token.
	r.Group(func(ad chi.Router) {
		ad.Use(handlers.RequireAdmin)
		ad.Get("/checkin", handlers.CheckinLookup)
		ad.Post("/checkin", handlers.CheckinConfirm)
	})

	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(handlers.RequireAdmin)

		ar.Get("/registrations/{id}", handlers.RegistrationShow)
		ar.Post("/registrations/{id}/approve", handlers.AdminRegApprove)
		ar.Post("/registrations/{id}/reject", handlers.AdminRegReject)
		ar.Post("/registrations/{id}/withdraw", handlers.AdminRegWithdraw)
		ar.Post("/registrations/{id}/reset", handlers.AdminRegReset)
		ar.Post("/registrations/{id}/paid", handlers.AdminRegMarkPaid)
		ar.Post("/registrations/{id}/unpaid", handlers.AdminRegMarkUnpaid)
		ar.Post("/registrations/{id}/checkin", handlers.AdminRegCheckin)
		ar.Post("/registrations/{id}/checkout", handlers.AdminRegCheckout)
		ar.Post("/registrations/{id}/delete", handlers.AdminRegDelete)
		ar.Post("/registrations/{id}/hidden", handlers.AdminRegSetHidden)

		ar.Get("/events/{id}/registrations.csv", handlers.AdminRegistrationsCSV)
	})

	return r
}
