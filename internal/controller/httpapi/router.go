// Package httpapi is the delivery layer: a JSON API over the scheduling
// engine. The public surface serves open availability per coach slug;
// everything else requires the coach's own session.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/coaches/{slug}", func(r chi.Router) {
		r.Get("/", h.GetCoach)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.GetSession)

		r.Get("/schedule", h.GetSchedule)
		r.Get("/calendar", h.GetCalendar)
		r.Get("/schedule/export.ics", h.ExportICS)
		r.Post("/schedule/import", h.ImportICS)
		r.Post("/schedule/dedupe", h.RemoveDuplicates)

		r.Post("/appointments", h.CreateAppointment)
		r.Put("/appointments/{id}", h.UpdateAppointment)
		r.Delete("/appointments/{id}", h.DeleteAppointment)

		r.Post("/availability", h.CreateAvailability)
		r.Put("/availability/{id}", h.UpdateAvailability)
		r.Delete("/availability/{id}", h.DeleteAvailability)
	})

	return r
}
