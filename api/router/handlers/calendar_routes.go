package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterCalendarRoutes(r chi.Router) {
	r.Route("/api/calendar/events", func(r chi.Router) {
		r.Get("/", CalendarEventsHandler)
		r.Post("/{id}/accept", AcceptAppointmentHandler)
		r.Post("/{id}/decline", DeclineAppointmentHandler)
	})
}
