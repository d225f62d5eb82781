package handlers

import (
	"net/http"

	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/go-chi/chi/v5"
)

// CalendarEventsHandler returns the appointments shaped as calendar events.
func CalendarEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := deps.Store.Events(r.Context(), mustSession(r))
	if err != nil {
		if len(events) == 0 || !servesStale(err) {
			writeFailure(w, r, "CalendarEventsHandler", err)
			return
		}
		logger.Warn("CalendarEventsHandler: serving cached appointments after refetch failed: %v", err)
		w.Header().Set("X-Data-Stale", "true")
	}
	writeJSON(w, http.StatusOK, events)
}

// AcceptAppointmentHandler marks an appointment Accepted.
func AcceptAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := deps.Store.AcceptAppointment(r.Context(), mustSession(r), id); err != nil {
		writeFailure(w, r, "AcceptAppointmentHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Appointment " + core.StatusAccepted + "."})
}

// DeclineAppointmentHandler marks an appointment Declined.
func DeclineAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := deps.Store.DeclineAppointment(r.Context(), mustSession(r), id); err != nil {
		writeFailure(w, r, "DeclineAppointmentHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Appointment " + core.StatusDeclined + "."})
}
