package core

import (
	"context"

	"estateadmin/models"
)

const (
	AppointmentsEndpoint = "appointments"
	StatusAccepted       = "Accepted"
	StatusDeclined       = "Declined"
)

// ToEvents shapes appointment rows for the calendar widget. The event title is
// the appointment type and its start is date and time joined with "T".
func ToEvents(rows []models.Row) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, models.CalendarEvent{
			ID:         r.ID(),
			Title:      r.String("type"),
			Start:      r.String("date") + "T" + r.String("time"),
			Properties: r.String("properties"),
			Date:       r.String("date"),
			Time:       r.String("time"),
			Message:    r.String("message"),
			Phone:      r.String("phone"),
			Email:      r.String("email"),
			Status:     r.String("status"),
			Name:       r.String("name"),
		})
	}
	return events
}

// Events loads the session's appointments as calendar events. On a failed refetch
// the previously cached appointments are returned with the error.
func (s *Store) Events(ctx context.Context, sess models.Session) ([]models.CalendarEvent, error) {
	rows, err := s.Rows(ctx, sess, AppointmentsEndpoint)
	return ToEvents(rows), err
}

// AcceptAppointment marks an appointment Accepted.
func (s *Store) AcceptAppointment(ctx context.Context, sess models.Session, id string) error {
	return s.ChangeStatus(ctx, sess, AppointmentsEndpoint, id, StatusAccepted)
}

// DeclineAppointment marks an appointment Declined.
func (s *Store) DeclineAppointment(ctx context.Context, sess models.Session, id string) error {
	return s.ChangeStatus(ctx, sess, AppointmentsEndpoint, id, StatusDeclined)
}
