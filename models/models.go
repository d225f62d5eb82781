package models

import (
	"database/sql"
	"time"
)

// NullString is a helper function to create a sql.NullString from a string.
// If the input string is empty, it returns a NullString with Valid set to false.
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{String: "", Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// Session is the identity the dashboard acts under when it talks to the backend API.
// It is resolved once per request and passed explicitly to everything that needs it.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// LoginRequest is the payload accepted by POST /login.
type LoginRequest struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// FormDraft holds the in-progress state of a multi-step form between page visits.
type FormDraft struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	FormKey   string    `json:"form_key"`
	Data      string    `json:"data"` // raw JSON document, opaque to the dashboard
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscriber is one newsletter recipient returned by the backend.
type Subscriber struct {
	Email string `json:"email"`
}

// StatusChangeRequest is posted to <entity>/change-status on the backend.
type StatusChangeRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DashboardCounts mirrors the payload of dashboard/get-counts.
type DashboardCounts struct {
	Properties   int64 `json:"properties"`
	Inquiries    int64 `json:"inquiries"`
	Viewings     int64 `json:"viewings"`
	Applications int64 `json:"applications"`
}

// CalendarEvent is an appointment shaped for the calendar widget.
type CalendarEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	Properties string `json:"properties"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Message    string `json:"message"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	Name       string `json:"name"`
}

// RowGroup is a labelled bucket of rows, e.g. certificates grouped by month.
type RowGroup struct {
	Label string `json:"label"`
	Rows  []Row  `json:"rows"`
}
