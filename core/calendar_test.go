package core

import (
	"context"
	"errors"
	"testing"

	"estateadmin/models"
)

func TestToEvents(t *testing.T) {
	events := ToEvents([]models.Row{{
		"id":         float64(4),
		"type":       "Site Viewing",
		"date":       "2024-06-01",
		"time":       "10:30",
		"properties": "Alder Residences",
		"name":       "Ana Reyes",
		"email":      "ana@example.com",
		"status":     "Pending",
	}})
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	e := events[0]
	if e.ID != "4" || e.Title != "Site Viewing" || e.Start != "2024-06-01T10:30" {
		t.Fatalf("event = %+v", e)
	}
	if e.Properties != "Alder Residences" || e.Name != "Ana Reyes" || e.Status != "Pending" {
		t.Fatalf("event details = %+v", e)
	}
	if got := ToEvents(nil); got == nil || len(got) != 0 {
		t.Fatalf("ToEvents(nil) = %#v, want empty slice", got)
	}
}

func TestStore_EventsKeepsCachedRowsOnFailure(t *testing.T) {
	api := newFakeAPI()
	api.setList(AppointmentsEndpoint, []models.Row{{"id": 1, "type": "Viewing", "date": "2024-06-01", "time": "09:00"}})
	store := newTestStore(api)
	ctx := context.Background()

	if _, err := store.Events(ctx, testSession); err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	if err := store.AcceptAppointment(ctx, testSession, "1"); err != nil {
		t.Fatalf("AcceptAppointment returned error: %v", err)
	}

	api.mu.Lock()
	api.listErr = errors.New("backend down")
	api.mu.Unlock()

	events, err := store.Events(ctx, testSession)
	if err == nil {
		t.Fatal("Events returned nil error after a failed refetch")
	}
	if len(events) != 1 || events[0].Title != "Viewing" {
		t.Fatalf("events = %+v, want the cached appointment", events)
	}
}

func TestStore_AcceptDeclineStatuses(t *testing.T) {
	api := newFakeAPI()
	store := newTestStore(api)
	ctx := context.Background()
	if err := store.AcceptAppointment(ctx, testSession, "1"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeclineAppointment(ctx, testSession, "2"); err != nil {
		t.Fatal(err)
	}
	calls := api.Calls()
	got := []string{
		calls[0].Payload.(models.StatusChangeRequest).Status,
		calls[1].Payload.(models.StatusChangeRequest).Status,
	}
	if got[0] != StatusAccepted || got[1] != StatusDeclined {
		t.Fatalf("statuses = %v", got)
	}
	if calls[0].Entity != "appointments/change-status" {
		t.Fatalf("path = %q", calls[0].Entity)
	}
}
