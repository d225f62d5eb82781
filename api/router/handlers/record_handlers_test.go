package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estateadmin/database"
	"estateadmin/models"
)

func (e *testEnv) page(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "text/html")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardPage_RendersInquiriesAndAppointments(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")

	rec := env.page(t, "/admin", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"Recent inquiries", "ana@example.com", "Appointments", "Site Viewing"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard is missing %q", want)
		}
	}

	rec = env.page(t, "/admin?appt_search=nothing-matches", cookie)
	body = rec.Body.String()
	if strings.Contains(body, "Site Viewing") || !strings.Contains(body, "ana@example.com") {
		t.Fatalf("appointment search leaked into the wrong table:\n%s", body)
	}
}

func TestDashboardPage_BackendUnauthorizedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "expired")

	rec := env.page(t, "/admin", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d location = %q, want 303 /login", rec.Code, rec.Header().Get("Location"))
	}
	if _, err := database.GetSession(cookie.Value); err == nil {
		t.Fatal("session survived a backend 401 on the dashboard")
	}
}

func TestDashboardPage_AppointmentsUnauthorizedEndsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")
	env.backend.mu.Lock()
	env.backend.failList["appointments"] = http.StatusUnauthorized
	env.backend.mu.Unlock()

	rec := env.page(t, "/admin", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if _, err := database.GetSession(cookie.Value); err == nil {
		t.Fatal("session survived a backend 401 on the appointments table")
	}
}

func TestDashboardPage_ServerErrorShowsBanner(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")
	env.backend.mu.Lock()
	env.backend.failList["inquiries"] = http.StatusInternalServerError
	env.backend.mu.Unlock()

	rec := env.page(t, "/admin", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with an error banner", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Site Viewing") {
		t.Fatal("appointments table missing when inquiries failed")
	}
}

func TestGetRecord(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")

	rec := env.do(t, http.MethodGet, "/api/records/faqs/1", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var row models.Row
	decode(t, rec, &row)
	if row.String("question") != "Pets allowed?" {
		t.Fatalf("record = %v", row)
	}

	if rec := env.do(t, http.MethodGet, "/api/records/nope/1", "", cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown screen status = %d, want 404", rec.Code)
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")

	rec := env.do(t, http.MethodGet, "/api/profile", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var row models.Row
	decode(t, rec, &row)
	if row.String("position") != "Sales Manager" || row.String("user.name") != "Ana Reyes" {
		t.Fatalf("profile = %v", row)
	}
}

func TestPropertyDetailAndAddUnit(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")

	rec := env.do(t, http.MethodGet, "/api/properties/3", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail = %d, body = %s", rec.Code, rec.Body)
	}
	var detail struct {
		Property models.Row   `json:"property"`
		Units    []models.Row `json:"units"`
	}
	decode(t, rec, &detail)
	if detail.Property.String("name") != "Birch Place" || len(detail.Units) != 2 {
		t.Fatalf("detail = %+v", detail)
	}

	rec = env.do(t, http.MethodPost, "/api/properties/3/units", `{"unit_type":"2BR","floor_area":"54"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add unit = %d, body = %s", rec.Code, rec.Body)
	}
	writes := env.backend.Writes()
	if len(writes) != 1 || !strings.HasPrefix(writes[0], "POST units ") || !strings.Contains(writes[0], `"property_id":"3"`) {
		t.Fatalf("writes = %v", writes)
	}
}

func TestCreateRecord_RejectsOversizedUpload(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "tok-1")
	prev := maxUploadBytes
	maxUploadBytes = 1 << 10
	t.Cleanup(func() { maxUploadBytes = prev })

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "Ana")
	fw, _ := mw.CreateFormFile("image", "big.jpg")
	fw.Write(bytes.Repeat([]byte("x"), 8<<10))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/records/testimonials/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413, body = %s", rec.Code, rec.Body)
	}
	if len(env.backend.Writes()) != 0 {
		t.Fatal("oversized upload reached the backend")
	}
}
