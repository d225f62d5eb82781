package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estateadmin/api/router/handlers"
	"estateadmin/version"
)

func TestNewRouter_PublicRoutes(t *testing.T) {
	handlers.Setup(handlers.Deps{})
	r := NewRouter()

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{"/", http.StatusFound, "/admin"},
		{"/admin", http.StatusSeeOther, "/login"},
		{"/login", http.StatusOK, ""},
		{"/does-not-exist", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.status)
		}
		if tt.location != "" && rec.Header().Get("Location") != tt.location {
			t.Errorf("GET %s location = %q, want %q", tt.path, rec.Header().Get("Location"), tt.location)
		}
	}
}

func TestNewRouter_Version(t *testing.T) {
	handlers.Setup(handlers.Deps{})
	rec := httptest.NewRecorder()
	NewRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if body["version"] != version.AppVersion {
		t.Fatalf("version = %q, want %q", body["version"], version.AppVersion)
	}
}
