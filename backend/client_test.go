package backend

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"estateadmin/models"

	"github.com/andybalholm/brotli"
)

var testSess = models.Session{ID: "s1", Token: "secret-token"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestClient_ListSendsTokenAndDecodesRecords(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"records":[{"id":1,"name":"Alder"},{"id":2,"name":"Zinnia"}]}`)
	})

	rows, err := c.List(context.Background(), testSess, "properties")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/api/properties" {
		t.Fatalf("path = %q, want /api/properties", gotPath)
	}
	if len(rows) != 2 || rows[1].String("name") != "Zinnia" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestClient_ListAcceptsBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":7}]`)
	})
	rows, err := c.List(context.Background(), testSess, "faqs")
	if err != nil || len(rows) != 1 || rows[0].ID() != "7" {
		t.Fatalf("rows = %v, err = %v", rows, err)
	}
}

func TestClient_ListRejectsNonArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"records":"nope"}`)
	})
	_, err := c.List(context.Background(), testSess, "faqs")
	if !IsKind(err, KindNetwork) {
		t.Fatalf("error = %v, want network kind", err)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    Kind
		message string
		http    int
	}{
		{http.StatusUnauthorized, `{"message":"Unauthenticated."}`, KindUnauthorized, MessageUnauthorized, http.StatusUnauthorized},
		{http.StatusTooManyRequests, ``, KindRateLimited, MessageRateLimited, http.StatusTooManyRequests},
		{http.StatusUnprocessableEntity, `{"message":"The headline field is required."}`, KindServer, "The headline field is required.", http.StatusUnprocessableEntity},
		{http.StatusInternalServerError, `<html>oops</html>`, KindServer, MessageUnexpected, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			io.WriteString(w, tt.body)
		})
		_, err := c.Create(context.Background(), testSess, "articles", strings.NewReader("x"), "text/plain")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: error = %v, want *APIError", tt.status, err)
		}
		if apiErr.Kind != tt.kind || apiErr.UserMessage() != tt.message || apiErr.HTTPStatus() != tt.http {
			t.Errorf("status %d: kind=%v message=%q http=%d", tt.status, apiErr.Kind, apiErr.UserMessage(), apiErr.HTTPStatus())
		}
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.List(context.Background(), testSess, "faqs")
	if !IsKind(err, KindNetwork) {
		t.Fatalf("error = %v, want network kind", err)
	}
	if got := UserMessage(err); got != MessageNetwork {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestClient_DecodesCompressedBodies(t *testing.T) {
	payload := `{"records":[{"id":1}]}`
	var br, gz bytes.Buffer
	bw := brotli.NewWriter(&br)
	bw.Write([]byte(payload))
	bw.Close()
	gw := gzip.NewWriter(&gz)
	gw.Write([]byte(payload))
	gw.Close()

	for enc, body := range map[string][]byte{"br": br.Bytes(), "gzip": gz.Bytes()} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), enc) {
				t.Errorf("Accept-Encoding = %q, missing %s", r.Header.Get("Accept-Encoding"), enc)
			}
			w.Header().Set("Content-Encoding", enc)
			w.Write(body)
		})
		rows, err := c.List(context.Background(), testSess, "faqs")
		if err != nil || len(rows) != 1 {
			t.Fatalf("%s: rows = %v, err = %v", enc, rows, err)
		}
	}
}

func TestClient_UpdateMethod(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		io.WriteString(w, `{"message":"ok"}`)
	})
	ctx := context.Background()
	if _, err := c.Update(ctx, testSess, "articles", "3", strings.NewReader("--x--"), "multipart/form-data; boundary=x"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Update(ctx, testSess, "testimonials", "4", strings.NewReader(`{}`), "application/json"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, testSess, "questions", "5"); err != nil {
		t.Fatal(err)
	}
	want := []string{"POST /api/articles/3", "PUT /api/testimonials/4", "DELETE /api/questions/5"}
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Fatalf("requests = %v, want %v", methods, want)
	}
}

func TestClient_Counts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard/get-counts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"records":{"properties":12,"inquiries":4,"appoitnment":3,"application":2}}`)
	})
	got, err := c.Counts(context.Background(), testSess)
	if err != nil {
		t.Fatal(err)
	}
	want := models.DashboardCounts{Properties: 12, Inquiries: 4, Viewings: 3, Applications: 2}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", defaultBaseURL, false},
		{"api.example.com/api/", "http://api.example.com/api", false},
		{"https://api.example.com/api?x=1#frag", "https://api.example.com/api", false},
		{"http:///api", "", true},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBaseURL(%q) returned nil error", tt.in)
			}
			continue
		}
		if err != nil || u.String() != tt.want {
			t.Errorf("parseBaseURL(%q) = %v, %v; want %q", tt.in, u, err, tt.want)
		}
	}
}
