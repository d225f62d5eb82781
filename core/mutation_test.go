package core

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"estateadmin/backend"
	"estateadmin/models"
)

func readParts(t *testing.T, body []byte, contentType string) (fields map[string]string, order []string, files map[string]string) {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) returned error: %v", contentType, err)
	}
	fields, files = map[string]string{}, map[string]string{}
	r := multipart.NewReader(strings.NewReader(string(body)), params["boundary"])
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart returned error: %v", err)
		}
		data, _ := io.ReadAll(p)
		order = append(order, p.FormName())
		if p.FileName() != "" {
			files[p.FormName()] = p.FileName() + ":" + string(data)
			continue
		}
		fields[p.FormName()] = string(data)
	}
	return fields, order, files
}

func TestBuildMultipart_OrderAndOverride(t *testing.T) {
	body, ct, err := BuildMultipart(
		map[string]string{"name": "Alder", "area": "45", MethodOverrideField: "DELETE"},
		[]FilePart{{Field: "image", Filename: "a.png", Content: strings.NewReader("PNG")}},
		http.MethodPut,
	)
	if err != nil {
		t.Fatalf("BuildMultipart returned error: %v", err)
	}
	fields, order, files := readParts(t, body.Bytes(), ct)

	want := []string{"area", "name", "image", MethodOverrideField}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("part order = %v, want %v", order, want)
	}
	if fields[MethodOverrideField] != http.MethodPut {
		t.Fatalf("_method = %q, want PUT", fields[MethodOverrideField])
	}
	if files["image"] != "a.png:PNG" {
		t.Fatalf("image part = %q", files["image"])
	}
}

func TestBuildMultipart_NoOverride(t *testing.T) {
	body, ct, err := BuildMultipart(map[string]string{"name": "x"}, nil, "")
	if err != nil {
		t.Fatalf("BuildMultipart returned error: %v", err)
	}
	fields, _, _ := readParts(t, body.Bytes(), ct)
	if _, ok := fields[MethodOverrideField]; ok {
		t.Fatal("unexpected _method field")
	}
}

func TestForm_RejectsConcurrentSubmit(t *testing.T) {
	var f Form
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- f.Submit(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if !f.Busy() {
		t.Fatal("form not busy during submission")
	}
	if err := f.Submit(context.Background(), func(ctx context.Context) error { return nil }); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit error = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	if f.Busy() {
		t.Fatal("form still busy after submission")
	}
	if err := f.Submit(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("Submit after release returned error: %v", err)
	}
}

func TestStore_CreateInvalidatesOnSuccess(t *testing.T) {
	api := newFakeAPI()
	api.setList("articles", []models.Row{{"id": 1}})
	api.writeBody = []byte(`{"message":"Article added","record":{"id":2,"headline":"New"}}`)
	store := newTestStore(api)
	screen, _ := NewRegistry(DefaultScreens()).Get("news")
	ctx := context.Background()

	if _, err := store.Rows(ctx, testSession, "articles"); err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	api.setList("articles", []models.Row{{"id": 1}, {"id": 2}})

	res, err := store.Create(ctx, testSession, screen, map[string]string{"headline": "New"}, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Message != "Article added" || res.Record.ID() != "2" {
		t.Fatalf("result = %+v", res)
	}

	rows, err := store.Rows(ctx, testSession, "articles")
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows after create = %d, want 2 (collection refetched)", len(rows))
	}

	var create apiCall
	for _, c := range api.Calls() {
		if c.Method == "CREATE" {
			create = c
		}
	}
	if create.Token != "tok-1" || !strings.HasPrefix(create.ContentType, "multipart/form-data") {
		t.Fatalf("create call = %+v", create)
	}
	fields, _, _ := readParts(t, create.Body, create.ContentType)
	if _, ok := fields[MethodOverrideField]; ok {
		t.Fatal("create must not carry a method override")
	}
}

func TestStore_FailedMutationKeepsRows(t *testing.T) {
	api := newFakeAPI()
	api.setList("articles", []models.Row{{"id": 1}})
	store := newTestStore(api)
	screen, _ := NewRegistry(DefaultScreens()).Get("news")
	ctx := context.Background()

	if _, err := store.Rows(ctx, testSession, "articles"); err != nil {
		t.Fatal(err)
	}
	before := api.listCount

	api.writeErr = &backend.APIError{Kind: backend.KindServer, Status: 422, Message: "Headline is required"}
	_, err := store.Create(ctx, testSession, screen, map[string]string{}, nil)
	if err == nil {
		t.Fatal("Create returned nil error")
	}
	if got := ErrorMessage(err); got != "Headline is required" {
		t.Fatalf("ErrorMessage = %q", got)
	}

	rows, err := store.Rows(ctx, testSession, "articles")
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows = %v, %v; want cached row", rows, err)
	}
	if api.listCount != before {
		t.Fatalf("failed mutation triggered a refetch")
	}
}

func TestStore_UpdateTransport(t *testing.T) {
	api := newFakeAPI()
	store := newTestStore(api)
	reg := NewRegistry(DefaultScreens())
	ctx := context.Background()

	news, _ := reg.Get("news")
	if _, err := store.Update(ctx, testSession, news, "7", map[string]string{"headline": "Edited"}, nil); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	testimonials, _ := reg.Get("testimonials")
	if _, err := store.Update(ctx, testSession, testimonials, "8", map[string]string{"status": "shown"}, nil); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	calls := api.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	fields, _, _ := readParts(t, calls[0].Body, calls[0].ContentType)
	if fields[MethodOverrideField] != http.MethodPut || fields["headline"] != "Edited" {
		t.Fatalf("multipart update fields = %v", fields)
	}
	if calls[1].ContentType != "application/json" || string(calls[1].Body) != `{"status":"shown"}` {
		t.Fatalf("json update = %q %q", calls[1].ContentType, calls[1].Body)
	}
}

func TestStore_ConcurrentSubmitIsBusy(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	store := newTestStore(api)
	screen, _ := NewRegistry(DefaultScreens()).Get("news")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := store.Create(ctx, testSession, screen, map[string]string{"headline": "A"}, nil)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(api.Calls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first submission never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := store.Create(ctx, testSession, screen, map[string]string{"headline": "B"}, nil)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second Create error = %v, want ErrBusy", err)
	}
	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
}

func TestStore_DeleteAndChangeStatus(t *testing.T) {
	api := newFakeAPI()
	store := newTestStore(api)
	screen, _ := NewRegistry(DefaultScreens()).Get("faqs")
	ctx := context.Background()

	if err := store.Delete(ctx, testSession, screen, "3"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.ChangeStatus(ctx, testSession, "questions", "4", "in-active"); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}
	calls := api.Calls()
	if calls[0].Method != "DELETE" || calls[0].Entity != "questions" || calls[0].ID != "3" {
		t.Fatalf("delete call = %+v", calls[0])
	}
	req, ok := calls[1].Payload.(models.StatusChangeRequest)
	if calls[1].Entity != "questions/change-status" || !ok || req.ID != "4" || req.Status != "in-active" {
		t.Fatalf("status call = %+v", calls[1])
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrBusy, "Please wait for the current submission to finish."},
		{&backend.APIError{Kind: backend.KindRateLimited, Status: 429}, backend.MessageRateLimited},
		{errors.New("boom"), backend.MessageUnexpected},
	}
	for _, tt := range tests {
		if got := ErrorMessage(tt.err); got != tt.want {
			t.Errorf("ErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
