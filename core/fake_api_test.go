package core

import (
	"context"
	"io"
	"sync"
	"time"

	"estateadmin/backend"
	"estateadmin/models"
)

type apiCall struct {
	Method      string
	Entity      string
	ID          string
	Body        []byte
	ContentType string
	Payload     any
	Token       string
}

// fakeAPI records calls and serves canned collections.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []apiCall
	lists     map[string][]models.Row
	records   map[string]models.Row
	listErr   error
	writeErr  error
	writeBody []byte
	block     chan struct{}
	listCount int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{lists: map[string][]models.Row{}, records: map[string]models.Row{}}
}

func (f *fakeAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]apiCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) setList(entity string, rows []models.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[entity] = rows
}

func (f *fakeAPI) List(ctx context.Context, sess models.Session, entity string) ([]models.Row, error) {
	f.record(apiCall{Method: "LIST", Entity: entity, Token: sess.Token})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCount++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.lists[entity], nil
}

func (f *fakeAPI) Get(ctx context.Context, sess models.Session, entity, id string) (models.Row, error) {
	f.record(apiCall{Method: "GET", Entity: entity, ID: id, Token: sess.Token})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if row, ok := f.records[entity+"/"+id]; ok {
		return row, nil
	}
	return models.Row{"id": id}, nil
}

func (f *fakeAPI) write(ctx context.Context, c apiCall, body io.Reader) ([]byte, error) {
	if body != nil {
		c.Body, _ = io.ReadAll(body)
	}
	f.record(c)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if f.writeBody != nil {
		return f.writeBody, nil
	}
	return []byte(`{"message":"ok"}`), nil
}

func (f *fakeAPI) Create(ctx context.Context, sess models.Session, entity string, body io.Reader, contentType string) ([]byte, error) {
	return f.write(ctx, apiCall{Method: "CREATE", Entity: entity, ContentType: contentType, Token: sess.Token}, body)
}

func (f *fakeAPI) Update(ctx context.Context, sess models.Session, entity, id string, body io.Reader, contentType string) ([]byte, error) {
	return f.write(ctx, apiCall{Method: "UPDATE", Entity: entity, ID: id, ContentType: contentType, Token: sess.Token}, body)
}

func (f *fakeAPI) Delete(ctx context.Context, sess models.Session, entity, id string) error {
	_, err := f.write(ctx, apiCall{Method: "DELETE", Entity: entity, ID: id, Token: sess.Token}, nil)
	return err
}

func (f *fakeAPI) PostJSON(ctx context.Context, sess models.Session, path string, payload any) ([]byte, error) {
	return f.write(ctx, apiCall{Method: "POST", Entity: path, Payload: payload, Token: sess.Token}, nil)
}

func (f *fakeAPI) Counts(ctx context.Context, sess models.Session) (models.DashboardCounts, error) {
	f.record(apiCall{Method: "COUNTS", Token: sess.Token})
	return models.DashboardCounts{Properties: 3}, nil
}

var _ backend.API = (*fakeAPI)(nil)

func newTestStore(api *fakeAPI) *Store {
	return NewStore(api, backend.NewCache(time.Minute))
}

var testSession = models.Session{ID: "sess-1", Token: "tok-1"}
