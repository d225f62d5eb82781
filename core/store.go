package core

import (
	"context"
	"strings"
	"sync"

	"estateadmin/backend"
	"estateadmin/models"
)

// Store is the dashboard's view of the backend: cached collection reads plus the
// mutation round trip that invalidates them.
type Store struct {
	api   backend.API
	cache *backend.Cache

	formsMu sync.Mutex
	forms   map[string]*Form
}

// NewStore wires a backend API to a cache.
func NewStore(api backend.API, cache *backend.Cache) *Store {
	return &Store{api: api, cache: cache, forms: make(map[string]*Form)}
}

// API exposes the underlying backend client.
func (s *Store) API() backend.API { return s.api }

// Rows returns the collection behind endpoint as seen by sess. When the refetch
// fails the previously cached rows are returned alongside the error.
func (s *Store) Rows(ctx context.Context, sess models.Session, endpoint string) ([]models.Row, error) {
	return s.cache.Get(ctx, backend.CollectionKey(endpoint, sess.ID), func(ctx context.Context) ([]models.Row, error) {
		return s.api.List(ctx, sess, endpoint)
	})
}

// Invalidate marks every session's copy of a collection for refetch.
func (s *Store) Invalidate(endpoint string) {
	s.cache.MutatePrefix(backend.CollectionPrefix(endpoint))
}

// Forget drops everything cached for a session that has ended.
func (s *Store) Forget(sessionID string) {
	s.cache.DropSession(sessionID)
	s.formsMu.Lock()
	defer s.formsMu.Unlock()
	for k := range s.forms {
		if strings.HasPrefix(k, sessionID+"|") {
			delete(s.forms, k)
		}
	}
}

// form returns the busy-tracking form for one session and form key.
func (s *Store) form(sessionID, key string) *Form {
	s.formsMu.Lock()
	defer s.formsMu.Unlock()
	k := sessionID + "|" + key
	f, ok := s.forms[k]
	if !ok {
		f = &Form{}
		s.forms[k] = f
	}
	return f
}
