package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"sync"

	"estateadmin/backend"
	"estateadmin/logger"
	"estateadmin/models"
)

// ErrBusy is returned when a form is submitted while its previous submission is
// still in flight.
var ErrBusy = errors.New("a submission for this form is already in progress")

// MethodOverrideField carries the intended HTTP method inside a multipart POST.
const MethodOverrideField = "_method"

// Form guards one modal form against double submission. While a submission is
// running every further Submit fails fast with ErrBusy; nothing is cancelled.
type Form struct {
	mu   sync.Mutex
	busy bool
}

// Busy reports whether a submission is running.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit runs fn unless another submission is in progress.
func (f *Form) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()
	return fn(ctx)
}

// FilePart is one uploaded file to forward.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// BuildMultipart encodes fields and files as multipart/form-data. Fields are written
// in key order so the body is deterministic. A non-empty override adds the
// _method field for a backend that only accepts files on POST.
func BuildMultipart(fields map[string]string, files []FilePart, override string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == MethodOverrideField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range files {
		if f.Content == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", f.Filename, err)
		}
	}

	if override != "" {
		if err := w.WriteField(MethodOverrideField, override); err != nil {
			return nil, "", fmt.Errorf("write method override: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// MutationResult is what a successful mutation reports back.
type MutationResult struct {
	Message string     `json:"message"`
	Record  models.Row `json:"record,omitempty"`
}

func mutationResult(body []byte, fallback string) MutationResult {
	res := MutationResult{Message: backend.MessageFromBody(body)}
	if res.Message == "" {
		res.Message = fallback
	}
	if row, err := decodeRecord(body); err == nil {
		res.Record = row
	}
	return res
}

// Create relays a new entity and invalidates its collection on success.
func (s *Store) Create(ctx context.Context, sess models.Session, screen Screen, fields map[string]string, files []FilePart) (MutationResult, error) {
	var res MutationResult
	err := s.form(sess.ID, screen.Key+":create").Submit(ctx, func(ctx context.Context) error {
		body, ct, err := BuildMultipart(fields, files, "")
		if err != nil {
			return err
		}
		out, err := s.api.Create(ctx, sess, screen.Endpoint, body, ct)
		if err != nil {
			return err
		}
		res = mutationResult(out, screen.Label+" created successfully.")
		return nil
	})
	s.afterMutation(screen, "create", err)
	return res, err
}

// Update relays a changed entity. Screens with file uploads send multipart POST
// with the PUT override; the rest send a JSON PUT.
func (s *Store) Update(ctx context.Context, sess models.Session, screen Screen, id string, fields map[string]string, files []FilePart) (MutationResult, error) {
	var res MutationResult
	err := s.form(sess.ID, screen.Key+":update:"+id).Submit(ctx, func(ctx context.Context) error {
		var body io.Reader
		var ct string
		if screen.MultipartUpdate || len(files) > 0 {
			buf, mct, err := BuildMultipart(fields, files, http.MethodPut)
			if err != nil {
				return err
			}
			body, ct = buf, mct
		} else {
			data, err := json.Marshal(fields)
			if err != nil {
				return fmt.Errorf("encode fields: %w", err)
			}
			body, ct = bytes.NewReader(data), "application/json"
		}
		out, err := s.api.Update(ctx, sess, screen.Endpoint, id, body, ct)
		if err != nil {
			return err
		}
		res = mutationResult(out, screen.Label+" updated successfully.")
		return nil
	})
	s.afterMutation(screen, "update", err)
	return res, err
}

// Delete removes an entity and invalidates its collection on success.
func (s *Store) Delete(ctx context.Context, sess models.Session, screen Screen, id string) error {
	err := s.form(sess.ID, screen.Key+":delete:"+id).Submit(ctx, func(ctx context.Context) error {
		return s.api.Delete(ctx, sess, screen.Endpoint, id)
	})
	s.afterMutation(screen, "delete", err)
	return err
}

// ChangeStatus posts {id, status} to <endpoint>/change-status.
func (s *Store) ChangeStatus(ctx context.Context, sess models.Session, endpoint, id, status string) error {
	err := s.form(sess.ID, endpoint+":status:"+id).Submit(ctx, func(ctx context.Context) error {
		_, err := s.api.PostJSON(ctx, sess, endpoint+"/change-status", models.StatusChangeRequest{ID: id, Status: status})
		return err
	})
	if err == nil {
		s.Invalidate(endpoint)
		logger.Info("Store: %s %s status changed to %s.", endpoint, id, status)
	} else if !errors.Is(err, ErrBusy) {
		logger.Error("Store: changing %s %s status to %s failed: %v", endpoint, id, status, err)
	}
	return err
}

// afterMutation refreshes the collection after a successful write. Failed writes
// leave the cached rows untouched; there is no optimistic edit to roll back.
func (s *Store) afterMutation(screen Screen, op string, err error) {
	switch {
	case err == nil:
		s.Invalidate(screen.Endpoint)
		logger.Info("Store: %s on %s succeeded, collection invalidated.", op, screen.Key)
	case errors.Is(err, ErrBusy):
		logger.Debug("Store: %s on %s rejected, form busy.", op, screen.Key)
	default:
		logger.Error("Store: %s on %s failed: %v", op, screen.Key, err)
	}
}

// ErrorMessage is the toast text for a failed mutation.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrBusy) {
		return "Please wait for the current submission to finish."
	}
	return backend.UserMessage(err)
}

func decodeRecord(body []byte) (models.Row, error) {
	var env struct {
		Record models.Row `json:"record"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Record == nil {
		return nil, errors.New("no record in response")
	}
	return env.Record, nil
}
