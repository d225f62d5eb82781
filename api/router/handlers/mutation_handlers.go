package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/go-chi/chi/v5"
)

const maxUploadMemory = 32 << 20

// maxUploadBytes caps a whole create or update body, files included.
var maxUploadBytes int64 = 64 << 20

// submission is a decoded create or update request.
type submission struct {
	fields map[string]string
	files  []core.FilePart
	close  func()
}

// readSubmission decodes a multipart, urlencoded or JSON body into flat string
// fields and file parts. JSON values that are not strings are re-encoded. Bodies
// past maxUploadBytes are rejected.
func readSubmission(w http.ResponseWriter, r *http.Request) (submission, error) {
	sub := submission{fields: map[string]string{}, close: func() {}}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return sub, fmt.Errorf("parsing multipart form: %w", err)
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 && k != core.MethodOverrideField {
				sub.fields[k] = v[0]
			}
		}
		var opened []io.Closer
		for field, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					for _, c := range opened {
						c.Close()
					}
					return sub, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
				}
				opened = append(opened, f)
				sub.files = append(sub.files, core.FilePart{
					Field:       field,
					Filename:    fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Content:     f,
				})
			}
		}
		sub.close = func() {
			for _, c := range opened {
				c.Close()
			}
			r.MultipartForm.RemoveAll()
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return sub, fmt.Errorf("parsing form: %w", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 && k != core.MethodOverrideField {
				sub.fields[k] = v[0]
			}
		}
	default:
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return sub, fmt.Errorf("decoding JSON body: %w", err)
		}
		for k, v := range body {
			sub.fields[k] = models.Stringify(v)
		}
	}
	return sub, nil
}

// writeSubmissionError reports a body readSubmission could not decode.
func writeSubmissionError(w http.ResponseWriter, handler string, err error) {
	logger.Error("%s: %v", handler, err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds the %d MB upload limit.", maxUploadBytes>>20))
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// CreateRecordHandler creates an entity of the screen's collection.
func CreateRecordHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	sub, err := readSubmission(w, r)
	if err != nil {
		writeSubmissionError(w, "CreateRecordHandler", err)
		return
	}
	defer sub.close()

	res, err := deps.Store.Create(r.Context(), mustSession(r), screen, sub.fields, sub.files)
	if err != nil {
		writeFailure(w, r, "CreateRecordHandler", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// UpdateRecordHandler updates one entity. Both PUT and POST are accepted so
// multipart forms can be posted directly.
func UpdateRecordHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	sub, err := readSubmission(w, r)
	if err != nil {
		writeSubmissionError(w, "UpdateRecordHandler", err)
		return
	}
	defer sub.close()

	res, err := deps.Store.Update(r.Context(), mustSession(r), screen, id, sub.fields, sub.files)
	if err != nil {
		writeFailure(w, r, "UpdateRecordHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeleteRecordHandler removes one entity.
func DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := deps.Store.Delete(r.Context(), mustSession(r), screen, id); err != nil {
		writeFailure(w, r, "DeleteRecordHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: screen.Label + " deleted successfully."})
}

// ChangeStatusHandler sets the status of one entity, e.g. a FAQ or an inquiry.
func ChangeStatusHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	var req models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "A status is required.")
		return
	}
	id := chi.URLParam(r, "id")
	if err := deps.Store.ChangeStatus(r.Context(), mustSession(r), screen.Endpoint, id, req.Status); err != nil {
		writeFailure(w, r, "ChangeStatusHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Status updated successfully."})
}
