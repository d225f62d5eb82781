package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"estateadmin/database"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/go-chi/chi/v5"
)

const maxDraftSize = 1 << 20

// GetDraftHandler returns the session's saved draft of a form.
func GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "formKey")
	draft, err := database.GetDraft(mustSession(r).ID, key)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No draft saved for "+key)
		return
	}
	if err != nil {
		logger.Error("GetDraftHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

// SaveDraftHandler stores the request body, which must be JSON, as the draft.
func SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "formKey")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDraftSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) > maxDraftSize {
		writeError(w, http.StatusRequestEntityTooLarge, "Draft is too large")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "Draft must be valid JSON")
		return
	}
	draft, err := database.SaveDraft(mustSession(r).ID, key, string(body))
	if err != nil {
		logger.Error("SaveDraftHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

// DeleteDraftHandler discards a draft.
func DeleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "formKey")
	if err := database.DeleteDraft(mustSession(r).ID, key); err != nil {
		logger.Error("DeleteDraftHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func draftResponse(d models.FormDraft) map[string]any {
	return map[string]any{
		"form_key":   d.FormKey,
		"data":       json.RawMessage(d.Data),
		"updated_at": d.UpdatedAt,
	}
}
