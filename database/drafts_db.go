package database

import (
	"database/sql"
	"fmt"
	"time"

	"estateadmin/models"

	"github.com/google/uuid"
)

// SaveDraft inserts or replaces the draft of formKey for a session.
func SaveDraft(sessionID, formKey, data string) (models.FormDraft, error) {
	now := time.Now().UTC()
	draft := models.FormDraft{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		FormKey:   formKey,
		Data:      data,
		UpdatedAt: now,
	}
	_, err := DB.Exec(`
		INSERT INTO form_drafts (id, session_id, form_key, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, form_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, draft.ID, sessionID, formKey, data, now)
	if err != nil {
		return models.FormDraft{}, fmt.Errorf("saving draft %s: %w", formKey, err)
	}
	return GetDraft(sessionID, formKey)
}

// GetDraft returns the session's draft of formKey or ErrNotFound.
func GetDraft(sessionID, formKey string) (models.FormDraft, error) {
	var d models.FormDraft
	err := DB.QueryRow(`SELECT id, session_id, form_key, data, updated_at FROM form_drafts WHERE session_id = ? AND form_key = ?`,
		sessionID, formKey).Scan(&d.ID, &d.SessionID, &d.FormKey, &d.Data, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.FormDraft{}, ErrNotFound
		}
		return models.FormDraft{}, fmt.Errorf("querying draft %s: %w", formKey, err)
	}
	return d, nil
}

// DeleteDraft discards the session's draft of formKey. Deleting a missing draft
// is not an error.
func DeleteDraft(sessionID, formKey string) error {
	if _, err := DB.Exec(`DELETE FROM form_drafts WHERE session_id = ? AND form_key = ?`, sessionID, formKey); err != nil {
		return fmt.Errorf("deleting draft %s: %w", formKey, err)
	}
	return nil
}

// DeleteStaleDrafts removes drafts untouched since before cutoff.
func DeleteStaleDrafts(cutoff time.Time) (int64, error) {
	res, err := DB.Exec(`DELETE FROM form_drafts WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting stale drafts: %w", err)
	}
	return res.RowsAffected()
}
