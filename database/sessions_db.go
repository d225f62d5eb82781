package database

import (
	"database/sql"
	"fmt"
	"time"

	"estateadmin/models"

	"github.com/google/uuid"
)

// CreateSession stores a new session for token and returns it.
func CreateSession(token, userID string, ttl time.Duration) (models.Session, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err := DB.Exec(`INSERT INTO sessions (id, token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// GetSession returns a live session. Expired and unknown ids yield ErrNotFound.
func GetSession(id string) (models.Session, error) {
	var sess models.Session
	err := DB.QueryRow(`SELECT id, token, user_id, created_at, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Session{}, ErrNotFound
		}
		return models.Session{}, fmt.Errorf("querying session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return models.Session{}, ErrNotFound
	}
	return sess, nil
}

// DeleteSession removes a session and, through the foreign key, its drafts.
func DeleteSession(id string) error {
	if _, err := DB.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry and reports how many.
func DeleteExpiredSessions(now time.Time) (int64, error) {
	res, err := DB.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// CountSessions returns the number of stored sessions.
func CountSessions() (int64, error) {
	var n int64
	if err := DB.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

// ExpiredSessionIDs lists the ids of sessions past their expiry.
func ExpiredSessionIDs(now time.Time) ([]string, error) {
	rows, err := DB.Query(`SELECT id FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying expired sessions: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning expired session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
