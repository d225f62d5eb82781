package database

import (
	"database/sql"
	"fmt"
	"time"

	"estateadmin/models"
)

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// LogEmail records one send attempt.
func LogEmail(entry models.EmailLogEntry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := DB.Exec(`INSERT INTO email_log (kind, recipient, subject, status, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Kind, entry.Recipient, entry.Subject, entry.Status, models.NullString(entry.Error), entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting email log entry: %w", err)
	}
	return res.LastInsertId()
}

// GetEmailLogPaginated returns the newest entries first, optionally limited to one kind.
func GetEmailLogPaginated(kind string, limit, offset int) ([]models.EmailLogEntry, int64, error) {
	var total int64
	where := ""
	args := []any{}
	if kind != "" {
		where = "WHERE kind = ?"
		args = append(args, kind)
	}
	if err := DB.QueryRow("SELECT COUNT(*) FROM email_log "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting email log: %w", err)
	}
	entries := []models.EmailLogEntry{}
	if total == 0 {
		return entries, 0, nil
	}

	rows, err := DB.Query(`SELECT id, kind, recipient, subject, status, error, created_at FROM email_log `+where+`
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, total, fmt.Errorf("querying email log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.EmailLogEntry
		var errText sql.NullString
		if err := rows.Scan(&e.ID, &e.Kind, &e.Recipient, &e.Subject, &e.Status, &errText, &e.CreatedAt); err != nil {
			return nil, total, fmt.Errorf("scanning email log row: %w", err)
		}
		e.Error = errText.String
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// EmailLog adapts the package-level email log functions to an interface value.
type EmailLog struct{}

func (EmailLog) LogEmail(entry models.EmailLogEntry) (int64, error) {
	return LogEmail(entry)
}
