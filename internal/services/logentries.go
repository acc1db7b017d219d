package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

var ErrLogEntryNotFound = ErrNotFound("Log entry not found")

const logEntryColumns = `id, student_id, entry_date, content, attachments, tags, mood,
hours_worked, entry_type, is_private, created_at, updated_at`

func GetLogEntry(db sqlx.Queryer, id string) (models.LogEntry, error) {
	var entry models.LogEntry
	err := sqlx.Get(db, &entry, `SELECT `+logEntryColumns+` FROM log_entries WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, ErrLogEntryNotFound
	}
	return entry, err
}

func InsertLogEntry(db *sqlx.DB, entry models.LogEntry) (models.LogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Attachments == nil {
		entry.Attachments = []byte("[]")
	}
	if entry.Tags == nil {
		entry.Tags = []byte("[]")
	}
	_, err := db.Exec(`
INSERT INTO log_entries (
  id, student_id, entry_date, content, attachments, tags, mood,
  hours_worked, entry_type, is_private, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
`, entry.ID, entry.StudentID, entry.EntryDate, entry.Content, entry.Attachments,
		entry.Tags, entry.Mood, entry.HoursWorked, entry.EntryType, entry.IsPrivate,
		entry.CreatedAt)
	return entry, err
}

func SaveLogEntry(db *sqlx.DB, entry models.LogEntry) error {
	_, err := db.Exec(`
UPDATE log_entries SET
  entry_date = $2, content = $3, attachments = $4, tags = $5, mood = $6,
  hours_worked = $7, entry_type = $8, is_private = $9, updated_at = $10
WHERE id = $1
`, entry.ID, entry.EntryDate, entry.Content, entry.Attachments, entry.Tags,
		entry.Mood, entry.HoursWorked, entry.EntryType, entry.IsPrivate, time.Now().UTC())
	return err
}

func DeleteLogEntry(db *sqlx.DB, id string) error {
	_, err := db.Exec(`DELETE FROM log_entries WHERE id = $1`, id)
	return err
}

// LogEntryFilter narrows log entry listings.
type LogEntryFilter struct {
	StudentID string
	EntryType string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

func ListLogEntries(db *sqlx.DB, filter LogEntryFilter) ([]models.LogEntry, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		where += " AND student_id = $" + itoa(len(args))
	}
	if filter.EntryType != "" {
		args = append(args, filter.EntryType)
		where += " AND entry_type = $" + itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += " AND entry_date >= $" + itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += " AND entry_date <= $" + itoa(len(args))
	}
	var total int
	if err := db.Get(&total, `SELECT count(*) FROM log_entries `+where, args...); err != nil {
		return nil, 0, err
	}
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	entries := []models.LogEntry{}
	err := db.Select(&entries, `
SELECT `+logEntryColumns+` FROM log_entries `+where+`
ORDER BY entry_date DESC, created_at DESC
LIMIT $`+itoa(len(args)-1)+` OFFSET $`+itoa(len(args)), args...)
	return entries, total, err
}
