package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
)

var ErrNotificationNotFound = ErrNotFound("Notification not found")

const notificationColumns = `id, user_id, title, message, notification_type, priority,
is_read, read_at, related_entity_type, related_entity_id, action_url, expires_at, created_at`

func GetNotification(db sqlx.Queryer, id string) (models.Notification, error) {
	var n models.Notification
	err := sqlx.Get(db, &n, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotificationNotFound
	}
	return n, err
}

func InsertNotification(db *sqlx.DB, n models.Notification) (models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Type == "" {
		n.Type = "info"
	}
	if n.Priority == "" {
		n.Priority = "medium"
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
INSERT INTO notifications (
  id, user_id, title, message, notification_type, priority, is_read,
  related_entity_type, related_entity_id, action_url, expires_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,FALSE,$7,$8,$9,$10,$11)
`, n.ID, n.UserID, n.Title, n.Message, n.Type, n.Priority,
		n.RelatedEntityType, n.RelatedEntityID, n.ActionURL, n.ExpiresAt, n.CreatedAt)
	return n, err
}

func MarkNotificationRead(db *sqlx.DB, id string) error {
	_, err := db.Exec(`UPDATE notifications SET is_read = TRUE, read_at = $2 WHERE id = $1`, id, time.Now().UTC())
	return err
}

func MarkAllNotificationsRead(db *sqlx.DB, userID string) (int64, error) {
	result, err := db.Exec(`
UPDATE notifications SET is_read = TRUE, read_at = $2
WHERE user_id = $1 AND is_read = FALSE`, userID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func DeleteNotification(db *sqlx.DB, id string) error {
	_, err := db.Exec(`DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func UnreadCount(db sqlx.Queryer, userID string) (int, error) {
	var count int
	err := sqlx.Get(db, &count, `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}

// NotificationFilter narrows notification listings for one user.
type NotificationFilter struct {
	UserID string
	IsRead *bool
	Page   int
	Limit  int
}

func ListNotifications(db *sqlx.DB, filter NotificationFilter) ([]models.Notification, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{filter.UserID}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		where += " AND is_read = $" + itoa(len(args))
	}
	var total int
	if err := db.Get(&total, `SELECT count(*) FROM notifications `+where, args...); err != nil {
		return nil, 0, err
	}
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	items := []models.Notification{}
	err := db.Select(&items, `
SELECT `+notificationColumns+` FROM notifications `+where+`
ORDER BY created_at DESC
LIMIT $`+itoa(len(args)-1)+` OFFSET $`+itoa(len(args)), args...)
	return items, total, err
}

// NotifyUser inserts a system event notification for a single user. Errors
// are returned but callers usually treat them as non-fatal.
func NotifyUser(db *sqlx.DB, userID, title, message, ntype string, entityType, entityID string) error {
	var et, eid *string
	if entityType != "" {
		et = &entityType
	}
	if entityID != "" {
		eid = &entityID
	}
	_, err := InsertNotification(db, models.Notification{
		UserID:            userID,
		Title:             title,
		Message:           message,
		Type:              ntype,
		RelatedEntityType: et,
		RelatedEntityID:   eid,
	})
	return err
}

// NotifyRole fans a notification out to every active user with the role.
func NotifyRole(db *sqlx.DB, role models.Role, title, message, ntype string) (int, error) {
	ids := []string{}
	if err := db.Select(&ids, `SELECT id FROM users WHERE role = $1 AND is_active = TRUE`, role); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := NotifyUser(db, id, title, message, ntype, "system", ""); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
