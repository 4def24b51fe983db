package localdb

import (
	"time"

	"taskdeck/internal/models"
)

// InsertNotification appends one inbox entry
func (db *DB) InsertNotification(m models.NotificationMessage) error {
	_, err := db.Exec(`
		INSERT INTO notifications (id, task_id, title, due_date, received_at, read)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.TaskID, m.Title,
		m.DueDate.UTC().Format(time.RFC3339),
		m.ReceivedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(m.Read))
	return err
}

// MarkNotificationRead flags an entry as read. Already-read entries are left alone.
func (db *DB) MarkNotificationRead(id string) error {
	_, err := db.Exec("UPDATE notifications SET read = 1 WHERE id = ?", id)
	return err
}

// ListNotifications returns all inbox entries, newest first
func (db *DB) ListNotifications() ([]models.NotificationMessage, error) {
	rows, err := db.Query(`
		SELECT id, task_id, title, due_date, received_at, read
		FROM notifications
		ORDER BY received_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.NotificationMessage
	for rows.Next() {
		var m models.NotificationMessage
		var due, received string
		var read int
		if err := rows.Scan(&m.ID, &m.TaskID, &m.Title, &due, &received, &read); err != nil {
			return nil, err
		}
		if m.DueDate, err = time.Parse(time.RFC3339, due); err != nil {
			return nil, err
		}
		if m.ReceivedAt, err = time.Parse(time.RFC3339Nano, received); err != nil {
			return nil, err
		}
		m.Read = read != 0
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
