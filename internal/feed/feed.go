// Package feed keeps the reminder inbox: an append-only, newest-first list
// of notification messages with read/unread bookkeeping.
package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskdeck/internal/models"
)

// Journal persists inbox entries across restarts. *localdb.DB satisfies it;
// a nil Journal keeps the feed memory-only.
type Journal interface {
	InsertNotification(models.NotificationMessage) error
	MarkNotificationRead(id string) error
	ListNotifications() ([]models.NotificationMessage, error)
}

// NotificationFeed is the mutable inbox fed by the reminder channel. It is
// independent of the task store: a message only references a task id.
type NotificationFeed struct {
	messages []models.NotificationMessage
	journal  Journal
}

// New returns a feed, preloaded from journal when one is given. A journal
// load failure degrades to an empty in-memory feed.
func New(journal Journal) *NotificationFeed {
	f := &NotificationFeed{journal: journal}
	if journal != nil {
		msgs, err := journal.ListNotifications()
		if err != nil {
			logrus.WithError(err).Warn("could not load notification inbox")
		} else {
			f.messages = msgs
		}
	}
	return f
}

// Ingest appends one message per delivered task to the front of the inbox.
// Message ids are freshly generated, so a task reminded twice produces two
// distinct entries; deliveries are never deduplicated.
func (f *NotificationFeed) Ingest(batch []models.ReminderTask) []models.NotificationMessage {
	now := time.Now()
	added := make([]models.NotificationMessage, 0, len(batch))
	for _, task := range batch {
		m := models.NotificationMessage{
			ID:         uuid.NewString(),
			TaskID:     task.ID,
			Title:      task.Title,
			DueDate:    task.DueDate,
			ReceivedAt: now,
		}
		added = append(added, m)
		if f.journal != nil {
			if err := f.journal.InsertNotification(m); err != nil {
				logrus.WithError(err).WithField("task_id", task.ID).
					Warn("could not persist notification")
			}
		}
	}
	// Newest first, batch order preserved within the batch.
	f.messages = append(added, f.messages...)
	return added
}

// MarkRead flags a message as read. Idempotent: marking an already-read
// message changes nothing.
func (f *NotificationFeed) MarkRead(id string) {
	for i := range f.messages {
		if f.messages[i].ID != id {
			continue
		}
		if f.messages[i].Read {
			return
		}
		f.messages[i].Read = true
		if f.journal != nil {
			if err := f.journal.MarkNotificationRead(id); err != nil {
				logrus.WithError(err).WithField("message_id", id).
					Warn("could not persist read flag")
			}
		}
		return
	}
}

// ResolveTask returns the task id a message refers to
func (f *NotificationFeed) ResolveTask(id string) (int64, bool) {
	for _, m := range f.messages {
		if m.ID == id {
			return m.TaskID, true
		}
	}
	return 0, false
}

// Messages returns the inbox, newest first. Callers must not mutate it.
func (f *NotificationFeed) Messages() []models.NotificationMessage {
	return f.messages
}

// UnreadCount is recomputed from the read flags on every call, so the badge
// can never drift from the list.
func (f *NotificationFeed) UnreadCount() int {
	n := 0
	for _, m := range f.messages {
		if !m.Read {
			n++
		}
	}
	return n
}
