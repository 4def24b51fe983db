package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func batch(ids ...int64) []models.ReminderTask {
	out := make([]models.ReminderTask, len(ids))
	for i, id := range ids {
		out[i] = models.ReminderTask{ID: id, Title: "task", DueDate: time.Now().Add(time.Hour)}
	}
	return out
}

func TestIngestPrependsAndCounts(t *testing.T) {
	f := New(nil)

	f.Ingest(batch(1, 2))
	f.Ingest(batch(3))

	msgs := f.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, int64(3), msgs[0].TaskID, "newest batch first")
	assert.Equal(t, 3, f.UnreadCount())
}

func TestDuplicateTaskRemindersStayDistinct(t *testing.T) {
	f := New(nil)

	f.Ingest(batch(7))
	f.Ingest(batch(7))

	msgs := f.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, msgs[0].TaskID, msgs[1].TaskID)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID, "each delivery gets its own id")
	assert.Equal(t, 2, f.UnreadCount())
}

func TestMarkReadIdempotent(t *testing.T) {
	f := New(nil)
	f.Ingest(batch(1, 2))
	id := f.Messages()[0].ID

	f.MarkRead(id)
	assert.Equal(t, 1, f.UnreadCount())

	f.MarkRead(id)
	assert.Equal(t, 1, f.UnreadCount(), "second MarkRead must not decrement again")
}

func TestMarkReadUnknownIDIsNoop(t *testing.T) {
	f := New(nil)
	f.Ingest(batch(1))

	f.MarkRead("no-such-message")
	assert.Equal(t, 1, f.UnreadCount())
}

func TestUnreadCountMatchesFlags(t *testing.T) {
	f := New(nil)
	f.Ingest(batch(1, 2, 3, 4))

	for _, m := range f.Messages()[:2] {
		f.MarkRead(m.ID)
	}

	want := 0
	for _, m := range f.Messages() {
		if !m.Read {
			want++
		}
	}
	assert.Equal(t, want, f.UnreadCount())
}

func TestResolveTask(t *testing.T) {
	f := New(nil)
	f.Ingest(batch(42))
	id := f.Messages()[0].ID

	taskID, ok := f.ResolveTask(id)
	require.True(t, ok)
	assert.Equal(t, int64(42), taskID)

	_, ok = f.ResolveTask("missing")
	assert.False(t, ok)
}

type fakeJournal struct {
	inserted []models.NotificationMessage
	read     []string
}

func (j *fakeJournal) InsertNotification(m models.NotificationMessage) error {
	j.inserted = append(j.inserted, m)
	return nil
}

func (j *fakeJournal) MarkNotificationRead(id string) error {
	j.read = append(j.read, id)
	return nil
}

func (j *fakeJournal) ListNotifications() ([]models.NotificationMessage, error) {
	return j.inserted, nil
}

func TestJournalReceivesWrites(t *testing.T) {
	j := &fakeJournal{}
	f := New(j)

	f.Ingest(batch(1, 2))
	require.Len(t, j.inserted, 2)

	id := f.Messages()[0].ID
	f.MarkRead(id)
	f.MarkRead(id)
	assert.Equal(t, []string{id}, j.read, "idempotence extends to the journal")
}

func TestLoadsExistingInbox(t *testing.T) {
	j := &fakeJournal{inserted: []models.NotificationMessage{
		{ID: "a", TaskID: 1, Read: true},
		{ID: "b", TaskID: 2},
	}}

	f := New(j)
	assert.Len(t, f.Messages(), 2)
	assert.Equal(t, 1, f.UnreadCount())
}
