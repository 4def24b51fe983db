// Package reminder maintains the long-lived push connection that delivers
// due-date reminder batches. Connection loss of any kind is retried on a
// fixed delay, forever; nothing here ever reaches the user directly.
package reminder

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"taskdeck/internal/models"
	"taskdeck/internal/timeutil"
)

// State of the connection
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn is the subset of *websocket.Conn the channel uses; tests substitute it
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

// DialFunc establishes a connection to the push endpoint
type DialFunc func(ctx context.Context, url string) (Conn, error)

func gorillaDial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return conn, err
}

type joinFrame struct {
	Event  string `json:"event"`
	UserID int64  `json:"user_id"`
}

type pushFrame struct {
	Event string `json:"event"`
	Tasks []struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		DueDate string `json:"due_date"`
	} `json:"tasks"`
	Message string `json:"message"`
}

// Channel is a reconnecting push client joined to one user's logical channel
type Channel struct {
	url    string
	userID int64
	delay  time.Duration
	dial   DialFunc
	out    chan []models.ReminderTask
	state  atomic.Int32
}

// New creates a channel client for the given user. delay is the fixed
// reconnect backoff.
func New(url string, userID int64, delay time.Duration) *Channel {
	return &Channel{
		url:    url,
		userID: userID,
		delay:  delay,
		dial:   gorillaDial,
		out:    make(chan []models.ReminderTask, 16),
	}
}

// Batches returns the stream of delivered reminder batches, in receipt order
func (c *Channel) Batches() <-chan []models.ReminderTask {
	return c.out
}

// State reports the current connection state
func (c *Channel) State() State {
	return State(c.state.Load())
}

func (c *Channel) setState(s State) {
	c.state.Store(int32(s))
}

// Run connects, reads, and reconnects until ctx is cancelled. Dial failures
// and mid-stream drops are treated identically: wait the fixed delay, retry.
func (c *Channel) Run(ctx context.Context) {
	for {
		c.setState(Connecting)
		conn, err := c.dial(ctx, c.url)
		if err != nil {
			c.setState(Disconnected)
			logrus.WithError(err).Debug("reminder channel dial failed")
			if !c.wait(ctx) {
				return
			}
			continue
		}

		c.setState(Connected)
		err = c.serve(ctx, conn)
		conn.Close()
		c.setState(Disconnected)
		if ctx.Err() != nil {
			return
		}
		logrus.WithError(err).Debug("reminder channel dropped")
		if !c.wait(ctx) {
			return
		}
	}
}

// wait sleeps for the reconnect delay; false means ctx was cancelled.
// One timer per attempt, stopped before the next is armed.
func (c *Channel) wait(ctx context.Context) bool {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Channel) serve(ctx context.Context, conn Conn) error {
	if err := conn.WriteJSON(joinFrame{Event: "join_room", UserID: c.userID}); err != nil {
		return err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame pushFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logrus.WithError(err).Debug("ignoring malformed push frame")
			continue
		}
		if frame.Event != "reminder" || len(frame.Tasks) == 0 {
			continue
		}

		batch := make([]models.ReminderTask, 0, len(frame.Tasks))
		for _, t := range frame.Tasks {
			due, err := timeutil.ParseTimestamp(t.DueDate)
			if err != nil {
				logrus.WithField("task_id", t.ID).WithError(err).
					Debug("reminder with unreadable due date")
			}
			batch = append(batch, models.ReminderTask{ID: t.ID, Title: t.Title, DueDate: due})
		}

		select {
		case c.out <- batch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
