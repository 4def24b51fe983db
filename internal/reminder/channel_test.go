package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedConn replays a fixed sequence of frames, then fails the read
type scriptedConn struct {
	frames  [][]byte
	written []any
	pos     int
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	if c.pos >= len(c.frames) {
		return 0, nil, io.EOF
	}
	data := c.frames[c.pos]
	c.pos++
	return 1, data, nil
}

func (c *scriptedConn) WriteJSON(v any) error {
	c.written = append(c.written, v)
	return nil
}

func (c *scriptedConn) Close() error { return nil }

func frame(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func newTestChannel(dial DialFunc) *Channel {
	c := New("ws://example/socket", 9, time.Millisecond)
	c.dial = dial
	return c
}

func TestJoinsUserChannelOnConnect(t *testing.T) {
	conn := &scriptedConn{}
	ch := newTestChannel(func(ctx context.Context, url string) (Conn, error) {
		return conn, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	go ch.Run(ctx)
	<-ctx.Done()

	require.NotEmpty(t, conn.written)
	join, ok := conn.written[0].(joinFrame)
	require.True(t, ok)
	assert.Equal(t, "join_room", join.Event)
	assert.Equal(t, int64(9), join.UserID)
}

func TestDeliversReminderBatchesInReceiptOrder(t *testing.T) {
	conn := &scriptedConn{frames: [][]byte{
		frame(t, map[string]any{"event": "reminder", "tasks": []map[string]any{
			{"id": 1, "title": "first", "due_date": "2024-03-01T01:00:00"},
		}}),
		frame(t, map[string]any{"event": "other"}),
		frame(t, map[string]any{"event": "reminder", "tasks": []map[string]any{
			{"id": 2, "title": "second", "due_date": "2024-03-01T02:00:00.000Z"},
			{"id": 2, "title": "second again", "due_date": "2024-03-01T02:00:00.000Z"},
		}}),
	}}
	dialed := false
	ch := newTestChannel(func(ctx context.Context, url string) (Conn, error) {
		if dialed {
			<-ctx.Done() // only serve the scripted connection once
			return nil, ctx.Err()
		}
		dialed = true
		return conn, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	batch1 := <-ch.Batches()
	require.Len(t, batch1, 1)
	assert.Equal(t, int64(1), batch1[0].ID)
	assert.Equal(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), batch1[0].DueDate.UTC())

	batch2 := <-ch.Batches()
	require.Len(t, batch2, 2, "duplicate task ids in one batch are passed through")
	assert.Equal(t, int64(2), batch2[0].ID)
}

func TestReconnectsAfterDialFailure(t *testing.T) {
	attempts := 0
	ch := newTestChannel(func(ctx context.Context, url string) (Conn, error) {
		attempts++
		return nil, errors.New("refused")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ch.Run(ctx)

	assert.Greater(t, attempts, 2, "dial failures must be retried")
	assert.Equal(t, Disconnected, ch.State())
}

func TestReconnectsAfterDrop(t *testing.T) {
	attempts := 0
	ch := newTestChannel(func(ctx context.Context, url string) (Conn, error) {
		attempts++
		return &scriptedConn{}, nil // EOF immediately: a drop
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ch.Run(ctx)

	assert.Greater(t, attempts, 2, "drops must be retried like dial failures")
}

func TestRunStopsOnCancel(t *testing.T) {
	ch := newTestChannel(func(ctx context.Context, url string) (Conn, error) {
		return nil, errors.New("refused")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ch.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
