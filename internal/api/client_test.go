package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, func() string { return "tok123" })
}

func TestListTasksOmitsBlankParams(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"todos": []any{}})
	})

	_, err := c.ListTasks(context.Background(), TaskQuery{Completed: "false"})
	require.NoError(t, err)
	assert.Equal(t, "completed=false", gotQuery)

	_, err = c.ListTasks(context.Background(), TaskQuery{})
	require.NoError(t, err)
	assert.Equal(t, "", gotQuery)
}

func TestListTasksSendsBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"todos": []any{}})
	})

	_, err := c.ListTasks(context.Background(), TaskQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestUnauthorizedIsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListTasks(context.Background(), TaskQuery{})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "title required"})
	})

	_, err := c.CreateTask(context.Background(), TaskPayload{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Error(), "title required")
}

func TestCreateTaskDueDateWireFormat(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "title": "Buy milk"})
	})

	due := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	p := NewTaskPayload("Buy milk", "", due, 1, []int64{7})
	_, err := c.CreateTask(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T01:00:00.000Z", gotBody["due_date"])
}

func TestWireTimeParsesZonelessTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"todos": []map[string]any{
			{"id": 1, "title": "a", "due_date": "2024-03-01T01:00:00"},
			{"id": 2, "title": "b", "due_date": "2024-03-01T01:00:00.000Z"},
		}})
	})

	tasks, err := c.ListTasks(context.Background(), TaskQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	want := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.True(t, tasks[0].DueDate.Equal(want))
	assert.True(t, tasks[1].DueDate.Equal(want))
}

func TestWeekPreviewStartDateParam(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		json.NewEncoder(w).Encode(map[string]any{
			"stats":      map[string]int{"total_tasks": 3},
			"week_tasks": []any{},
		})
	})

	stats, _, err := c.WeekPreview(context.Background(), "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "/api/todos/week?start_date=2024-03-04", gotPath)
	assert.Equal(t, 3, stats.Total)

	_, _, err = c.WeekPreview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/api/todos/week", gotPath)
}
