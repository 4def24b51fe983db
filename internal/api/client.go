// Package api is the HTTP client for the external task/tag storage and auth
// service. It holds no task state itself; callers refresh the in-memory
// store from whole-collection responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"

	"taskdeck/internal/models"
)

// ErrUnauthorized is returned on any 401; the caller clears stored
// credentials and sends the user back to login.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-success response that is not an auth failure
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// TokenFunc supplies the bearer token, re-read on every call
type TokenFunc func() string

// Client talks to the storage API
type Client struct {
	base  string
	http  *http.Client
	token TokenFunc
}

// New creates a client for the service at base (no trailing slash)
func New(base string, token TokenFunc) *Client {
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: 15 * time.Second},
		token: token,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges credentials for a bearer token and the user's id
func (c *Client) Login(ctx context.Context, username, password string) (string, int64, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return "", 0, err
	}
	return resp.AccessToken, resp.UserID, nil
}

// CurrentUser validates the stored token and returns the account it belongs to
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/api/user", nil, &u)
	return u, err
}

// ListTasks fetches tasks matching q. A zero TaskQuery fetches everything.
func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, err
	}
	path := "/api/todos"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp todosResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toModels(resp.Todos), nil
}

// TodayTasks fetches the tasks due within the current calendar day, as
// computed by the server
func (c *Client) TodayTasks(ctx context.Context) ([]models.Task, error) {
	var resp todosResponse
	if err := c.do(ctx, http.MethodGet, "/api/todos/today", nil, &resp); err != nil {
		return nil, err
	}
	return toModels(resp.Todos), nil
}

// WeekPreview fetches the 7-day calendar starting at startDate (YYYY-MM-DD),
// or at the server's current day when startDate is empty
func (c *Client) WeekPreview(ctx context.Context, startDate string) (models.Stats, []models.WeekDay, error) {
	path := "/api/todos/week"
	if startDate != "" {
		path += "?start_date=" + startDate
	}
	var resp weekResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return models.Stats{}, nil, err
	}
	days := make([]models.WeekDay, len(resp.WeekTasks))
	for i, d := range resp.WeekTasks {
		days[i] = models.WeekDay{
			Date:      d.Date,
			DayName:   d.DayName,
			Tasks:     toModels(d.Tasks),
			TaskCount: d.TaskCount,
		}
	}
	return resp.Stats, days, nil
}

// UpcomingTasks fetches tasks due within the next given minutes
func (c *Client) UpcomingTasks(ctx context.Context, minutes int) ([]models.Task, error) {
	path := fmt.Sprintf("/api/todos/upcoming?minutes=%d", minutes)
	var resp todosResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toModels(resp.Todos), nil
}

// CreateTask submits a new task
func (c *Client) CreateTask(ctx context.Context, p TaskPayload) (models.Task, error) {
	var w wireTask
	if err := c.do(ctx, http.MethodPost, "/api/todos", p, &w); err != nil {
		return models.Task{}, err
	}
	return w.toModel(), nil
}

// UpdateTask replaces a task's title, description, due date, priority and tag set
func (c *Client) UpdateTask(ctx context.Context, id int64, p TaskPayload) (models.Task, error) {
	var w wireTask
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), p, &w); err != nil {
		return models.Task{}, err
	}
	return w.toModel(), nil
}

// ToggleTask flips a task's completion flag
func (c *Client) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	var w wireTask
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d/toggle", id), nil, &w); err != nil {
		return models.Task{}, err
	}
	return w.toModel(), nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// ListTags fetches all of the user's tags
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var resp tagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// CreateTag creates a tag with the given name and hex color
func (c *Client) CreateTag(ctx context.Context, name, color string) (models.Tag, error) {
	body := map[string]string{"name": name, "color": color}
	var t models.Tag
	if err := c.do(ctx, http.MethodPost, "/api/tags", body, &t); err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

// DeleteTag removes a tag
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil)
}
