package api

import (
	"strings"
	"time"

	"taskdeck/internal/models"
	"taskdeck/internal/timeutil"
)

// wireTime handles the server's due-date formats: RFC3339 with or without a
// zone suffix. Values without a zone are UTC. Outgoing values are written as
// "....000Z" the way the original web client did.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := timeutil.ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format("2006-01-02T15:04:05") + `.000Z"`), nil
}

type wireTask struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     wireTime     `json:"due_date"`
	Priority    int          `json:"priority"`
	Completed   bool         `json:"completed"`
	Tags        []models.Tag `json:"tags"`
	CreatedAt   wireTime     `json:"created_at"`
}

func (w wireTask) toModel() models.Task {
	return models.Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		DueDate:     w.DueDate.Time,
		Priority:    w.Priority,
		Completed:   w.Completed,
		Tags:        w.Tags,
		CreatedAt:   w.CreatedAt.Time,
	}
}

func toModels(ws []wireTask) []models.Task {
	tasks := make([]models.Task, len(ws))
	for i, w := range ws {
		tasks[i] = w.toModel()
	}
	return tasks
}

type wireWeekDay struct {
	Date      string     `json:"date"`
	DayName   string     `json:"day_name"`
	Tasks     []wireTask `json:"tasks"`
	TaskCount int        `json:"task_count"`
}

type todosResponse struct {
	Todos []wireTask `json:"todos"`
}

type tagsResponse struct {
	Tags []models.Tag `json:"tags"`
}

type weekResponse struct {
	Stats     models.Stats  `json:"stats"`
	WeekTasks []wireWeekDay `json:"week_tasks"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// TaskQuery carries the optional list parameters. Blank fields are omitted
// from the query string entirely; an empty "priority=" is never sent.
type TaskQuery struct {
	Completed string `url:"completed,omitempty"` // "true" or "false", "" for unset
	Priority  int    `url:"priority,omitempty"`  // 1..3, 0 for unset
	TagID     int64  `url:"tag_id,omitempty"`
	SortBy    string `url:"sort_by,omitempty"`
	SortOrder string `url:"sort_order,omitempty"` // "asc" or "desc"
	Search    string `url:"search,omitempty"`
}

// TaskPayload is the create/update request body. Tag ids are sent in
// selection order.
type TaskPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     wireTime `json:"due_date"`
	Priority    int      `json:"priority"`
	Tags        []int64  `json:"tags"`
}

// NewTaskPayload builds a request body from validated form values
func NewTaskPayload(title, description string, due time.Time, priority int, tags []int64) TaskPayload {
	return TaskPayload{
		Title:       title,
		Description: description,
		DueDate:     wireTime{due},
		Priority:    priority,
		Tags:        tags,
	}
}
