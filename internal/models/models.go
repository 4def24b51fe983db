package models

import "time"

// Task priorities as stored by the server.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// PriorityLabel returns a short display name for a priority value
func PriorityLabel(p int) string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// DefaultTagName is attached to tasks saved without an explicit tag
const DefaultTagName = "其他"

// Tag is a named, colored label owned by the server and referenced by tasks
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // hex, e.g. "#3498db"
}

// Task is a single due-dated unit of work
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    int       `json:"priority"`
	Completed   bool      `json:"completed"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderTask is the task summary carried by a reminder push frame
type ReminderTask struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// NotificationMessage is one inbox entry. Its ID is client-generated and
// distinct from the task id space; the same task may appear in several
// messages if it is reminded more than once.
type NotificationMessage struct {
	ID         string
	TaskID     int64
	Title      string
	DueDate    time.Time
	ReceivedAt time.Time
	Read       bool
}

// WeekDay is one day bucket of the week calendar, as computed by the server
type WeekDay struct {
	Date      string `json:"date"` // YYYY-MM-DD
	DayName   string `json:"day_name"`
	Tasks     []Task `json:"tasks"`
	TaskCount int    `json:"task_count"`
}

// Stats summarizes the user's task counts, returned alongside the week calendar
type Stats struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
	Pending   int `json:"pending_tasks"`
	Today     int `json:"today_tasks"`
}

// User identifies the authenticated account
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
