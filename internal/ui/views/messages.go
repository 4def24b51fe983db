package views

import (
	"taskdeck/internal/api"
	"taskdeck/internal/models"
)

// Messages emitted by views for the app model to act on. Views never touch
// the network or the task store themselves.

// Action is a list-row operation requested by the user
type Action int

const (
	ActionComplete Action = iota
	ActionDelete
	ActionEdit
)

// TaskAction asks the app to run an operation against a task
type TaskAction struct {
	Task models.Task
	Act  Action
}

// OpenTagView asks the app to switch to the tag view for one tag
type OpenTagView struct {
	Tag models.Tag
}

// FormSubmitted carries the raw form values of the create form or the edit
// modal. ID is zero for a new task. The app validates before sending.
type FormSubmitted struct {
	ID          int64
	Title       string
	Description string
	DueRaw      string // wall-clock, YYYY-MM-DDTHH:MM
	Priority    int
	TagIDs      []int64
}

// FormCancelled closes the edit modal without touching anything
type FormCancelled struct{}

// CreateTagRequest asks the app to create a tag and select it in the
// originating form
type CreateTagRequest struct {
	Name  string
	Color string
}

// DeleteTagRequest asks the app to delete a tag
type DeleteTagRequest struct {
	Tag models.Tag
}

// FilterChanged carries a freshly assembled filter query
type FilterChanged struct {
	Query api.TaskQuery
}

// SearchChanged carries the current search term; empty means fetch everything
type SearchChanged struct {
	Term string
}

// WeekStartChanged asks for the week calendar starting at Date (YYYY-MM-DD)
type WeekStartChanged struct {
	Date string
}

// InboxOpen marks a message read and opens its task
type InboxOpen struct {
	MessageID string
}
