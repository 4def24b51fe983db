package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
)

// Result messages for the async loaders. Every fetch carries the generation
// it was issued under and the view it was issued for; stale results are
// discarded in Update.

type allTasksLoadedMsg struct {
	gen   int
	tasks []models.Task
	err   error
}

type tagsLoadedMsg struct {
	gen  int
	tags []models.Tag
	err  error
}

type viewTasksLoadedMsg struct {
	gen   int
	view  View
	tasks []models.Task
	err   error
}

type weekLoadedMsg struct {
	gen   int
	stats models.Stats
	days  []models.WeekDay
	err   error
}

// taskSavedMsg ends a create or update submit; formID is zero for creates
type taskSavedMsg struct {
	formID int64
	err    error
}

type taskMutatedMsg struct {
	id  int64
	op  string
	err error
}

type tagCreatedMsg struct {
	tag models.Tag
	err error
}

type tagDeletedMsg struct {
	name string
	err  error
}

type reminderBatchMsg struct {
	batch []models.ReminderTask
	ok    bool
}

type pollTickMsg struct{}

type upcomingLoadedMsg struct {
	tasks []models.Task
	err   error
}

type statusExpiredMsg struct {
	seq int
}

const requestTimeout = 20 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (a *App) fetchAllTasks(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := a.client.ListTasks(ctx, api.TaskQuery{})
		return allTasksLoadedMsg{gen: gen, tasks: tasks, err: err}
	}
}

func (a *App) fetchTags(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tags, err := a.client.ListTags(ctx)
		return tagsLoadedMsg{gen: gen, tags: tags, err: err}
	}
}

func (a *App) fetchToday(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := a.client.TodayTasks(ctx)
		return viewTasksLoadedMsg{gen: gen, view: ViewToday, tasks: tasks, err: err}
	}
}

func (a *App) fetchWeek(gen int, startDate string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		stats, days, err := a.client.WeekPreview(ctx, startDate)
		return weekLoadedMsg{gen: gen, stats: stats, days: days, err: err}
	}
}

func (a *App) fetchFiltered(gen int, q api.TaskQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := a.client.ListTasks(ctx, q)
		return viewTasksLoadedMsg{gen: gen, view: ViewFilter, tasks: tasks, err: err}
	}
}

func (a *App) fetchSearch(gen int, term string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := a.client.ListTasks(ctx, api.TaskQuery{Search: term})
		return viewTasksLoadedMsg{gen: gen, view: ViewSearch, tasks: tasks, err: err}
	}
}

const defaultTagColor = "#95a5a6"

// saveTask submits a create or update. A payload with no tags gets the
// default tag, created on the spot if the account doesn't have it yet.
func (a *App) saveTask(formID int64, payload api.TaskPayload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if len(payload.Tags) == 0 {
			tag, err := a.client.CreateTag(ctx, models.DefaultTagName, defaultTagColor)
			if err != nil {
				return taskSavedMsg{formID: formID, err: err}
			}
			payload.Tags = []int64{tag.ID}
		}
		var err error
		if formID == 0 {
			_, err = a.client.CreateTask(ctx, payload)
		} else {
			_, err = a.client.UpdateTask(ctx, formID, payload)
		}
		return taskSavedMsg{formID: formID, err: err}
	}
}

func (a *App) toggleTask(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		_, err := a.client.ToggleTask(ctx, id)
		return taskMutatedMsg{id: id, op: "toggle", err: err}
	}
}

func (a *App) deleteTask(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := a.client.DeleteTask(ctx, id)
		return taskMutatedMsg{id: id, op: "delete", err: err}
	}
}

func (a *App) createTag(name, color string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tag, err := a.client.CreateTag(ctx, name, color)
		return tagCreatedMsg{tag: tag, err: err}
	}
}

func (a *App) deleteTag(tag models.Tag) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := a.client.DeleteTag(ctx, tag.ID)
		return tagDeletedMsg{name: tag.Name, err: err}
	}
}

// pollInterval drives the upcoming-task poll that stands in for reminders
// while the push connection is down
const pollInterval = time.Minute

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (a *App) fetchUpcoming(minutes int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := a.client.UpcomingTasks(ctx, minutes)
		return upcomingLoadedMsg{tasks: tasks, err: err}
	}
}

// awaitReminders blocks on the push channel until the next batch arrives.
// Re-armed after every delivery.
func (a *App) awaitReminders() tea.Cmd {
	if a.channel == nil {
		return nil
	}
	return func() tea.Msg {
		batch, ok := <-a.channel.Batches()
		return reminderBatchMsg{batch: batch, ok: ok}
	}
}

func expireStatus(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}
