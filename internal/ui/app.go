// Package ui holds the root application model. All mutable state lives here
// or in the stores it owns; child views only keep input state and render what
// they are handed.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"taskdeck/internal/api"
	"taskdeck/internal/feed"
	"taskdeck/internal/localdb"
	"taskdeck/internal/models"
	"taskdeck/internal/reminder"
	"taskdeck/internal/store"
	"taskdeck/internal/timeutil"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
	"taskdeck/internal/ui/views"
)

// View identifies the active surface
type View int

const (
	ViewAdd View = iota
	ViewToday
	ViewWeek
	ViewFilter
	ViewSearch
	ViewUsedTags
	ViewTag
	ViewInbox
)

var viewNames = map[View]string{
	ViewAdd:      "add",
	ViewToday:    "today",
	ViewWeek:     "week",
	ViewFilter:   "filter",
	ViewSearch:   "search",
	ViewUsedTags: "tags",
	ViewTag:      "tag",
	ViewInbox:    "inbox",
}

// navOrder is the tab cycle; the tag view is only reached through the
// used-tags list and does not sit in the cycle
var navOrder = []View{ViewAdd, ViewToday, ViewWeek, ViewFilter, ViewSearch, ViewUsedTags, ViewInbox}

var navLabels = map[View]string{
	ViewAdd:      "Add",
	ViewToday:    "Today",
	ViewWeek:     "Week",
	ViewFilter:   "Filter",
	ViewSearch:   "Search",
	ViewUsedTags: "Tags",
	ViewInbox:    "Inbox",
}

// Options configures the root model
type Options struct {
	Client   *api.Client
	Store    *store.TaskStore
	Feed     *feed.NotificationFeed
	DB       *localdb.DB
	Channel  *reminder.Channel
	Offset   int
	Username string
	LastView string
}

// App is the root model. It owns the API client, the task store, the
// notification feed and every view; children communicate back through
// messages, never by reaching into shared state.
type App struct {
	client  *api.Client
	store   *store.TaskStore
	feed    *feed.NotificationFeed
	db      *localdb.DB
	channel *reminder.Channel
	offset  int

	username string
	keys     keys.KeyMap
	styles   *styles.Styles

	width  int
	height int

	active View

	// Stale-fetch protection is scoped per target: the authoritative store
	// collections and the per-view surfaces refresh independently, so a view
	// switch must not invalidate an in-flight store refresh.
	storeGen int
	viewGen  int

	addForm  *views.TaskForm
	today    *views.TodayView
	week     *views.WeekView
	filter   *views.FilterView
	search   *views.SearchView
	usedTags *views.UsedTagsView
	tagView  *views.TagView
	inbox    *views.InboxView

	editForm  *views.TaskForm
	modalOpen bool

	weekStart string // empty = server's current week

	busy   map[int64]bool // task ids with a mutation in flight
	polled map[int64]bool // task ids already surfaced by the poll fallback

	status    string
	statusErr bool
	statusSeq int

	quitting bool
}

// NewApp builds the root model
func NewApp(opts Options) *App {
	s := styles.NewStyles()
	km := keys.DefaultKeyMap()

	a := &App{
		client:   opts.Client,
		store:    opts.Store,
		feed:     opts.Feed,
		db:       opts.DB,
		channel:  opts.Channel,
		offset:   opts.Offset,
		username: opts.Username,
		keys:     km,
		styles:   s,
		active:   ViewToday,
		addForm:  views.NewTaskForm(s, km, opts.Offset),
		today:    views.NewTodayView(s, km, opts.Offset),
		week:     views.NewWeekView(s, km),
		filter:   views.NewFilterView(s, km, opts.Offset),
		search:   views.NewSearchView(s, km, opts.Offset),
		usedTags: views.NewUsedTagsView(s, km),
		tagView:  views.NewTagView(s, km, opts.Offset),
		inbox:    views.NewInboxView(s, km, opts.Offset),
		editForm: views.NewTaskForm(s, km, opts.Offset),
		busy:     make(map[int64]bool),
		polled:   make(map[int64]bool),
	}

	for v, name := range viewNames {
		if name == opts.LastView && v != ViewTag {
			a.active = v
		}
	}
	a.inbox.SetMessages(a.feed.Messages())
	return a
}

// Init starts the initial loads and the reminder pump
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refreshAll(),
		a.awaitReminders(),
		pollTick(),
	)
}

// loadActive issues the single fetch the active view needs; surfaces derived
// from the in-memory store need none
func (a *App) loadActive() tea.Cmd {
	switch a.active {
	case ViewToday:
		return a.fetchToday(a.viewGen)
	case ViewWeek:
		return a.fetchWeek(a.viewGen, a.weekStart)
	case ViewFilter:
		return a.fetchFiltered(a.viewGen, a.filter.Query())
	case ViewSearch:
		return a.fetchSearch(a.viewGen, a.search.Term())
	}
	return nil
}

// refreshAll re-fetches the store collections and every fetched surface, so
// each view is current by the time the user switches to it. Each load fails
// independently; a surface whose fetch fails keeps its last good contents.
func (a *App) refreshAll() tea.Cmd {
	a.storeGen++
	a.viewGen++
	return tea.Batch(
		a.fetchAllTasks(a.storeGen),
		a.fetchTags(a.storeGen),
		a.fetchToday(a.viewGen),
		a.fetchWeek(a.viewGen, a.weekStart),
		a.fetchFiltered(a.viewGen, a.filter.Query()),
		a.fetchSearch(a.viewGen, a.search.Term()),
	)
}

// switchTo activates a view, resetting its transient input state and issuing
// its fetch. Previous in-flight results are invalidated by the generation bump.
func (a *App) switchTo(v View) tea.Cmd {
	a.active = v
	a.viewGen++
	a.modalOpen = false

	switch v {
	case ViewAdd:
		a.addForm.StartNew()
		a.addForm.SetTags(a.store.Tags())
	case ViewFilter:
		a.filter.Reset()
		a.filter.SetTags(a.store.Tags())
	case ViewSearch:
		a.search.Reset()
	case ViewWeek:
		a.weekStart = ""
		a.week.Reset()
	case ViewUsedTags:
		a.usedTags.SetTags(a.store.UsedTags(), a.store.TagUsageCounts())
	case ViewInbox:
		a.inbox.Reset()
		a.inbox.SetMessages(a.feed.Messages())
	}

	if a.db != nil {
		if err := a.db.SetSetting(localdb.SettingLastView, viewNames[v]); err != nil {
			logrus.WithError(err).Warn("could not persist last view")
		}
	}
	return a.loadActive()
}

func (a *App) cycleView(dir int) tea.Cmd {
	cur := 0
	for i, v := range navOrder {
		if v == a.active {
			cur = i
		}
	}
	next := navOrder[((cur+dir)%len(navOrder)+len(navOrder))%len(navOrder)]
	return a.switchTo(next)
}

func (a *App) setStatus(msg string, isErr bool) tea.Cmd {
	a.status = msg
	a.statusErr = isErr
	a.statusSeq++
	return expireStatus(a.statusSeq)
}

// fail routes a request error: auth failures clear stored credentials and end
// the session, everything else becomes a footer message.
func (a *App) fail(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		if a.db != nil {
			if dberr := a.db.ClearCredentials(); dberr != nil {
				logrus.WithError(dberr).Warn("could not clear credentials")
			}
		}
		a.quitting = true
		a.status = "session expired, log in again"
		a.statusErr = true
		return tea.Quit
	}
	logrus.WithError(err).Warn("request failed")
	return a.setStatus(err.Error(), true)
}

// Update is the single state-transition function
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case allTasksLoadedMsg:
		if msg.gen != a.storeGen {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.store.ReplaceAll(msg.tasks)
		a.refreshDerived()
		return a, nil

	case tagsLoadedMsg:
		if msg.gen != a.storeGen {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.store.ReplaceAllTags(msg.tags)
		a.refreshDerived()
		return a, nil

	case viewTasksLoadedMsg:
		if msg.gen != a.viewGen {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		switch msg.view {
		case ViewToday:
			a.today.SetTasks(msg.tasks)
		case ViewFilter:
			a.filter.SetTasks(msg.tasks)
		case ViewSearch:
			a.search.SetTasks(msg.tasks)
		}
		return a, nil

	case weekLoadedMsg:
		if msg.gen != a.viewGen {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.week.SetWeek(msg.stats, msg.days, timeutil.DateIn(time.Now(), a.offset))
		return a, nil

	case taskSavedMsg:
		form := a.formFor(msg.formID)
		form.SetSubmitting(false)
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		if msg.formID == 0 {
			a.addForm.StartNew()
			a.addForm.SetTags(a.store.Tags())
			return a, tea.Batch(a.setStatus("task created", false), a.refreshAll())
		}
		a.modalOpen = false
		return a, tea.Batch(a.setStatus("task updated", false), a.refreshAll())

	case taskMutatedMsg:
		delete(a.busy, msg.id)
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		return a, tea.Batch(a.setStatus("task "+msg.op+"d", false), a.refreshAll())

	case tagCreatedMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.formInFocus().SelectTag(msg.tag.ID)
		return a, tea.Batch(a.setStatus("tag created", false), a.refreshAll())

	case tagDeletedMsg:
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		return a, tea.Batch(a.setStatus("tag "+msg.name+" deleted", false), a.refreshAll())

	case pollTickMsg:
		// The poll only stands in while the push connection is down.
		if a.channel != nil && a.channel.State() == reminder.Connected {
			return a, pollTick()
		}
		return a, tea.Batch(a.fetchUpcoming(60), pollTick())

	case upcomingLoadedMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Debug("upcoming-task poll failed")
			return a, nil
		}
		var batch []models.ReminderTask
		for _, task := range msg.tasks {
			if a.polled[task.ID] || task.Completed {
				continue
			}
			a.polled[task.ID] = true
			batch = append(batch, models.ReminderTask{
				ID: task.ID, Title: task.Title, DueDate: task.DueDate,
			})
		}
		if len(batch) == 0 {
			return a, nil
		}
		a.feed.Ingest(batch)
		a.inbox.SetMessages(a.feed.Messages())
		return a, a.setStatus(fmt.Sprintf("%d task(s) due soon", len(batch)), false)

	case reminderBatchMsg:
		if !msg.ok {
			return a, nil
		}
		a.feed.Ingest(msg.batch)
		a.inbox.SetMessages(a.feed.Messages())
		return a, tea.Batch(
			a.setStatus(fmt.Sprintf("%d reminder(s) received", len(msg.batch)), false),
			a.awaitReminders(),
		)

	case statusExpiredMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil

	// view-emitted requests
	case views.TaskAction:
		return a, a.handleTaskAction(msg)

	case views.FormSubmitted:
		return a, a.handleSubmit(msg)

	case views.FormCancelled:
		if a.modalOpen {
			a.modalOpen = false
			return a, nil
		}
		if a.active == ViewAdd {
			return a, a.switchTo(ViewToday)
		}
		return a, nil

	case views.CreateTagRequest:
		return a, a.createTag(msg.Name, msg.Color)

	case views.DeleteTagRequest:
		return a, a.deleteTag(msg.Tag)

	case views.FilterChanged:
		a.viewGen++
		return a, a.fetchFiltered(a.viewGen, msg.Query)

	case views.SearchChanged:
		a.viewGen++
		return a, a.fetchSearch(a.viewGen, msg.Term)

	case views.WeekStartChanged:
		a.weekStart = msg.Date
		a.viewGen++
		return a, a.fetchWeek(a.viewGen, a.weekStart)

	case views.OpenTagView:
		a.active = ViewTag
		a.tagView.SetTag(msg.Tag, a.store.TasksWithTag(msg.Tag.ID))
		return a, nil

	case views.InboxOpen:
		a.feed.MarkRead(msg.MessageID)
		a.inbox.SetMessages(a.feed.Messages())
		if taskID, ok := a.feed.ResolveTask(msg.MessageID); ok {
			if task, found := a.store.FindByID(taskID); found {
				a.inbox.ShowDetail(&task)
			} else {
				a.inbox.ShowDetail(nil)
			}
		}
		return a, nil
	}

	return a, nil
}

// refreshDerived re-renders every surface that derives from the in-memory store
func (a *App) refreshDerived() {
	a.usedTags.SetTags(a.store.UsedTags(), a.store.TagUsageCounts())
	a.addForm.SetTags(a.store.Tags())
	a.editForm.SetTags(a.store.Tags())
	a.filter.SetTags(a.store.Tags())
	if a.active == ViewTag {
		tag := a.tagView.Tag()
		a.tagView.SetTag(tag, a.store.TasksWithTag(tag.ID))
	}
}

func (a *App) formFor(formID int64) *views.TaskForm {
	if formID == 0 {
		return a.addForm
	}
	return a.editForm
}

func (a *App) formInFocus() *views.TaskForm {
	if a.modalOpen {
		return a.editForm
	}
	return a.addForm
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || (key.Matches(msg, a.keys.Quit) && !a.typing()) {
		a.quitting = true
		return a, tea.Quit
	}

	if a.modalOpen {
		return a, a.editForm.Update(msg)
	}

	if !a.typing() {
		switch {
		case key.Matches(msg, a.keys.NextTab):
			return a, a.cycleView(1)
		case key.Matches(msg, a.keys.PrevTab):
			return a, a.cycleView(-1)
		case key.Matches(msg, a.keys.Refresh):
			return a, a.refreshAll()
		case key.Matches(msg, a.keys.New):
			return a, a.switchTo(ViewAdd)
		case key.Matches(msg, a.keys.Back) && a.active == ViewTag:
			return a, a.switchTo(ViewUsedTags)
		}
	}

	switch a.active {
	case ViewAdd:
		return a, a.addForm.Update(msg)
	case ViewToday:
		return a, a.today.Update(msg)
	case ViewWeek:
		return a, a.week.Update(msg)
	case ViewFilter:
		return a, a.filter.Update(msg)
	case ViewSearch:
		return a, a.search.Update(msg)
	case ViewUsedTags:
		return a, a.usedTags.Update(msg)
	case ViewTag:
		return a, a.tagView.Update(msg)
	case ViewInbox:
		return a, a.inbox.Update(msg)
	}
	return a, nil
}

// typing reports whether a text field currently owns the keyboard, in which
// case the single-letter shortcuts must pass through
func (a *App) typing() bool {
	if a.modalOpen {
		return true
	}
	switch a.active {
	case ViewAdd:
		return true
	case ViewSearch:
		return a.search.Typing()
	case ViewWeek:
		return a.week.Editing()
	}
	return false
}

func (a *App) handleTaskAction(msg views.TaskAction) tea.Cmd {
	switch msg.Act {
	case views.ActionComplete:
		if a.busy[msg.Task.ID] {
			return nil
		}
		a.busy[msg.Task.ID] = true
		return a.toggleTask(msg.Task.ID)

	case views.ActionDelete:
		if a.busy[msg.Task.ID] {
			return nil
		}
		a.busy[msg.Task.ID] = true
		return a.deleteTask(msg.Task.ID)

	case views.ActionEdit:
		a.editForm.StartEdit(msg.Task)
		a.editForm.SetTags(a.store.Tags())
		a.modalOpen = true
	}
	return nil
}

// handleSubmit validates the form values and issues the save. Validation
// failures never leave the client.
func (a *App) handleSubmit(msg views.FormSubmitted) tea.Cmd {
	form := a.formFor(msg.ID)

	// Commands deliver asynchronously, so two rapid submits can both reach
	// here; only the first may dispatch.
	if form.Submitting() {
		return nil
	}

	if strings.TrimSpace(msg.Title) == "" {
		return a.setStatus("title must not be empty", true)
	}
	due, err := timeutil.ToAbsolute(msg.DueRaw, a.offset)
	if err != nil {
		return a.setStatus(err.Error(), true)
	}
	// Only new tasks must be due in the future; edits may keep a past date.
	if msg.ID == 0 && !due.After(time.Now()) {
		return a.setStatus("due date must be in the future", true)
	}

	tagIDs := msg.TagIDs
	if len(tagIDs) == 0 {
		if tag, ok := a.store.FindTagByName(models.DefaultTagName); ok {
			tagIDs = []int64{tag.ID}
		}
	}

	form.SetSubmitting(true)
	payload := api.NewTaskPayload(msg.Title, msg.Description, due, msg.Priority, tagIDs)
	return a.saveTask(msg.ID, payload)
}

// View renders the frame
func (a *App) View() string {
	if a.quitting {
		if a.status != "" {
			return a.status + "\n"
		}
		return ""
	}
	if a.width == 0 {
		return "loading..."
	}

	width := styles.ContentWidth(a.width)

	var body string
	switch a.active {
	case ViewAdd:
		body = a.addForm.View(width)
	case ViewToday:
		body = a.today.View(width)
	case ViewWeek:
		body = a.week.View(width)
	case ViewFilter:
		body = a.filter.View(width)
	case ViewSearch:
		body = a.search.View(width)
	case ViewUsedTags:
		body = a.usedTags.View(width)
	case ViewTag:
		body = a.tagView.View(width)
	case ViewInbox:
		body = a.inbox.View(width)
	}

	if a.modalOpen {
		body = lipgloss.Place(width, max(a.height-4, 10),
			lipgloss.Center, lipgloss.Center,
			a.styles.Modal.Render(a.editForm.View(min(width-8, 60))))
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		a.renderNav(),
		"",
		body,
		"",
		a.renderFooter(),
	)
	return styles.CenterView(frame, a.width, a.height)
}

func (a *App) renderNav() string {
	s := a.styles

	var items []string
	for _, v := range navOrder {
		label := navLabels[v]
		if v == ViewInbox {
			if unread := a.feed.UnreadCount(); unread > 0 {
				label += " " + s.Badge.Render(fmt.Sprintf("%d", unread))
			}
		}
		style := s.NavItem
		if v == a.active || (v == ViewUsedTags && a.active == ViewTag) {
			style = s.NavActive
		}
		items = append(items, style.Render(label))
	}

	user := s.TitleMuted.Render(a.username)
	return lipgloss.JoinHorizontal(lipgloss.Center, items...) + "  " + user
}

func (a *App) renderFooter() string {
	s := a.styles

	link := "push: disconnected"
	if a.channel != nil {
		link = "push: " + a.channel.State().String()
	}

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = s.StatusErr.Render(a.status)
		} else {
			status = s.StatusOK.Render(a.status)
		}
	}

	help := s.Help.Render("[ ] switch view · n new · r refresh · q quit")
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.TitleMuted.Render(link), " ", status, " ", help)
}
