package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// filter control indices
const (
	ctrlCompleted = iota
	ctrlPriority
	ctrlTag
	ctrlSortBy
	ctrlSortOrder
	ctrlCount
)

var (
	completedOptions = []string{"", "false", "true"}
	sortByOptions    = []string{"", "due_date", "priority", "created_at"}
	sortOrderOptions = []string{"asc", "desc"}
)

// FilterView builds a task query from five independent controls and shows
// the externally filtered result. Blank controls are omitted from the query.
type FilterView struct {
	TaskPane
	styles *styles.Styles
	keys   keys.KeyMap
	offset int

	tags []models.Tag

	control   int // focused control
	completed int // index into completedOptions
	priority  int // 0 = any, 1..3
	tagIdx    int // 0 = any, else tags[tagIdx-1]
	sortBy    int
	sortOrder int

	listFocused bool
}

// NewFilterView creates the view with all controls at their defaults
func NewFilterView(s *styles.Styles, km keys.KeyMap, offsetHours int) *FilterView {
	return &FilterView{styles: s, keys: km, offset: offsetHours}
}

// SetTags replaces the tag options
func (v *FilterView) SetTags(tags []models.Tag) {
	v.tags = tags
	if v.tagIdx > len(tags) {
		v.tagIdx = 0
	}
}

// Reset returns every control to its default ("any", ascending)
func (v *FilterView) Reset() {
	v.control = 0
	v.completed = 0
	v.priority = 0
	v.tagIdx = 0
	v.sortBy = 0
	v.sortOrder = 0
	v.listFocused = false
}

// Query assembles the outgoing parameters; controls left at "any" produce
// no parameter at all
func (v *FilterView) Query() api.TaskQuery {
	q := api.TaskQuery{
		Completed: completedOptions[v.completed],
		Priority:  v.priority,
		SortBy:    sortByOptions[v.sortBy],
	}
	if v.tagIdx > 0 {
		q.TagID = v.tags[v.tagIdx-1].ID
	}
	if v.sortBy > 0 {
		q.SortOrder = sortOrderOptions[v.sortOrder]
	}
	return q
}

func (v *FilterView) changed() tea.Cmd {
	q := v.Query()
	return func() tea.Msg { return FilterChanged{Query: q} }
}

// Update handles key input
func (v *FilterView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.listFocused {
		if key.Matches(keyMsg, v.keys.Tab) {
			v.listFocused = false
			return nil
		}
		return listKeys(keyMsg, v.keys, &v.TaskPane)
	}

	switch {
	case key.Matches(keyMsg, v.keys.Tab):
		v.listFocused = true

	case key.Matches(keyMsg, v.keys.Up):
		v.control = clamp(v.control-1, 0, ctrlCount-1)

	case key.Matches(keyMsg, v.keys.Down):
		v.control = clamp(v.control+1, 0, ctrlCount-1)

	case key.Matches(keyMsg, v.keys.Left):
		v.cycle(-1)
		return v.changed()

	case key.Matches(keyMsg, v.keys.Right), key.Matches(keyMsg, v.keys.Enter):
		v.cycle(1)
		return v.changed()
	}
	return nil
}

func (v *FilterView) cycle(dir int) {
	switch v.control {
	case ctrlCompleted:
		v.completed = mod(v.completed+dir, len(completedOptions))
	case ctrlPriority:
		v.priority = mod(v.priority+dir, 4)
	case ctrlTag:
		v.tagIdx = mod(v.tagIdx+dir, len(v.tags)+1)
	case ctrlSortBy:
		v.sortBy = mod(v.sortBy+dir, len(sortByOptions))
	case ctrlSortOrder:
		v.sortOrder = mod(v.sortOrder+dir, len(sortOrderOptions))
	}
}

func mod(v, n int) int {
	return ((v % n) + n) % n
}

// View renders the controls and the filtered list
func (v *FilterView) View(width int) string {
	s := v.styles

	labels := []string{
		"completed: " + labelOr(completedOptions[v.completed], "any"),
		"priority: " + priorityLabel(v.priority),
		"tag: " + v.tagLabel(),
		"sort by: " + labelOr(sortByOptions[v.sortBy], "default"),
		"order: " + sortOrderOptions[v.sortOrder],
	}

	var controls []string
	for i, label := range labels {
		style := s.TitleMuted
		if i == v.control && !v.listFocused {
			style = s.Title
		}
		controls = append(controls, style.Render(label))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		controls[0], "  ", controls[1], "  ", controls[2], "  ", controls[3], "  ", controls[4])

	cursor := -1
	if v.listFocused {
		cursor = v.cursor
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Filter"),
		"",
		bar,
		"",
		RenderTaskList(s, v.tasks, cursor, width, v.offset),
	)
}

func (v *FilterView) tagLabel() string {
	if v.tagIdx == 0 {
		return "any"
	}
	return v.tags[v.tagIdx-1].Name
}

func labelOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func priorityLabel(p int) string {
	if p == 0 {
		return "any"
	}
	return fmt.Sprintf("%d (%s)", p, models.PriorityLabel(p))
}
