package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/store"
	"taskdeck/internal/timeutil"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// form field indices
const (
	fieldTitle = iota
	fieldDue
	fieldDesc
	fieldPriority
	fieldTags
	fieldNewTag
	fieldSave
	fieldCount
)

// tagPalette is the color swatch offered by the inline tag creator
var tagPalette = []string{
	"#3498db", "#9ece6a", "#e0af68", "#f7768e", "#bb9af7", "#95a5a6",
}

// TaskForm is the create form and the edit modal's buffer. All edits are
// local to the form until a submit succeeds; cancelling discards them.
type TaskForm struct {
	styles *styles.Styles
	keys   keys.KeyMap
	offset int

	editingID int64 // 0 while creating

	title    textinput.Model
	desc     textarea.Model
	due      textinput.Model
	priority int

	tags      []models.Tag
	selection *store.SelectionState
	tagCursor int

	newTagName textinput.Model
	colorIdx   int

	focus      int
	submitting bool
}

// NewTaskForm creates an empty form
func NewTaskForm(s *styles.Styles, km keys.KeyMap, offsetHours int) *TaskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DDTHH:MM"
	due.CharLimit = 16

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	newTagName := textinput.New()
	newTagName.Placeholder = "New tag name"
	newTagName.CharLimit = 50

	f := &TaskForm{
		styles:     s,
		keys:       km,
		offset:     offsetHours,
		title:      title,
		desc:       desc,
		due:        due,
		priority:   models.PriorityLow,
		selection:  store.NewSelectionState(),
		newTagName: newTagName,
	}
	f.setFocus(fieldTitle)
	return f
}

// SetTags replaces the selectable tag list
func (f *TaskForm) SetTags(tags []models.Tag) {
	f.tags = tags
	f.tagCursor = clamp(f.tagCursor, 0, max(0, len(tags)-1))
}

// Selection exposes the form's tag selection
func (f *TaskForm) Selection() *store.SelectionState {
	return f.selection
}

// SelectTag adds a tag to the selection (used after inline creation)
func (f *TaskForm) SelectTag(id int64) {
	f.selection.Add(id)
}

// EditingID returns the task being edited, zero while creating
func (f *TaskForm) EditingID() int64 {
	return f.editingID
}

// Submitting reports whether a submit is in flight
func (f *TaskForm) Submitting() bool {
	return f.submitting
}

// SetSubmitting toggles the in-flight guard
func (f *TaskForm) SetSubmitting(b bool) {
	f.submitting = b
}

// StartNew clears the form for task creation
func (f *TaskForm) StartNew() {
	f.editingID = 0
	f.title.Reset()
	f.desc.Reset()
	f.due.Reset()
	f.priority = models.PriorityLow
	f.selection.Clear()
	f.newTagName.Reset()
	f.tagCursor = 0
	f.submitting = false
	f.setFocus(fieldTitle)
}

// StartEdit fills the form from a task snapshot. The snapshot is copied into
// the form's own buffers; the store is untouched until submit succeeds.
func (f *TaskForm) StartEdit(task models.Task) {
	f.StartNew()
	f.editingID = task.ID
	f.title.SetValue(task.Title)
	f.desc.SetValue(task.Description)
	f.due.SetValue(timeutil.ToWallClock(task.DueDate, f.offset))
	f.priority = task.Priority

	ids := make([]int64, len(task.Tags))
	for i, tag := range task.Tags {
		ids[i] = tag.ID
	}
	f.selection.Reset(ids)
}

// Values returns the current buffer contents for submission
func (f *TaskForm) Values() FormSubmitted {
	return FormSubmitted{
		ID:          f.editingID,
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.desc.Value()),
		DueRaw:      strings.TrimSpace(f.due.Value()),
		Priority:    f.priority,
		TagIDs:      f.selection.IDs(),
	}
}

func (f *TaskForm) setFocus(field int) {
	f.focus = field
	f.title.Blur()
	f.due.Blur()
	f.desc.Blur()
	f.newTagName.Blur()

	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDue:
		f.due.Focus()
	case fieldDesc:
		f.desc.Focus()
	case fieldNewTag:
		f.newTagName.Focus()
	}
}

func (f *TaskForm) submitCmd() tea.Cmd {
	if f.submitting {
		return nil // a submit is already in flight
	}
	values := f.Values()
	return func() tea.Msg { return values }
}

// Update handles key input
func (f *TaskForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, f.keys.Back):
		return func() tea.Msg { return FormCancelled{} }

	case keyMsg.String() == "ctrl+s":
		return f.submitCmd()

	case key.Matches(keyMsg, f.keys.Tab):
		f.setFocus((f.focus + 1) % fieldCount)
		return nil

	case keyMsg.String() == "shift+tab":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	switch f.focus {
	case fieldTitle:
		if key.Matches(keyMsg, f.keys.Enter) {
			f.setFocus(fieldDue)
			return nil
		}
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(keyMsg)
		return cmd

	case fieldDue:
		if key.Matches(keyMsg, f.keys.Enter) {
			f.setFocus(fieldDesc)
			return nil
		}
		var cmd tea.Cmd
		f.due, cmd = f.due.Update(keyMsg)
		return cmd

	case fieldDesc:
		var cmd tea.Cmd
		f.desc, cmd = f.desc.Update(keyMsg)
		return cmd

	case fieldPriority:
		switch {
		case key.Matches(keyMsg, f.keys.Left):
			f.priority = clamp(f.priority-1, models.PriorityLow, models.PriorityHigh)
		case key.Matches(keyMsg, f.keys.Right), key.Matches(keyMsg, f.keys.Enter):
			f.priority = clamp(f.priority+1, models.PriorityLow, models.PriorityHigh)
		}
		return nil

	case fieldTags:
		switch {
		case key.Matches(keyMsg, f.keys.Up):
			f.tagCursor = clamp(f.tagCursor-1, 0, max(0, len(f.tags)-1))
		case key.Matches(keyMsg, f.keys.Down):
			f.tagCursor = clamp(f.tagCursor+1, 0, max(0, len(f.tags)-1))
		case key.Matches(keyMsg, f.keys.Enter), keyMsg.String() == " ":
			if len(f.tags) > 0 {
				f.selection.Toggle(f.tags[f.tagCursor].ID)
			}
		}
		return nil

	case fieldNewTag:
		switch {
		case key.Matches(keyMsg, f.keys.Up):
			f.colorIdx = mod(f.colorIdx-1, len(tagPalette))
		case key.Matches(keyMsg, f.keys.Down):
			f.colorIdx = mod(f.colorIdx+1, len(tagPalette))
		case key.Matches(keyMsg, f.keys.Enter):
			name := strings.TrimSpace(f.newTagName.Value())
			if name == "" {
				return nil
			}
			color := tagPalette[f.colorIdx]
			f.newTagName.Reset()
			return func() tea.Msg { return CreateTagRequest{Name: name, Color: color} }
		default:
			var cmd tea.Cmd
			f.newTagName, cmd = f.newTagName.Update(keyMsg)
			return cmd
		}
		return nil

	case fieldSave:
		if key.Matches(keyMsg, f.keys.Enter) {
			return f.submitCmd()
		}
	}
	return nil
}

// View renders the form
func (f *TaskForm) View(width int) string {
	s := f.styles

	formTitle := "New Task"
	if f.editingID != 0 {
		formTitle = "Edit Task"
	}

	inputWidth := clamp(width-8, 24, 50)

	style := func(field int) lipgloss.Style {
		if f.focus == field {
			return s.InputFocused
		}
		return s.Input
	}

	saveLabel := " Save "
	if f.submitting {
		saveLabel = " Saving... "
	}
	saveStyle := s.Button
	if f.focus == fieldSave {
		saveStyle = s.ButtonFocused
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		style(fieldTitle).Width(inputWidth).Render(f.title.View()),
		"",
		"Due ("+timeutil.WallClockLayout+"):",
		style(fieldDue).Width(24).Render(f.due.View()),
		"",
		"Description:",
		style(fieldDesc).Render(f.desc.View()),
		"",
		"Priority:",
		f.renderPriority(),
		"",
		"Tags:",
		f.renderTagSelector(style(fieldTags), inputWidth),
		"",
		"New tag:",
		f.renderNewTag(style(fieldNewTag), inputWidth),
		"",
		saveStyle.Render(saveLabel),
		"",
		s.Help.Render("tab next field · space toggle tag · ctrl+s save · esc cancel"),
	)
}

func (f *TaskForm) renderPriority() string {
	s := f.styles
	var parts []string
	for p := models.PriorityLow; p <= models.PriorityHigh; p++ {
		label := models.PriorityLabel(p)
		if p == f.priority {
			label = "[" + label + "]"
			if f.focus == fieldPriority {
				parts = append(parts, priorityStyle(s, p).Bold(true).Render(label))
				continue
			}
		}
		parts = append(parts, priorityStyle(s, p).Render(label))
	}
	return strings.Join(parts, "  ")
}

func (f *TaskForm) renderTagSelector(container lipgloss.Style, width int) string {
	s := f.styles

	if len(f.tags) == 0 {
		return container.Width(width).Render(s.TitleMuted.Render("No tags yet"))
	}

	var items []string
	for i, tag := range f.tags {
		checkbox := "[ ]"
		if f.selection.Has(tag.ID) {
			checkbox = "[x]"
		}
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		item := checkbox + " " + color.Render("●") + " " + tag.Name

		if f.focus == fieldTags && i == f.tagCursor {
			items = append(items, s.ListSelected.Render(item))
		} else {
			items = append(items, s.ListItem.Render(item))
		}
	}
	return container.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (f *TaskForm) renderNewTag(container lipgloss.Style, width int) string {
	color := lipgloss.NewStyle().Foreground(lipgloss.Color(tagPalette[f.colorIdx]))
	swatch := color.Render("●") + " " + f.styles.TitleMuted.Render(tagPalette[f.colorIdx])
	return container.Width(width).Render(f.newTagName.View() + "  " + swatch)
}
