package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/timeutil"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// InboxView shows the reminder inbox, newest first. Entries are never
// removed, only marked read; enter opens the referenced task.
type InboxView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	offset int

	messages []models.NotificationMessage
	cursor   int

	// detail is the task the selected message resolves to; nil when the
	// task no longer exists (deleted since the reminder was sent)
	detail     *models.Task
	showDetail bool
}

// NewInboxView creates the view
func NewInboxView(s *styles.Styles, km keys.KeyMap, offsetHours int) *InboxView {
	return &InboxView{styles: s, keys: km, offset: offsetHours}
}

// SetMessages replaces the inbox contents
func (v *InboxView) SetMessages(msgs []models.NotificationMessage) {
	v.messages = msgs
	v.cursor = clamp(v.cursor, 0, max(0, len(msgs)-1))
}

// ShowDetail displays the resolved task (or a placeholder when nil)
func (v *InboxView) ShowDetail(task *models.Task) {
	v.detail = task
	v.showDetail = true
}

// Reset leaves detail mode
func (v *InboxView) Reset() {
	v.showDetail = false
	v.detail = nil
}

// Update handles key input
func (v *InboxView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.showDetail {
		if key.Matches(keyMsg, v.keys.Back) || key.Matches(keyMsg, v.keys.Enter) {
			v.Reset()
		}
		return nil
	}

	switch {
	case key.Matches(keyMsg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, 0, max(0, len(v.messages)-1))

	case key.Matches(keyMsg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, max(0, len(v.messages)-1))

	case key.Matches(keyMsg, v.keys.Enter):
		if len(v.messages) > 0 {
			id := v.messages[v.cursor].ID
			return func() tea.Msg { return InboxOpen{MessageID: id} }
		}
	}
	return nil
}

// View renders the message list or the resolved task detail
func (v *InboxView) View(width int) string {
	s := v.styles

	if v.showDetail {
		return v.renderDetail(width)
	}

	unread := 0
	for _, m := range v.messages {
		if !m.Read {
			unread++
		}
	}
	header := s.Title.Render("Reminders") + "  " +
		s.TitleMuted.Render(fmt.Sprintf("%d unread", unread))

	if len(v.messages) == 0 {
		return header + "\n\n" + s.TitleMuted.Render("No reminders yet.")
	}

	var rows []string
	for i, m := range v.messages {
		marker := "● "
		if m.Read {
			marker = "  "
		}
		row := marker + m.Title + "  " +
			s.TitleMuted.Render("due "+timeutil.FormatDue(m.DueDate, v.offset))

		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		if m.Read {
			row = s.TitleMuted.Render(row)
		}
		rows = append(rows, style.Width(max(width-4, 20)).Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *InboxView) renderDetail(width int) string {
	s := v.styles

	if v.detail == nil {
		body := s.TitleMuted.Render("This task no longer exists.")
		return s.Modal.Render(body)
	}

	task := *v.detail
	desc := task.Description
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(task.Title),
		"",
		s.TitleMuted.Render("Due")+"  "+timeutil.FormatDue(task.DueDate, v.offset),
		s.TitleMuted.Render("Priority")+"  "+models.PriorityLabel(task.Priority),
		s.TitleMuted.Render("Tags")+"  "+renderTags(s, task.Tags),
		"",
		lipgloss.NewStyle().Width(clamp(width-10, 20, 70)).Render(desc),
		"",
		s.Help.Render("esc to close"),
	)
	return s.Modal.Render(body)
}
