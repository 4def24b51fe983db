package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// TodayView lists the tasks due within the current calendar day. The task
// subset is computed by the server and trusted as-is.
type TodayView struct {
	TaskPane
	styles *styles.Styles
	keys   keys.KeyMap
	offset int
}

// NewTodayView creates the view
func NewTodayView(s *styles.Styles, km keys.KeyMap, offsetHours int) *TodayView {
	return &TodayView{styles: s, keys: km, offset: offsetHours}
}

// Update handles key input
func (v *TodayView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	return listKeys(keyMsg, v.keys, &v.TaskPane)
}

// View renders the today list
func (v *TodayView) View(width int) string {
	header := v.styles.Title.Render("Today")
	return header + "\n\n" + RenderTaskList(v.styles, v.tasks, v.cursor, width, v.offset)
}

// listKeys maps the standard list bindings onto a pane, emitting TaskAction
// requests for the row operations
func listKeys(msg tea.KeyMsg, km keys.KeyMap, pane *TaskPane) tea.Cmd {
	switch {
	case key.Matches(msg, km.Up):
		pane.Move(-1)

	case key.Matches(msg, km.Down):
		pane.Move(1)

	case key.Matches(msg, km.Toggle):
		if task, ok := pane.Selected(); ok {
			return actionCmd(task, ActionComplete)
		}

	case key.Matches(msg, km.Delete):
		if task, ok := pane.Selected(); ok {
			return actionCmd(task, ActionDelete)
		}

	case key.Matches(msg, km.Edit):
		if task, ok := pane.Selected(); ok {
			return actionCmd(task, ActionEdit)
		}
	}
	return nil
}

func actionCmd(task models.Task, act Action) tea.Cmd {
	return func() tea.Msg {
		return TaskAction{Task: task, Act: act}
	}
}
