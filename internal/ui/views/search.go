package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// SearchView passes a free-text term to the server; an empty term fetches
// everything
type SearchView struct {
	TaskPane
	styles *styles.Styles
	keys   keys.KeyMap
	offset int

	input       textinput.Model
	listFocused bool
}

// NewSearchView creates the view
func NewSearchView(s *styles.Styles, km keys.KeyMap, offsetHours int) *SearchView {
	input := textinput.New()
	input.Placeholder = "Search tasks..."
	input.CharLimit = 100

	return &SearchView{styles: s, keys: km, offset: offsetHours, input: input}
}

// Term returns the current search text
func (v *SearchView) Term() string {
	return v.input.Value()
}

// Typing reports whether the search box owns the keyboard
func (v *SearchView) Typing() bool {
	return !v.listFocused
}

// Reset clears the search box and focuses it
func (v *SearchView) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.listFocused = false
}

// Update handles key input; every edit re-issues the search
func (v *SearchView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.listFocused {
		if keyMsg.String() == "/" {
			v.listFocused = false
			v.input.Focus()
			return textinput.Blink
		}
		return listKeys(keyMsg, v.keys, &v.TaskPane)
	}

	switch {
	case key.Matches(keyMsg, v.keys.Back), key.Matches(keyMsg, v.keys.Enter):
		v.input.Blur()
		v.listFocused = true
		return nil
	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(keyMsg)
		term := v.input.Value()
		return tea.Batch(cmd, func() tea.Msg { return SearchChanged{Term: term} })
	}
}

// View renders the search box and results
func (v *SearchView) View(width int) string {
	s := v.styles

	inputStyle := s.Input
	if !v.listFocused {
		inputStyle = s.InputFocused
	}
	box := inputStyle.Width(clamp(width-6, 20, 50)).Render(v.input.View())

	cursor := -1
	if v.listFocused {
		cursor = v.cursor
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Search"),
		"",
		box,
		"",
		RenderTaskList(s, v.tasks, cursor, width, v.offset),
	)
}
