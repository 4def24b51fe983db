package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// UsedTagsView lists the tags with at least one task; selecting one opens
// the tag view. Derived locally, no round trip.
type UsedTagsView struct {
	styles *styles.Styles
	keys   keys.KeyMap

	tags   []models.Tag
	counts map[int64]int
	cursor int
}

// NewUsedTagsView creates the view
func NewUsedTagsView(s *styles.Styles, km keys.KeyMap) *UsedTagsView {
	return &UsedTagsView{styles: s, keys: km}
}

// SetTags replaces the used-tag list and its usage counts
func (v *UsedTagsView) SetTags(tags []models.Tag, counts map[int64]int) {
	v.tags = tags
	v.counts = counts
	v.cursor = clamp(v.cursor, 0, max(0, len(tags)-1))
}

// Update handles key input
func (v *UsedTagsView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, 0, max(0, len(v.tags)-1))

	case key.Matches(keyMsg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, max(0, len(v.tags)-1))

	case key.Matches(keyMsg, v.keys.Enter):
		if len(v.tags) > 0 {
			tag := v.tags[v.cursor]
			return func() tea.Msg { return OpenTagView{Tag: tag} }
		}

	case key.Matches(keyMsg, v.keys.Delete):
		if len(v.tags) > 0 {
			tag := v.tags[v.cursor]
			return func() tea.Msg { return DeleteTagRequest{Tag: tag} }
		}
	}
	return nil
}

// View renders the used-tag list with counts
func (v *UsedTagsView) View(width int) string {
	s := v.styles

	if len(v.tags) == 0 {
		return s.Title.Render("Used Tags") + "\n\n" +
			s.TitleMuted.Render("No tags in use.")
	}

	var rows []string
	for i, tag := range v.tags {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		row := color.Render("●") + " " + tag.Name + "  " +
			s.TitleMuted.Render(fmt.Sprintf("%d", v.counts[tag.ID]))

		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(max(width/2, 20)).Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Used Tags"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// TagView lists the tasks carrying one tag, filtered from the in-memory store
type TagView struct {
	TaskPane
	styles *styles.Styles
	keys   keys.KeyMap
	offset int

	tag models.Tag
}

// NewTagView creates the view
func NewTagView(s *styles.Styles, km keys.KeyMap, offsetHours int) *TagView {
	return &TagView{styles: s, keys: km, offset: offsetHours}
}

// SetTag sets the tag whose tasks are shown
func (v *TagView) SetTag(tag models.Tag, tasks []models.Task) {
	v.tag = tag
	v.SetTasks(tasks)
	v.cursor = 0
}

// Tag returns the currently shown tag
func (v *TagView) Tag() models.Tag {
	return v.tag
}

// Update handles key input
func (v *TagView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	return listKeys(keyMsg, v.keys, &v.TaskPane)
}

// View renders the tag's task list
func (v *TagView) View(width int) string {
	s := v.styles
	color := lipgloss.NewStyle().Foreground(lipgloss.Color(v.tag.Color))
	header := s.Title.Render("Tag: ") + color.Render("●") + " " + s.Title.Render(v.tag.Name)
	return header + "\n\n" + RenderTaskList(s, v.tasks, v.cursor, width, v.offset)
}
