package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// WeekCell is one renderable day of the calendar
type WeekCell struct {
	Date    string
	DayName string
	Today   bool
	Count   int
	Tasks   []models.Task
}

// BuildWeekCells turns the server's day buckets into renderable cells,
// marking the cell whose date matches today. Cells keep the order supplied.
func BuildWeekCells(days []models.WeekDay, today string) []WeekCell {
	cells := make([]WeekCell, len(days))
	for i, d := range days {
		cells[i] = WeekCell{
			Date:    d.Date,
			DayName: d.DayName,
			Today:   d.Date == today,
			Count:   d.TaskCount,
			Tasks:   d.Tasks,
		}
	}
	return cells
}

// WeekView shows the 7-day task calendar with an adjustable start date
type WeekView struct {
	styles *styles.Styles
	keys   keys.KeyMap

	days  []models.WeekDay
	stats models.Stats
	today string // YYYY-MM-DD in the fixed offset

	startInput textinput.Model
	editing    bool
}

// NewWeekView creates the view
func NewWeekView(s *styles.Styles, km keys.KeyMap) *WeekView {
	input := textinput.New()
	input.Placeholder = "YYYY-MM-DD"
	input.CharLimit = 10
	input.Width = 12

	return &WeekView{styles: s, keys: km, startInput: input}
}

// SetWeek replaces the calendar contents
func (v *WeekView) SetWeek(stats models.Stats, days []models.WeekDay, today string) {
	v.stats = stats
	v.days = days
	v.today = today
}

// Editing reports whether the date picker owns the keyboard
func (v *WeekView) Editing() bool {
	return v.editing
}

// Reset returns the date picker to its default state
func (v *WeekView) Reset() {
	v.editing = false
	v.startInput.Reset()
	v.startInput.Blur()
}

// Update handles key input
func (v *WeekView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.editing {
		switch {
		case key.Matches(keyMsg, v.keys.Back):
			v.editing = false
			v.startInput.Blur()
			return nil
		case key.Matches(keyMsg, v.keys.Enter):
			date := v.startInput.Value()
			v.editing = false
			v.startInput.Blur()
			return func() tea.Msg { return WeekStartChanged{Date: date} }
		default:
			var cmd tea.Cmd
			v.startInput, cmd = v.startInput.Update(keyMsg)
			return cmd
		}
	}

	if keyMsg.String() == "g" {
		v.editing = true
		v.startInput.Focus()
		return textinput.Blink
	}
	return nil
}

// View renders the stats header and the seven day cells
func (v *WeekView) View(width int) string {
	header := v.styles.Title.Render("Week") + "  " +
		v.styles.TitleMuted.Render(fmt.Sprintf("%d total · %d pending · %d done · %d today",
			v.stats.Total, v.stats.Pending, v.stats.Completed, v.stats.Today))

	picker := v.styles.TitleMuted.Render("start: ")
	if v.editing {
		picker += v.styles.InputFocused.Render(v.startInput.View())
	} else {
		picker += v.styles.TitleMuted.Render("press g to choose")
	}

	cells := BuildWeekCells(v.days, v.today)
	if len(cells) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, picker, "",
			v.styles.TitleMuted.Render("No week data."))
	}
	cellWidth := max((styles.ContentWidth(width)/len(cells))-4, 10)

	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = v.renderCell(cell, cellWidth)
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	return lipgloss.JoinVertical(lipgloss.Left, header, picker, "", grid)
}

// shortDate drops the year from a YYYY-MM-DD date
func shortDate(date string) string {
	if len(date) > 5 {
		return date[5:]
	}
	return date
}

// clipRunes limits s to n runes; titles and day names may be CJK, so byte
// slicing would split a rune mid-sequence
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func (v *WeekView) renderCell(cell WeekCell, width int) string {
	s := v.styles

	name := clipRunes(cell.DayName, 3)
	header := s.DayHeader.Render(name) + " " + s.TitleMuted.Render(shortDate(cell.Date))

	var lines []string
	lines = append(lines, header)
	for _, task := range cell.Tasks {
		title := task.Title
		if clipped := clipRunes(title, max(width-1, 1)); clipped != title {
			title = clipped + "…"
		}
		line := priorityStyle(s, task.Priority).Render("·") + " " + title
		if task.Completed {
			line = s.TaskDone.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, s.DayCount.Render(fmt.Sprintf("%d tasks", cell.Count)))

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	cellStyle := s.CalendarDay
	if cell.Today {
		cellStyle = s.CalendarToday
	}
	return cellStyle.Width(width).Render(body)
}
