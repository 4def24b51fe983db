package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/timeutil"
	"taskdeck/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// TaskPane is the cursor state shared by every task-list surface
type TaskPane struct {
	tasks  []models.Task
	cursor int
}

// SetTasks replaces the pane's contents, keeping the cursor in range
func (p *TaskPane) SetTasks(tasks []models.Task) {
	p.tasks = tasks
	p.cursor = clamp(p.cursor, 0, max(0, len(tasks)-1))
}

// Move shifts the cursor by delta
func (p *TaskPane) Move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, max(0, len(p.tasks)-1))
}

// Selected returns the task under the cursor
func (p *TaskPane) Selected() (models.Task, bool) {
	if len(p.tasks) == 0 {
		return models.Task{}, false
	}
	return p.tasks[p.cursor], true
}

// Tasks returns the pane's contents
func (p *TaskPane) Tasks() []models.Task {
	return p.tasks
}

// Len returns the number of tasks
func (p *TaskPane) Len() int {
	return len(p.tasks)
}

func priorityStyle(s *styles.Styles, priority int) lipgloss.Style {
	switch priority {
	case models.PriorityHigh:
		return s.PriorityHigh
	case models.PriorityMedium:
		return s.PriorityMed
	default:
		return s.PriorityLow
	}
}

// renderTags renders a task's tag chips in their own colors
func renderTags(s *styles.Styles, tags []models.Tag) string {
	if len(tags) == 0 {
		return s.TitleMuted.Render("no tags")
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color))
		parts[i] = color.Render("●") + " " + tag.Name
	}
	return strings.Join(parts, "  ")
}

// RenderTaskList is the stateless list rendering primitive: given tasks and
// a cursor it produces the frame for any list surface. cursor -1 renders
// without a selection.
func RenderTaskList(s *styles.Styles, tasks []models.Task, cursor, width, offsetHours int) string {
	if len(tasks) == 0 {
		return s.TitleMuted.Render("No tasks.")
	}

	rowWidth := max(width-4, 20)
	var rows []string
	for i, task := range tasks {
		title := task.Title
		if task.Completed {
			title = s.TaskDone.Render(title)
		}
		title = priorityStyle(s, task.Priority).Render("["+models.PriorityLabel(task.Priority)+"] ") + title

		meta := s.TitleMuted.Render("due "+timeutil.FormatDue(task.DueDate, offsetHours)) +
			"  " + renderTags(s, task.Tags)

		rowStyle := s.ListItem
		if i == cursor {
			rowStyle = s.ListSelected
		}
		row := lipgloss.JoinVertical(lipgloss.Left,
			rowStyle.Width(rowWidth).Render(title),
			rowStyle.Width(rowWidth).Render(meta),
		)
		rows = append(rows, row+"\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
