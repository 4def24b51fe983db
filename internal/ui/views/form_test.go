package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

func newForm() *TaskForm {
	f := NewTaskForm(styles.NewStyles(), keys.DefaultKeyMap(), 8)
	f.SetTags([]models.Tag{
		{ID: 1, Name: "work", Color: "#3498db"},
		{ID: 2, Name: "home", Color: "#9ece6a"},
	})
	return f
}

func TestStartEditFillsBuffers(t *testing.T) {
	f := newForm()
	task := models.Task{
		ID:          42,
		Title:       "write report",
		Description: "quarterly numbers",
		DueDate:     time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), // 09:00 at UTC+8
		Priority:    models.PriorityHigh,
		Tags:        []models.Tag{{ID: 2, Name: "home"}},
	}

	f.StartEdit(task)
	v := f.Values()

	assert.Equal(t, int64(42), v.ID)
	assert.Equal(t, "write report", v.Title)
	assert.Equal(t, "quarterly numbers", v.Description)
	assert.Equal(t, "2024-03-01T09:00", v.DueRaw, "due is shown as the fixed-offset wall clock")
	assert.Equal(t, models.PriorityHigh, v.Priority)
	assert.Equal(t, []int64{2}, v.TagIDs)
}

func TestStartNewClearsEditState(t *testing.T) {
	f := newForm()
	f.StartEdit(models.Task{ID: 42, Title: "old", Tags: []models.Tag{{ID: 1}}})

	f.StartNew()
	v := f.Values()

	assert.Zero(t, v.ID)
	assert.Empty(t, v.Title)
	assert.Empty(t, v.DueRaw)
	assert.Equal(t, models.PriorityLow, v.Priority)
	assert.Empty(t, v.TagIDs)
}

func TestSubmitBlockedWhileInFlight(t *testing.T) {
	f := newForm()
	f.title.SetValue("something")
	f.SetSubmitting(true)

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd, "a second submit must not fire while one is pending")

	f.SetSubmitting(false)
	cmd = f.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(FormSubmitted)
	require.True(t, ok)
	assert.Equal(t, "something", msg.Title)
}

func TestCancelEmitsFormCancelled(t *testing.T) {
	f := newForm()
	f.title.SetValue("half typed")

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(FormCancelled)
	assert.True(t, ok)

	// cancelling does not wipe the buffer; the owner decides what happens next
	assert.Equal(t, "half typed", f.Values().Title)
}

func TestInlineTagCreation(t *testing.T) {
	f := newForm()
	f.setFocus(fieldNewTag)
	f.newTagName.SetValue("errands")

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(CreateTagRequest)
	require.True(t, ok)
	assert.Equal(t, "errands", msg.Name)
	assert.Equal(t, tagPalette[0], msg.Color)

	assert.Empty(t, f.newTagName.Value(), "name box clears after the request")
}

func TestInlineTagCreationIgnoresBlankName(t *testing.T) {
	f := newForm()
	f.setFocus(fieldNewTag)
	f.newTagName.SetValue("   ")

	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSelectTagAfterCreation(t *testing.T) {
	f := newForm()
	f.SelectTag(2)
	assert.Equal(t, []int64{2}, f.Values().TagIDs)

	// selecting again does not duplicate
	f.SelectTag(2)
	assert.Equal(t, []int64{2}, f.Values().TagIDs)
}
