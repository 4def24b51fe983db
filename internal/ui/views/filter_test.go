package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

func newFilter() *FilterView {
	v := NewFilterView(styles.NewStyles(), keys.DefaultKeyMap(), 8)
	v.SetTags([]models.Tag{
		{ID: 7, Name: "work", Color: "#3498db"},
		{ID: 9, Name: "home", Color: "#9ece6a"},
	})
	return v
}

func press(v *FilterView, msg tea.KeyMsg) {
	v.Update(msg)
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestFilterDefaultQueryIsEmpty(t *testing.T) {
	v := newFilter()
	assert.Equal(t, api.TaskQuery{}, v.Query())
}

func TestFilterCompletedCyclesThroughBlank(t *testing.T) {
	v := newFilter()

	press(v, keyRight)
	assert.Equal(t, "false", v.Query().Completed)

	press(v, keyRight)
	assert.Equal(t, "true", v.Query().Completed)

	press(v, keyRight)
	assert.Equal(t, "", v.Query().Completed, "third step wraps back to any")
}

func TestFilterTagControlMapsToID(t *testing.T) {
	v := newFilter()
	press(v, keyDown) // priority
	press(v, keyDown) // tag
	press(v, keyRight)
	assert.Equal(t, int64(7), v.Query().TagID)

	press(v, keyRight)
	assert.Equal(t, int64(9), v.Query().TagID)

	press(v, keyRight)
	assert.Zero(t, v.Query().TagID, "wraps back to any")
}

func TestFilterSortOrderOnlyWithSortBy(t *testing.T) {
	v := newFilter()
	press(v, keyDown) // priority
	press(v, keyDown) // tag
	press(v, keyDown) // sort by
	press(v, keyDown) // sort order
	press(v, keyRight)

	q := v.Query()
	assert.Empty(t, q.SortBy)
	assert.Empty(t, q.SortOrder, "order is omitted while sort by is unset")
}

func TestFilterSortByCarriesOrder(t *testing.T) {
	v := newFilter()
	press(v, keyDown) // priority
	press(v, keyDown) // tag
	press(v, keyDown) // sort by
	press(v, keyRight)

	q := v.Query()
	assert.Equal(t, "due_date", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
}

func TestFilterResetRestoresDefaults(t *testing.T) {
	v := newFilter()
	press(v, keyRight)
	press(v, keyDown)
	press(v, keyRight)

	v.Reset()
	assert.Equal(t, api.TaskQuery{}, v.Query())
}

func TestFilterEmitsFilterChanged(t *testing.T) {
	v := newFilter()
	cmd := v.Update(keyRight)
	assert.NotNil(t, cmd)

	msg, ok := cmd().(FilterChanged)
	assert.True(t, ok)
	assert.Equal(t, "false", msg.Query.Completed)
}

func TestFilterTagListShrinkResetsSelection(t *testing.T) {
	v := newFilter()
	press(v, keyDown)
	press(v, keyDown)
	press(v, keyRight)
	press(v, keyRight) // second tag selected

	v.SetTags([]models.Tag{{ID: 7, Name: "work"}})
	assert.Zero(t, v.Query().TagID)
}
