package views

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

func TestBuildWeekCellsMarksToday(t *testing.T) {
	days := []models.WeekDay{
		{Date: "2024-03-01", DayName: "Friday", TaskCount: 2,
			Tasks: []models.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}},
		{Date: "2024-03-02", DayName: "Saturday", TaskCount: 0},
		{Date: "2024-03-03", DayName: "Sunday", TaskCount: 1,
			Tasks: []models.Task{{ID: 3, Title: "c"}}},
	}

	cells := BuildWeekCells(days, "2024-03-02")

	assert.Len(t, cells, 3)
	assert.False(t, cells[0].Today)
	assert.True(t, cells[1].Today)
	assert.False(t, cells[2].Today)

	// order and counts come straight from the server payload
	assert.Equal(t, "2024-03-01", cells[0].Date)
	assert.Equal(t, 2, cells[0].Count)
	assert.Len(t, cells[0].Tasks, 2)
	assert.Equal(t, "Sunday", cells[2].DayName)
}

func TestBuildWeekCellsNoMatchingToday(t *testing.T) {
	days := []models.WeekDay{{Date: "2024-03-01", DayName: "Friday"}}
	cells := BuildWeekCells(days, "2024-06-15")
	assert.False(t, cells[0].Today)
}

func TestBuildWeekCellsEmpty(t *testing.T) {
	assert.Empty(t, BuildWeekCells(nil, "2024-03-01"))
}

func TestClipRunesKeepsMultiByteRunesIntact(t *testing.T) {
	assert.Equal(t, "其他", clipRunes("其他", 3))
	assert.Equal(t, "其他提", clipRunes("其他提醒任务", 3))
	assert.Equal(t, "星期五", clipRunes("星期五", 3))
	assert.Equal(t, "abc", clipRunes("abcdef", 3))
	assert.Equal(t, "", clipRunes("任务", 0))

	for _, clipped := range []string{
		clipRunes("任务提醒测试", 1),
		clipRunes("任务提醒测试", 4),
	} {
		assert.True(t, utf8.ValidString(clipped))
	}
}

func TestRenderCellHandlesWideTitlesAndDayNames(t *testing.T) {
	v := NewWeekView(styles.NewStyles(), keys.DefaultKeyMap())
	cell := WeekCell{
		Date:    "2024-03-01",
		DayName: "星期五",
		Count:   1,
		Tasks:   []models.Task{{ID: 1, Title: "一个非常非常非常长的任务标题", Priority: 2}},
	}

	out := v.renderCell(cell, 10)
	assert.True(t, utf8.ValidString(out), "truncation must not split a rune")
	assert.Contains(t, out, "星期五")
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "03-01", shortDate("2024-03-01"))
	assert.Equal(t, "bad", shortDate("bad"))
	assert.Equal(t, "", shortDate(""))
}

func TestTaskPaneCursorClamping(t *testing.T) {
	var p TaskPane
	p.SetTasks([]models.Task{{ID: 1}, {ID: 2}, {ID: 3}})

	p.Move(10)
	sel, ok := p.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(3), sel.ID)

	// shrinking the list pulls the cursor back in range
	p.SetTasks([]models.Task{{ID: 1}})
	sel, ok = p.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	p.SetTasks(nil)
	_, ok = p.Selected()
	assert.False(t, ok)
}
