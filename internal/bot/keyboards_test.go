package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
)

func TestGroupSelectionKeyboard(t *testing.T) {
	keyboard := GroupSelectionKeyboard([]string{"Младшая", "Старшая"})
	require.Len(t, keyboard.InlineKeyboard, 2)

	first := keyboard.InlineKeyboard[0][0]
	assert.Equal(t, "Младшая", first.Text)
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, "group_select:0", *first.CallbackData)

	second := keyboard.InlineKeyboard[1][0]
	require.NotNil(t, second.CallbackData)
	assert.Equal(t, "group_select:1", *second.CallbackData)
}

func TestAttendanceKeyboardMarksPresentChildren(t *testing.T) {
	children := []string{"Анна", "Борис"}
	keyboard := AttendanceKeyboard(3, children, models.NewChildSet("Борис"))
	require.Len(t, keyboard.InlineKeyboard, 3)

	assert.Equal(t, "Анна", keyboard.InlineKeyboard[0][0].Text)
	assert.Equal(t, "✅ Борис", keyboard.InlineKeyboard[1][0].Text)
	require.NotNil(t, keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "attendance_toggle:3:0", *keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "attendance_toggle:3:1", *keyboard.InlineKeyboard[1][0].CallbackData)

	saveRow := keyboard.InlineKeyboard[2]
	require.Len(t, saveRow, 1)
	assert.Equal(t, "💾 Сохранить", saveRow[0].Text)
	require.NotNil(t, saveRow[0].CallbackData)
	assert.Equal(t, "attendance_save:3", *saveRow[0].CallbackData)
}

// Telegram rejects callback payloads over 64 bytes; index-based payloads
// must stay far below that even for large rosters.
func TestCallbackPayloadsStayWithinTelegramLimit(t *testing.T) {
	keyboard := AttendanceKeyboard(99999, []string{"Ребенок"}, models.NewChildSet())
	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			require.NotNil(t, button.CallbackData)
			assert.LessOrEqual(t, len(*button.CallbackData), 64)
		}
	}
}

func TestParseIndexes(t *testing.T) {
	data := []struct {
		name   string
		parts  []string
		count  int
		want   []int
		wantOk bool
	}{
		{name: "single", parts: []string{"group_select", "4"}, count: 1, want: []int{4}, wantOk: true},
		{name: "pair", parts: []string{"attendance_toggle", "1", "12"}, count: 2, want: []int{1, 12}, wantOk: true},
		{name: "missing", parts: []string{"attendance_toggle", "1"}, count: 2, wantOk: false},
		{name: "not-a-number", parts: []string{"group_select", "abc"}, count: 1, wantOk: false},
		{name: "negative", parts: []string{"group_select", "-1"}, count: 1, wantOk: false},
	}

	for _, tt := range data {
		t.Run(tt.name, func(t *testing.T) {
			indexes, ok := parseIndexes(tt.parts, tt.count)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, indexes)
			}
		})
	}
}
