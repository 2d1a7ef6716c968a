package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
)

// Callback payload prefixes. Payloads carry list indices rather than names:
// Telegram limits callback data to 64 bytes.
const (
	CallbackGroupSelect = "group_select"
	CallbackToggle      = "attendance_toggle"
	CallbackSave        = "attendance_save"
)

const (
	checkMarkIcon   = "✅"
	saveButtonLabel = "💾 Сохранить"
)

func GroupSelectionKeyboard(groups []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(groups))
	for index, group := range groups {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(group,
				fmt.Sprintf("%s:%d", CallbackGroupSelect, index)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func AttendanceKeyboard(groupIndex int, children []string, present models.ChildSet) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(children)+1)
	for childIndex, child := range children {
		label := child
		if present.Has(child) {
			label = checkMarkIcon + " " + child
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label,
				fmt.Sprintf("%s:%d:%d", CallbackToggle, groupIndex, childIndex)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(saveButtonLabel,
			fmt.Sprintf("%s:%d", CallbackSave, groupIndex)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
