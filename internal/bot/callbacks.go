package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iLeonidze/tg-attendances-bot/logging"
)

func (s *Service) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.From == nil {
		return
	}
	if !s.authorized(query.From.ID) {
		logging.Logger.Warnw("unauthorized callback attempt", "user-id", query.From.ID)
		// Answer anyway so the button leaves its loading state.
		if _, err := s.client.Request(tgbotapi.NewCallbackWithAlert(query.ID, s.msgs.Unauthorized)); err != nil {
			logging.Logger.Errorw("failed to answer callback query", "error", err)
		}
		return
	}
	if query.Data == "" || query.Message == nil {
		return
	}
	if _, err := s.client.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logging.Logger.Errorw("failed to answer callback query", "error", err)
	}

	day := s.attendance.CurrentDay()
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	parts := strings.Split(query.Data, ":")
	// Payloads are client-controlled; only known prefixes may become label
	// values, the rest share one bucket.
	action := parts[0]
	switch action {
	case CallbackGroupSelect, CallbackToggle, CallbackSave:
	default:
		action = "unknown"
	}
	s.metrics.CallbacksTotal.WithLabelValues(action).Inc()

	switch parts[0] {
	case CallbackGroupSelect:
		if groupIndex, ok := parseIndexes(parts, 1); ok {
			s.handleGroupSelection(chatID, messageID, groupIndex[0], day)
			return
		}
	case CallbackToggle:
		if indexes, ok := parseIndexes(parts, 2); ok {
			s.handleToggleAttendance(chatID, messageID, indexes[0], indexes[1], day)
			return
		}
	case CallbackSave:
		if groupIndex, ok := parseIndexes(parts, 1); ok {
			s.handleSaveAttendance(chatID, messageID, groupIndex[0], day)
			return
		}
	default:
		logging.Logger.Warnw("unhandled callback prefix", "data", query.Data)
		s.send(tgbotapi.NewEditMessageText(chatID, messageID,
			fmt.Sprintf(s.msgs.UnknownAction, query.Data)))
		return
	}
	logging.Logger.Errorw("invalid callback data", "data", query.Data)
	s.send(tgbotapi.NewEditMessageText(chatID, messageID,
		fmt.Sprintf(s.msgs.CallbackError, query.Data)))
}

func parseIndexes(parts []string, count int) ([]int, bool) {
	if len(parts) < count+1 {
		return nil, false
	}
	indexes := make([]int, count)
	for position := 0; position < count; position++ {
		value, err := strconv.Atoi(parts[position+1])
		if err != nil || value < 0 {
			return nil, false
		}
		indexes[position] = value
	}
	return indexes, true
}

func (s *Service) handleGroupSelection(chatID int64, messageID int, groupIndex int, day string) {
	groups := s.attendance.Groups()
	if groupIndex >= len(groups) {
		logging.Logger.Errorw("invalid group index", "index", groupIndex)
		return
	}
	group := groups[groupIndex]

	children := s.attendance.Children(group)
	if len(children) == 0 {
		s.send(tgbotapi.NewEditMessageText(chatID, messageID,
			fmt.Sprintf(s.msgs.MarkGroupEmpty, group)))
		return
	}

	present := s.attendance.Present(day, group)
	s.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID,
		fmt.Sprintf(s.msgs.MarkTitle, group, day),
		AttendanceKeyboard(groupIndex, children, present)))
}

func (s *Service) handleToggleAttendance(chatID int64, messageID int, groupIndex int, childIndex int, day string) {
	groups := s.attendance.Groups()
	if groupIndex >= len(groups) {
		logging.Logger.Errorw("invalid group index", "index", groupIndex)
		return
	}
	group := groups[groupIndex]

	children := s.attendance.Children(group)
	if childIndex >= len(children) {
		logging.Logger.Errorw("invalid child index", "index", childIndex, "group", group)
		return
	}
	child := children[childIndex]

	nowPresent, err := s.attendance.Toggle(day, group, child)
	if err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("failed to toggle attendance",
			"child", child, "group", group, "day", day, "error", err)
		return
	}
	s.metrics.MarksTotal.Inc()
	logging.Logger.Infow("attendance toggled", "child", child, "group", group,
		"day", day, "present", nowPresent)

	refreshed := s.attendance.Present(day, group)
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID,
		AttendanceKeyboard(groupIndex, children, refreshed))
	if _, err := s.client.Send(edit); err != nil {
		// Telegram rejects edits when the markup did not change.
		logging.Logger.Warnw("could not edit reply markup", "error", err)
	}
}

func (s *Service) handleSaveAttendance(chatID int64, messageID int, groupIndex int, day string) {
	groups := s.attendance.Groups()
	if groupIndex >= len(groups) {
		logging.Logger.Errorw("invalid group index", "index", groupIndex)
		return
	}
	group := groups[groupIndex]

	if err := s.attendance.Flush(); err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("failed to save attendance", "day", day, "error", err)
		s.send(tgbotapi.NewEditMessageText(chatID, messageID, s.msgs.SaveFailed))
		return
	}
	s.reports.Invalidate()
	logging.Logger.Infow("attendance saved", "group", group, "day", day)
	s.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID,
		fmt.Sprintf(s.msgs.SaveOk, group, day),
		GroupSelectionKeyboard(groups)))
}
