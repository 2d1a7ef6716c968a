package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iLeonidze/tg-attendances-bot/internal/report"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

func (s *Service) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !s.authorized(msg.From.ID) {
		logging.Logger.Warnw("unauthorized access attempt", "user-id", msg.From.ID)
		s.reply(msg.Chat.ID, s.msgs.Unauthorized)
		return
	}
	switch {
	case msg.IsCommand():
		s.handleCommand(msg)
	case msg.Document != nil:
		s.handleDocument(ctx, msg)
	case s.awaitingReportDays(msg.Chat.ID) && msg.Text != "":
		s.handleReportDays(ctx, msg)
	}
}

func (s *Service) handleCommand(msg *tgbotapi.Message) {
	command := msg.Command()
	s.metrics.CommandsTotal.WithLabelValues(command).Inc()
	switch command {
	case "start":
		name := tgbotapi.EscapeText(tgbotapi.ModeMarkdown, msg.From.FirstName)
		s.replyMarkdown(msg.Chat.ID, fmt.Sprintf(s.msgs.Welcome, name))
	case "upload":
		s.replyMarkdown(msg.Chat.ID,
			fmt.Sprintf(s.msgs.UploadPrompt, roster.GroupColumn, roster.ChildColumn))
	case "mark":
		groups := s.attendance.Groups()
		if len(groups) == 0 {
			s.reply(msg.Chat.ID, s.msgs.MarkNoGroups)
			return
		}
		s.replyWithKeyboard(msg.Chat.ID, s.msgs.MarkChooseGroup, GroupSelectionKeyboard(groups))
	case "report":
		if s.attendance.Roster().IsEmpty() {
			s.reply(msg.Chat.ID, s.msgs.ReportNoGroups)
			return
		}
		if !s.attendance.HasAttendance() {
			s.reply(msg.Chat.ID, s.msgs.ReportNoAttendance)
			return
		}
		s.setAwaitingReportDays(msg.Chat.ID, true)
		s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.ReportAskDays, s.maxReportDays()))
	case "purge_stale":
		s.handlePurgeStale(msg)
	case "cancel":
		s.setAwaitingReportDays(msg.Chat.ID, false)
		s.reply(msg.Chat.ID, s.msgs.Cancelled)
	default:
		logging.Logger.Debugw("ignoring unknown command", "command", command)
	}
}

func (s *Service) handlePurgeStale(msg *tgbotapi.Message) {
	removedGroups, removedChildren, err := s.attendance.PurgeStale()
	if err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("failed to purge stale attendance entries", "error", err)
		s.reply(msg.Chat.ID, s.msgs.SaveFailed)
		return
	}
	if removedGroups > 0 || removedChildren > 0 {
		s.reports.Invalidate()
		s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.PurgeResult, removedGroups, removedChildren))
		return
	}
	s.reply(msg.Chat.ID, s.msgs.PurgeNothing)
}

func (s *Service) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	document := msg.Document
	if document.FileName == "" || !s.uploads.NameAllowed(document.FileName) {
		s.reply(msg.Chat.ID, s.msgs.UploadBadExtension)
		return
	}
	newRoster, err := s.fetchAndParseRoster(ctx, document.FileID)
	if err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("roster upload failed", "file", document.FileName, "error", err)
		s.reply(msg.Chat.ID, s.uploadErrorMessage(err))
		return
	}
	s.attendance.SetRoster(newRoster)
	s.reports.Invalidate()
	logging.Logger.Infow("roster replaced", "file", document.FileName,
		"groups", newRoster.GroupCount())
	s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.RosterLoaded, newRoster.GroupCount()))
}

func (s *Service) fetchAndParseRoster(ctx context.Context, fileID string) (*roster.Roster, error) {
	url, err := s.client.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", response.StatusCode)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	tempPath := s.storage.TempUploadPath()
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return nil, err
	}
	newRoster, err := roster.ParseFile(tempPath)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, err
	}
	if err := os.Rename(tempPath, s.storage.RosterPath()); err != nil {
		_ = os.Remove(tempPath)
		return nil, err
	}
	return newRoster, nil
}

func (s *Service) uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, roster.ErrMissingColumns):
		return fmt.Sprintf(s.msgs.RosterMissingColumns, roster.GroupColumn, roster.ChildColumn)
	case errors.Is(err, roster.ErrBlankCell):
		return s.msgs.RosterBlankCells
	case errors.Is(err, roster.ErrNotSpreadsheet):
		return s.msgs.UploadBadExtension
	case errors.Is(err, roster.ErrNoSheets):
		return fmt.Sprintf(s.msgs.RosterUnreadable, err)
	default:
		return fmt.Sprintf(s.msgs.UploadFailed, err)
	}
}

func (s *Service) handleReportDays(ctx context.Context, msg *tgbotapi.Message) {
	maxDays := s.maxReportDays()
	days, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		s.reply(msg.Chat.ID, s.msgs.ReportBadNumber)
		return
	}
	if days <= 0 || days > maxDays {
		s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.ReportOutOfRange, maxDays))
		return
	}
	s.setAwaitingReportDays(msg.Chat.ID, false)
	s.reply(msg.Chat.ID, s.msgs.ReportGenerating)

	path, err := s.reports.Generate(ctx, s.attendance.Roster(), s.attendance.Snapshot(), days)
	if errors.Is(err, report.ErrNoData) {
		s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.ReportNoData, days))
		return
	}
	if err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("report generation failed", "days", days, "error", err)
		s.reply(msg.Chat.ID, s.msgs.ReportFailed)
		return
	}

	document := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(path))
	document.Caption = fmt.Sprintf(s.msgs.ReportCaption, days)
	if _, err := s.client.Send(document); err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("failed to send report document", "path", path, "error", err)
		s.reply(msg.Chat.ID, fmt.Sprintf(s.msgs.ReportSendFailed, err))
		return
	}
	s.metrics.ReportsTotal.Inc()
}

func (s *Service) maxReportDays() int {
	if s.maxDays > 0 {
		return s.maxDays
	}
	return 365
}
