package bot

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iLeonidze/tg-attendances-bot/internal/attendance"
	"github.com/iLeonidze/tg-attendances-bot/internal/config"
	"github.com/iLeonidze/tg-attendances-bot/internal/messages"
	"github.com/iLeonidze/tg-attendances-bot/internal/metrics"
	"github.com/iLeonidze/tg-attendances-bot/internal/report"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/internal/storage"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// Client is the Bot API subset the handlers consume. *tgbotapi.BotAPI
// satisfies it; tests plug in a fake.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Deps struct {
	Attendance    *attendance.Service
	Reports       *report.Generator
	Storage       *storage.Manager
	Uploads       *roster.Validator
	Messages      *messages.Catalog
	Metrics       *metrics.Metrics
	BotConfig     *config.BotConfig
	MaxReportDays int
}

// Service consumes the update channel and drives the attendance flows.
// Updates are handled one at a time, in arrival order.
type Service struct {
	client     Client
	attendance *attendance.Service
	reports    *report.Generator
	storage    *storage.Manager
	uploads    *roster.Validator
	msgs       *messages.Catalog
	metrics    *metrics.Metrics
	botConfig  *config.BotConfig
	maxDays    int
	httpClient *http.Client

	mtx            sync.Mutex
	pendingReports map[int64]bool
}

func NewService(client Client, deps *Deps) *Service {
	return &Service{
		client:         client,
		attendance:     deps.Attendance,
		reports:        deps.Reports,
		storage:        deps.Storage,
		uploads:        deps.Uploads,
		msgs:           deps.Messages,
		metrics:        deps.Metrics,
		botConfig:      deps.BotConfig,
		maxDays:        deps.MaxReportDays,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		pendingReports: make(map[int64]bool),
	}
}

func (s *Service) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	logging.Logger.Info("bot update loop started")
	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("bot update loop stopping")
			return
		case update, ok := <-updates:
			if !ok {
				logging.Logger.Info("update channel closed")
				return
			}
			s.metrics.UpdatesTotal.Inc()
			s.handleUpdate(ctx, update)
		}
	}
}

func (s *Service) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		s.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	}
}

func (s *Service) authorized(userID int64) bool {
	for _, allowed := range s.botConfig.AllowedUserIds {
		if allowed == userID {
			return true
		}
	}
	return false
}

func (s *Service) awaitingReportDays(chatID int64) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.pendingReports[chatID]
}

func (s *Service) setAwaitingReportDays(chatID int64, awaiting bool) {
	s.mtx.Lock()
	if awaiting {
		s.pendingReports[chatID] = true
	} else {
		delete(s.pendingReports, chatID)
	}
	s.mtx.Unlock()
}

func (s *Service) reply(chatID int64, text string) {
	s.send(tgbotapi.NewMessage(chatID, text))
}

func (s *Service) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	s.send(msg)
}

func (s *Service) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	s.send(msg)
}

func (s *Service) send(c tgbotapi.Chattable) {
	if _, err := s.client.Send(c); err != nil {
		s.metrics.ErrorsTotal.Inc()
		logging.Logger.Errorw("failed to send message", "error", err)
	}
}
