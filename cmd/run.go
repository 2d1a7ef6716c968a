package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/iLeonidze/tg-attendances-bot/internal/attendance"
	"github.com/iLeonidze/tg-attendances-bot/internal/bot"
	"github.com/iLeonidze/tg-attendances-bot/internal/config"
	"github.com/iLeonidze/tg-attendances-bot/internal/db"
	"github.com/iLeonidze/tg-attendances-bot/internal/messages"
	"github.com/iLeonidze/tg-attendances-bot/internal/metrics"
	"github.com/iLeonidze/tg-attendances-bot/internal/report"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/internal/storage"
	"github.com/iLeonidze/tg-attendances-bot/internal/utils"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot and poll for updates until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		serviceConfig, err := config.Configure()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logging.Initialize(serviceConfig.BotConfig.Debug)
		defer logging.Release()

		if err := run(serviceConfig); err != nil {
			logging.Logger.Errorw("bot terminated with an error", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(serviceConfig *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageManager, err := storage.NewStorageManager(&serviceConfig.StorageConfig)
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(serviceConfig, storageManager)
	if err != nil {
		return err
	}
	defer closeStore()

	initialRoster := loadInitialRoster(storageManager)
	attendanceService, err := attendance.NewService(store, initialRoster)
	if err != nil {
		return err
	}

	reportGenerator, err := report.NewGenerator(storageManager, serviceConfig.ReportsConfig.CacheSize)
	if err != nil {
		return err
	}
	defer reportGenerator.Close()

	uploadValidator, err := roster.NewValidator(serviceConfig.StorageConfig.UploadPatterns)
	if err != nil {
		return err
	}

	messageCatalog, err := messages.Load(serviceConfig.MessagesConfig.Path)
	if err != nil {
		return err
	}

	botMetrics := metrics.New()
	if serviceConfig.MetricsConfig.Enabled {
		metricsServer := metrics.NewServer(&serviceConfig.MetricsConfig, botMetrics)
		go func() {
			if err := metricsServer.Run(); err != nil {
				logging.Logger.Errorw("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logging.Logger.Errorw("metrics server shutdown failed", "error", err)
			}
		}()
	}

	botAPI, err := tgbotapi.NewBotAPI(serviceConfig.BotConfig.Token)
	if err != nil {
		return err
	}
	botAPI.Debug = serviceConfig.BotConfig.Debug
	logging.Logger.Infow("authorized on telegram", "account", botAPI.Self.UserName)

	if serviceConfig.StorageConfig.AutosaveSeconds > 0 {
		flusher := utils.NewPeriodicRoutine(
			time.Duration(serviceConfig.StorageConfig.AutosaveSeconds)*time.Second,
			attendanceService.AutoFlush,
		)
		flusher.Start()
		defer flusher.Destroy()
	}

	botService := bot.NewService(botAPI, &bot.Deps{
		Attendance:    attendanceService,
		Reports:       reportGenerator,
		Storage:       storageManager,
		Uploads:       uploadValidator,
		Messages:      messageCatalog,
		Metrics:       botMetrics,
		BotConfig:     &serviceConfig.BotConfig,
		MaxReportDays: serviceConfig.ReportsConfig.MaxDays,
	})

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = serviceConfig.BotConfig.PollTimeout
	updates := botAPI.GetUpdatesChan(updateConfig)

	logging.Logger.Info("bot polling started")
	botService.Run(ctx, updates)
	botAPI.StopReceivingUpdates()

	if err := attendanceService.AutoFlush(); err != nil {
		logging.Logger.Errorw("final attendance flush failed", "error", err)
	}
	logging.Logger.Info("bot stopped")
	return nil
}

func buildStore(serviceConfig *config.Config, storageManager *storage.Manager) (attendance.Store, func(), error) {
	driver := serviceConfig.DatabaseConfig.Driver
	if driver == "" || driver == "json" {
		return attendance.NewFileStore(storageManager.AttendancePath()), func() {}, nil
	}
	database, err := db.NewSQLDatabase(&serviceConfig.DatabaseConfig)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := database.Close(); err != nil {
			logging.Logger.Errorw("error closing the database", "error", err)
		}
	}
	return db.NewAttendanceStore(database), closeStore, nil
}

func loadInitialRoster(storageManager *storage.Manager) *roster.Roster {
	initialRoster, err := roster.ParseFile(storageManager.RosterPath())
	if os.IsNotExist(err) {
		logging.Logger.Warnw("roster file not found, no groups loaded",
			"path", storageManager.RosterPath())
		return roster.Empty()
	}
	if err != nil {
		logging.Logger.Errorw("unable to load the stored roster, starting without groups",
			"path", storageManager.RosterPath(), "error", err)
		return roster.Empty()
	}
	return initialRoster
}
