package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habit-tracker/internal/bot"
	"habit-tracker/internal/config"
	"habit-tracker/internal/repository"
	"habit-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	chatRepo := repository.NewChatRepository(db)
	trackerRepo := repository.NewTrackerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	notifier := service.NewNotifier()
	trackerSvc := service.NewTrackerService(trackerRepo, categoryRepo, notifier)
	pinSvc := service.NewPinService(trackerRepo, notifier)
	completionSvc := service.NewCompletionService(recordRepo, trackerRepo, notifier)
	querySvc := service.NewQueryService(categoryRepo, recordRepo, notifier)
	reminderSvc := service.NewReminderService(trackerRepo, recordRepo)
	statsSvc := service.NewStatsService(trackerRepo, recordRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, chatRepo, trackerSvc, pinSvc, completionSvc, querySvc, reminderSvc, statsSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	sendReports := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("report: %v", err)
		}
	}
	if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, sendReports); err != nil {
		log.Fatalf("schedule daily report: %v", err)
	}
	if cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, sendReports); err != nil {
			log.Fatalf("schedule interval reports: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Habit tracker bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
