package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"habit-tracker/internal/model"
	"habit-tracker/internal/repository"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	trackerRepo *repository.TrackerRepository
	recordRepo  *repository.RecordRepository
}

func NewReminderService(trackerRepo *repository.TrackerRepository, recordRepo *repository.RecordRepository) *ReminderService {
	return &ReminderService{trackerRepo: trackerRepo, recordRepo: recordRepo}
}

// DailySummary renders the trackers scheduled for the given day, split
// into the ones still to do and the ones already completed.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	trackers, err := s.trackerRepo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	ids, err := s.recordRepo.CompletedOn(ctx, now)
	if err != nil {
		return "", err
	}
	completed := make(map[string]bool, len(ids))
	for _, id := range ids {
		completed[id.String()] = true
	}

	var due, done []model.Tracker
	for _, tracker := range trackers {
		if !tracker.Schedule.ActiveOn(now) {
			continue
		}
		if completed[tracker.ID.String()] {
			done = append(done, tracker)
		} else {
			due = append(due, tracker)
		}
	}

	sortByName := func(list []model.Tracker) {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	sortByName(due)
	sortByName(done)

	var builder strings.Builder
	builder.WriteString("📋 <b>Трекеры на сегодня</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString("🔥 <b>Осталось выполнить</b>\n")
	if len(due) == 0 {
		builder.WriteString("— всё выполнено, отличная работа\n")
	} else {
		for _, tracker := range due {
			builder.WriteString(formatTrackerLine(tracker))
		}
	}

	builder.WriteString("\n✅ <b>Выполнено</b>\n")
	if len(done) == 0 {
		builder.WriteString("— пока ничего\n")
	} else {
		for _, tracker := range done {
			builder.WriteString(formatTrackerLine(tracker))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTrackerLine(tracker model.Tracker) string {
	var sb strings.Builder
	emoji := strings.TrimSpace(tracker.Emoji)
	if emoji == "" {
		emoji = "•"
	}
	sb.WriteString(fmt.Sprintf("%s %s", emoji, html.EscapeString(strings.TrimSpace(tracker.Name))))
	if tracker.Pinned {
		sb.WriteString(" 📌")
	}
	sb.WriteByte('\n')
	return sb.String()
}
