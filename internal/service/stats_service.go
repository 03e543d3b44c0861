package service

import (
	"context"
	"time"

	"habit-tracker/internal/repository"
)

// Statistics aggregates the completion ledger for the statistics screen.
type Statistics struct {
	// CompletedTotal is the all-time number of completion records.
	CompletedTotal int64
	// PerfectDays counts days on which every tracker scheduled for that
	// day was completed.
	PerfectDays int
	// AveragePerDay is CompletedTotal spread over the days that have at
	// least one completion.
	AveragePerDay float64
}

// StatsService derives aggregates from trackers and completion records.
type StatsService struct {
	trackerRepo *repository.TrackerRepository
	recordRepo  *repository.RecordRepository
}

func NewStatsService(trackerRepo *repository.TrackerRepository, recordRepo *repository.RecordRepository) *StatsService {
	return &StatsService{trackerRepo: trackerRepo, recordRepo: recordRepo}
}

func (s *StatsService) Summary(ctx context.Context) (Statistics, error) {
	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		return Statistics{}, err
	}
	trackers, err := s.trackerRepo.ListAll(ctx)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{CompletedTotal: int64(len(records))}
	if len(records) == 0 {
		return stats, nil
	}

	byDay := make(map[string]map[string]bool)
	for _, record := range records {
		key := record.Day.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = make(map[string]bool)
		}
		byDay[key][record.TrackerID.String()] = true
	}

	for key, doneIDs := range byDay {
		day, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		perfect := true
		for _, tracker := range trackers {
			if !tracker.Schedule.ActiveOn(day) {
				continue
			}
			if !doneIDs[tracker.ID.String()] {
				perfect = false
				break
			}
		}
		if perfect {
			stats.PerfectDays++
		}
	}

	stats.AveragePerDay = float64(stats.CompletedTotal) / float64(len(byDay))
	return stats, nil
}
