package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habit-tracker/internal/model"
	"habit-tracker/internal/repository"
)

// CompletionService records and revokes one-per-day completion events.
// Toggles are idempotent; the command layer rejects future days while the
// record repository itself stays date-agnostic.
type CompletionService struct {
	recordRepo  *repository.RecordRepository
	trackerRepo *repository.TrackerRepository
	notifier    *Notifier

	now func() time.Time
}

func NewCompletionService(recordRepo *repository.RecordRepository, trackerRepo *repository.TrackerRepository, notifier *Notifier) *CompletionService {
	return &CompletionService{
		recordRepo:  recordRepo,
		trackerRepo: trackerRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// MarkComplete records a completion for (id, day). Duplicate requests are
// absorbed. Days after today fail with a validation error.
func (s *CompletionService) MarkComplete(ctx context.Context, id uuid.UUID, day time.Time) error {
	if model.DayOf(day).After(model.DayOf(s.now())) {
		return model.ErrFutureDate
	}
	if _, err := s.trackerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	created, err := s.recordRepo.Insert(ctx, id, day)
	if err != nil {
		return err
	}
	if created {
		s.notifier.Notify()
	}
	return nil
}

// MarkIncomplete deletes the completion for (id, day) if present.
func (s *CompletionService) MarkIncomplete(ctx context.Context, id uuid.UUID, day time.Time) error {
	removed, err := s.recordRepo.Remove(ctx, id, day)
	if err != nil {
		return err
	}
	if removed {
		s.notifier.Notify()
	}
	return nil
}

func (s *CompletionService) IsComplete(ctx context.Context, id uuid.UUID, day time.Time) (bool, error) {
	return s.recordRepo.Exists(ctx, id, day)
}

// Count returns the tracker's all-time completion count, used for the
// per-cell day counter and the statistics aggregates.
func (s *CompletionService) Count(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.recordRepo.CountByTracker(ctx, id)
}

// CompletedOn lists the trackers completed on the given day.
func (s *CompletionService) CompletedOn(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	return s.recordRepo.CompletedOn(ctx, day)
}
