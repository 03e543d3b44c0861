package service

import (
	"context"

	"github.com/google/uuid"

	"habit-tracker/internal/repository"
)

// PinService keeps the pin/home-category duality consistent: a tracker
// sits either in its home category or in the reserved pinned container,
// never both, never neither.
type PinService struct {
	trackerRepo *repository.TrackerRepository
	notifier    *Notifier
}

func NewPinService(trackerRepo *repository.TrackerRepository, notifier *Notifier) *PinService {
	return &PinService{trackerRepo: trackerRepo, notifier: notifier}
}

// Pin moves the tracker into the pinned container. Already-pinned
// trackers are a no-op. The home category attribute is left untouched so
// Unpin can restore it.
func (s *PinService) Pin(ctx context.Context, id uuid.UUID) error {
	changed, err := s.trackerRepo.SetPinned(ctx, id, true)
	if err != nil {
		return err
	}
	if changed {
		s.notifier.Notify()
	}
	return nil
}

// Unpin returns the tracker to its home category, recreating the category
// if it no longer exists. Not-pinned trackers are a no-op.
func (s *PinService) Unpin(ctx context.Context, id uuid.UUID) error {
	changed, err := s.trackerRepo.SetPinned(ctx, id, false)
	if err != nil {
		return err
	}
	if changed {
		s.notifier.Notify()
	}
	return nil
}
