package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"habit-tracker/internal/model"
	"habit-tracker/internal/repository"
)

// TrackerInput carries the data required to create or edit a tracker.
type TrackerInput struct {
	Name     string
	Emoji    string
	Color    string
	Schedule model.Schedule
	Category string
}

// TrackerService is the command layer over the store: it validates input,
// drives the repositories and publishes change notifications.
type TrackerService struct {
	trackerRepo  *repository.TrackerRepository
	categoryRepo *repository.CategoryRepository
	notifier     *Notifier
}

func NewTrackerService(trackerRepo *repository.TrackerRepository, categoryRepo *repository.CategoryRepository, notifier *Notifier) *TrackerService {
	return &TrackerService{trackerRepo: trackerRepo, categoryRepo: categoryRepo, notifier: notifier}
}

// Create inserts a new tracker into the named home category.
func (s *TrackerService) Create(ctx context.Context, input TrackerInput) (*model.Tracker, error) {
	tracker := &model.Tracker{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Emoji:    input.Emoji,
		Color:    input.Color,
		Schedule: input.Schedule,
	}
	if err := tracker.Validate(); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category title is empty", model.ErrValidation)
	}

	if err := s.trackerRepo.CreateWithCategory(ctx, tracker, category); err != nil {
		return nil, err
	}
	s.notifier.Notify()
	return tracker, nil
}

// Edit updates the tracker's mutable attributes. Changing the category of
// a pinned tracker changes its home category only; the tracker stays in
// the pinned container until unpinned.
func (s *TrackerService) Edit(ctx context.Context, id uuid.UUID, input TrackerInput) (*model.Tracker, error) {
	tracker := &model.Tracker{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Emoji:    input.Emoji,
		Color:    input.Color,
		Schedule: input.Schedule,
	}
	if err := tracker.Validate(); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category title is empty", model.ErrValidation)
	}

	if err := s.trackerRepo.Update(ctx, tracker, category); err != nil {
		return nil, err
	}
	s.notifier.Notify()
	return s.trackerRepo.FindByID(ctx, id)
}

// Delete removes the tracker and all its completion records.
func (s *TrackerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trackerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify()
	return nil
}

func (s *TrackerService) Get(ctx context.Context, id uuid.UUID) (*model.Tracker, error) {
	return s.trackerRepo.FindByID(ctx, id)
}

// FetchCategory returns the category with its current members, or nil.
func (s *TrackerService) FetchCategory(ctx context.Context, title string) (*model.TrackerCategory, error) {
	return s.categoryRepo.FindByTitle(ctx, title)
}

// CategoryTitles lists the titles offered in category pickers; the
// reserved pinned container is excluded.
func (s *TrackerService) CategoryTitles(ctx context.Context) ([]string, error) {
	return s.categoryRepo.ListTitles(ctx)
}

// CreateCategory adds an empty category. The reserved pinned key is not a
// valid user-facing title.
func (s *TrackerService) CreateCategory(ctx context.Context, title string) (*model.TrackerCategory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: category title is empty", model.ErrValidation)
	}
	if title == model.PinnedCategoryKey {
		return nil, fmt.Errorf("%w: category title %q is reserved", model.ErrValidation, title)
	}
	category, err := s.categoryRepo.GetOrCreate(ctx, title)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify()
	return category, nil
}
