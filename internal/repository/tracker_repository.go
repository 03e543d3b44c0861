package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habit-tracker/internal/model"
)

// TrackerRepository owns the mutation path for trackers. Every multi-step
// write runs in a transaction so readers never observe a tracker detached
// from one category but not yet attached to the next.
type TrackerRepository struct {
	db *gorm.DB
}

func NewTrackerRepository(db *gorm.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// CreateWithCategory inserts the tracker and attaches it to the named home
// category, creating the category when absent.
func (r *TrackerRepository) CreateWithCategory(ctx context.Context, tracker *model.Tracker, homeTitle string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := getOrCreateCategory(tx, homeTitle)
		if err != nil {
			return err
		}
		tracker.CategoryID = category.ID
		tracker.HomeCategory = homeTitle
		if err := tx.Create(tracker).Error; err != nil {
			return fmt.Errorf("create tracker: %w", err)
		}
		return nil
	})
}

func (r *TrackerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tracker, error) {
	var tracker model.Tracker
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tracker).Error
	switch {
	case err == nil:
		return &tracker, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("tracker %s: %w", id, model.ErrNotFound)
	default:
		return nil, fmt.Errorf("find tracker: %w", err)
	}
}

func (r *TrackerRepository) ListAll(ctx context.Context) ([]model.Tracker, error) {
	var trackers []model.Tracker
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&trackers).Error; err != nil {
		return nil, fmt.Errorf("list trackers: %w", err)
	}
	return trackers, nil
}

// Update rewrites the mutable attributes in place. When the home category
// changed, the tracker moves containers. A pinned tracker stays in the
// pinned container and the new home takes effect on unpin.
func (r *TrackerRepository) Update(ctx context.Context, tracker *model.Tracker, newHomeTitle string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Tracker
		err := tx.Where("id = ?", tracker.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tracker %s: %w", tracker.ID, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("find tracker: %w", err)
		}

		category, err := getOrCreateCategory(tx, newHomeTitle)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":          tracker.Name,
			"emoji":         tracker.Emoji,
			"color":         tracker.Color,
			"schedule":      tracker.Schedule,
			"home_category": newHomeTitle,
		}
		if !existing.Pinned {
			updates["category_id"] = category.ID
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update tracker: %w", err)
		}
		return nil
	})
}

// Delete removes the tracker and all its completion records. Unknown ids
// are a no-op, not an error.
func (r *TrackerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tracker_id = ?", id).Delete(&model.TrackerRecord{}).Error; err != nil {
			return fmt.Errorf("delete tracker records: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Tracker{}).Error; err != nil {
			return fmt.Errorf("delete tracker: %w", err)
		}
		return nil
	})
}

// SetPinned moves the tracker between its home category and the reserved
// pinned container. Returns false without touching anything when the
// tracker is already in the requested state.
func (r *TrackerRepository) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tracker model.Tracker
		err := tx.Where("id = ?", id).First(&tracker).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tracker %s: %w", id, model.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("find tracker: %w", err)
		}
		if tracker.Pinned == pinned {
			return nil
		}

		target := tracker.HomeCategory
		if pinned {
			target = model.PinnedCategoryKey
		}
		category, err := getOrCreateCategory(tx, target)
		if err != nil {
			return err
		}

		if err := tx.Model(&tracker).Updates(map[string]interface{}{
			"category_id": category.ID,
			"pinned":      pinned,
		}).Error; err != nil {
			return fmt.Errorf("move tracker: %w", err)
		}
		changed = true
		return nil
	})
	return changed, err
}
