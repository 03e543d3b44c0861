package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"habit-tracker/internal/model"
)

// CategoryRepository manages tracker categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// getOrCreateCategory looks a category up by title inside the given
// handle, creating it when absent. Shared with the tracker repository so
// category creation stays inside the same transaction as the write that
// needs it.
func getOrCreateCategory(tx *gorm.DB, title string) (*model.TrackerCategory, error) {
	var category model.TrackerCategory
	err := tx.Where("title = ?", title).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.TrackerCategory{Title: title}
		if err := tx.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		return &category, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) GetOrCreate(ctx context.Context, title string) (*model.TrackerCategory, error) {
	return getOrCreateCategory(r.db.WithContext(ctx), title)
}

// FindByTitle returns the category with its current members, or nil when
// no category carries the title.
func (r *CategoryRepository) FindByTitle(ctx context.Context, title string) (*model.TrackerCategory, error) {
	var category model.TrackerCategory
	err := r.db.WithContext(ctx).Preload("Trackers").Where("title = ?", title).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

// ListAll returns every category with its members, ordered by title.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.TrackerCategory, error) {
	var categories []model.TrackerCategory
	if err := r.db.WithContext(ctx).Preload("Trackers").Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListTitles returns user-facing category titles, excluding the reserved
// pinned container.
func (r *CategoryRepository) ListTitles(ctx context.Context) ([]string, error) {
	var titles []string
	if err := r.db.WithContext(ctx).Model(&model.TrackerCategory{}).
		Where("title <> ?", model.PinnedCategoryKey).
		Order("title ASC").
		Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("list category titles: %w", err)
	}
	return titles, nil
}
