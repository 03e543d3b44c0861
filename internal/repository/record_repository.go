package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habit-tracker/internal/model"
)

// RecordRepository stores per-day completion records. The unique index on
// (tracker_id, day) makes inserts idempotent; days are normalized through
// model.DayOf before every read or write.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Insert stores a completion for the day. Returns false when a record for
// the pair already existed; duplicates are absorbed, never an error.
func (r *RecordRepository) Insert(ctx context.Context, trackerID uuid.UUID, day time.Time) (bool, error) {
	record := model.TrackerRecord{TrackerID: trackerID, Day: model.DayOf(day)}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return false, fmt.Errorf("create record: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the completion for the day if present. Returns false
// when there was nothing to delete.
func (r *RecordRepository) Remove(ctx context.Context, trackerID uuid.UUID, day time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("tracker_id = ? AND day = ?", trackerID, model.DayOf(day)).
		Delete(&model.TrackerRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("delete record: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *RecordRepository) Exists(ctx context.Context, trackerID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TrackerRecord{}).
		Where("tracker_id = ? AND day = ?", trackerID, model.DayOf(day)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count records: %w", err)
	}
	return count > 0, nil
}

// CountByTracker returns the tracker's all-time completion count.
func (r *RecordRepository) CountByTracker(ctx context.Context, trackerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TrackerRecord{}).
		Where("tracker_id = ?", trackerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (r *RecordRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TrackerRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// CompletedOn lists the ids of trackers completed on the given day.
func (r *RecordRepository) CompletedOn(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.TrackerRecord{}).
		Where("day = ?", model.DayOf(day)).
		Pluck("tracker_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list completed trackers: %w", err)
	}
	return ids, nil
}

// ListAll returns every completion record, oldest day first.
func (r *RecordRepository) ListAll(ctx context.Context) ([]model.TrackerRecord, error) {
	var records []model.TrackerRecord
	if err := r.db.WithContext(ctx).Order("day ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}
