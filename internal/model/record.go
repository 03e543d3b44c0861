package model

import (
	"time"

	"github.com/google/uuid"
)

// TrackerRecord marks a tracker as completed on one calendar day.
// The unique index keeps completion a boolean per day, not a counter.
type TrackerRecord struct {
	ID        uint      `gorm:"primaryKey"`
	TrackerID uuid.UUID `gorm:"type:uuid;index:idx_tracker_day,unique"`
	Day       time.Time `gorm:"index:idx_tracker_day,unique"`
	CreatedAt time.Time
}

// DayOf strips the time-of-day component, anchoring the calendar day of t
// (in its own location) at midnight UTC. All record lookups normalize
// through this so equality on Day is exact.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
