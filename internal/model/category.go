package model

import "time"

// PinnedCategoryKey is the internal title of the reserved container that
// holds pinned trackers. It is created lazily on first pin, never offered
// in category pickers and never shown to users as-is: presentation code
// maps the key to a localized label.
const PinnedCategoryKey = "__pinned__"

// TrackerCategory groups trackers. Title is the natural key; the surrogate
// id only exists for the membership foreign key.
type TrackerCategory struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Trackers  []Tracker `gorm:"foreignKey:CategoryID"`
}

// Reserved reports whether this is the pinned container.
func (c *TrackerCategory) Reserved() bool {
	return c.Title == PinnedCategoryKey
}
