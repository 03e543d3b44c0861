package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLength bounds tracker display names, counted in runes.
const MaxNameLength = 38

// WeekDay numbers the days of the week Monday=0 through Sunday=6.
type WeekDay int

const (
	Monday WeekDay = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekDayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d WeekDay) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return weekDayNames[d]
}

// WeekdayOf converts a calendar date to the numbering used here.
// time.Weekday counts Sunday=0.
func WeekdayOf(t time.Time) WeekDay {
	return WeekDay((int(t.Weekday()) + 6) % 7)
}

// Schedule is a set of weekdays packed into the low seven bits of an
// integer. The zero value means the tracker is active every day.
type Schedule uint8

// NewSchedule builds a schedule containing the given weekdays.
func NewSchedule(days ...WeekDay) Schedule {
	var s Schedule
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s *Schedule) Add(d WeekDay) {
	if d >= Monday && d <= Sunday {
		*s |= 1 << uint(d)
	}
}

func (s *Schedule) Remove(d WeekDay) {
	if d >= Monday && d <= Sunday {
		*s &^= 1 << uint(d)
	}
}

func (s Schedule) Contains(d WeekDay) bool {
	return d >= Monday && d <= Sunday && s&(1<<uint(d)) != 0
}

// IsEmpty reports whether no weekday is set, i.e. an unscheduled event.
func (s Schedule) IsEmpty() bool { return s == 0 }

// Days lists the scheduled weekdays in Monday-first order.
func (s Schedule) Days() []WeekDay {
	var days []WeekDay
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// ActiveOn reports whether the tracker is visible on the given date:
// an empty schedule is active every day.
func (s Schedule) ActiveOn(t time.Time) bool {
	return s.IsEmpty() || s.Contains(WeekdayOf(t))
}

// Value stores the mask as an integer column.
func (s Schedule) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan restores the mask from an integer column.
func (s *Schedule) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = 0
	case int64:
		if v < 0 || v > 0x7f {
			return fmt.Errorf("schedule mask %d out of range", v)
		}
		*s = Schedule(v)
	default:
		return fmt.Errorf("cannot scan %T into Schedule", src)
	}
	return nil
}

// Tracker is a habit or one-off event being tracked. It sits in exactly
// one category container at a time: its home category, or the reserved
// pinned container while Pinned is true. HomeCategory keeps the title the
// tracker returns to on unpin.
type Tracker struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Emoji        string
	Color        string
	Schedule     Schedule `gorm:"type:integer"`
	Pinned       bool     `gorm:"default:false"`
	CategoryID   uint     `gorm:"index"`
	HomeCategory string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Records      []TrackerRecord `gorm:"foreignKey:TrackerID;constraint:OnDelete:CASCADE"`
}

// Validate checks the invariants the tracker owns itself.
func (t *Tracker) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("%w: tracker name is empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: tracker name longer than %d characters", ErrValidation, MaxNameLength)
	}
	return nil
}
