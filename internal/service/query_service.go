package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"habit-tracker/internal/model"
	"habit-tracker/internal/repository"
)

// CompletionFilter selects which completion-state predicate applies.
type CompletionFilter int

const (
	// FilterAll shows every tracker active on the reference date.
	FilterAll CompletionFilter = iota
	// FilterToday shows trackers scheduled for today regardless of the
	// reference date.
	FilterToday
	// FilterCompleted shows trackers completed on the reference date.
	FilterCompleted
	// FilterNotCompleted shows trackers scheduled for the reference date
	// but not completed on it.
	FilterNotCompleted
)

// Section is one category's worth of visible trackers, in display order.
type Section struct {
	Title    string
	Trackers []model.Tracker
}

// QueryService composes the active predicates into the sectioned view the
// presentation layer renders. It holds only filter state and a cache of
// the last evaluation; the cache is dropped whenever the store changes or
// a predicate is adjusted.
type QueryService struct {
	categoryRepo *repository.CategoryRepository
	recordRepo   *repository.RecordRepository

	mu       sync.Mutex
	name     string
	refDate  time.Time
	mode     CompletionFilter
	category string

	cache   []Section
	cacheOK bool

	now func() time.Time
}

// NewQueryService builds a query engine subscribed to the notifier. The
// reference date starts at today with no name or category restriction.
func NewQueryService(categoryRepo *repository.CategoryRepository, recordRepo *repository.RecordRepository, notifier *Notifier) *QueryService {
	q := &QueryService{
		categoryRepo: categoryRepo,
		recordRepo:   recordRepo,
		refDate:      time.Now(),
		now:          time.Now,
	}
	if notifier != nil {
		notifier.Subscribe(q.invalidate)
	}
	return q
}

func (q *QueryService) invalidate() {
	q.mu.Lock()
	q.cache = nil
	q.cacheOK = false
	q.mu.Unlock()
}

// SetNameFilter sets the case-insensitive name prefix. An empty string
// disables the predicate.
func (q *QueryService) SetNameFilter(text string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.name = strings.TrimSpace(text)
	q.cacheOK = false
}

// SetReferenceDate sets the date whose weekday drives visibility.
func (q *QueryService) SetReferenceDate(date time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refDate = date
	q.cacheOK = false
}

func (q *QueryService) SetCompletionFilter(mode CompletionFilter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.mode = mode
	q.cacheOK = false
}

// SetCategoryFilter restricts the view to a single category title. An
// empty string removes the restriction.
func (q *QueryService) SetCategoryFilter(title string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.category = strings.TrimSpace(title)
	q.cacheOK = false
}

// ReferenceDate returns the date the view is anchored to.
func (q *QueryService) ReferenceDate() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.refDate
}

func (q *QueryService) CompletionMode() CompletionFilter {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mode
}

// Evaluate returns the filtered, sectioned tracker view. It is
// side-effect-free with respect to store state and may be called
// repeatedly; sections with no matching trackers are omitted.
func (q *QueryService) Evaluate(ctx context.Context) ([]Section, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cacheOK {
		return q.cache, nil
	}

	date := q.refDate
	if q.mode == FilterToday {
		date = q.now()
	}

	var completed map[uuid.UUID]bool
	if q.mode == FilterCompleted || q.mode == FilterNotCompleted {
		ids, err := q.recordRepo.CompletedOn(ctx, date)
		if err != nil {
			return nil, err
		}
		completed = make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			completed[id] = true
		}
	}

	categories, err := q.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	prefix := strings.ToLower(q.name)
	sections := make([]Section, 0, len(categories))
	for _, category := range categories {
		if q.category != "" && category.Title != q.category {
			continue
		}
		var matched []model.Tracker
		for _, tracker := range category.Trackers {
			if !q.matches(tracker, date, prefix, completed) {
				continue
			}
			matched = append(matched, tracker)
		}
		if len(matched) == 0 {
			continue
		}
		sort.Slice(matched, func(i, j int) bool {
			a, b := matched[i], matched[j]
			if !strings.EqualFold(a.Name, b.Name) {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			return a.ID.String() < b.ID.String()
		})
		sections = append(sections, Section{Title: category.Title, Trackers: matched})
	}

	// Pinned surfaces first, the rest sort by title case-insensitively
	// with byte order as the tie-break.
	sort.Slice(sections, func(i, j int) bool {
		a, b := sections[i].Title, sections[j].Title
		if a == model.PinnedCategoryKey {
			return true
		}
		if b == model.PinnedCategoryKey {
			return false
		}
		la, lb := strings.ToLower(a), strings.ToLower(b)
		if la != lb {
			return la < lb
		}
		return a < b
	})

	q.cache = sections
	q.cacheOK = true
	return sections, nil
}

func (q *QueryService) matches(tracker model.Tracker, date time.Time, prefix string, completed map[uuid.UUID]bool) bool {
	if !tracker.Schedule.ActiveOn(date) {
		return false
	}
	if prefix != "" && !strings.HasPrefix(strings.ToLower(tracker.Name), prefix) {
		return false
	}
	switch q.mode {
	case FilterCompleted:
		return completed[tracker.ID]
	case FilterNotCompleted:
		return !completed[tracker.ID]
	default:
		return true
	}
}
