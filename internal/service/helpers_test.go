package service

import (
	"path/filepath"
	"testing"

	"habit-tracker/internal/repository"
)

type testEnv struct {
	trackerRepo  *repository.TrackerRepository
	categoryRepo *repository.CategoryRepository
	recordRepo   *repository.RecordRepository

	notifier    *Notifier
	trackers    *TrackerService
	pins        *PinService
	completions *CompletionService
	query       *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	env := &testEnv{
		trackerRepo:  repository.NewTrackerRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		recordRepo:   repository.NewRecordRepository(db),
		notifier:     NewNotifier(),
	}
	env.trackers = NewTrackerService(env.trackerRepo, env.categoryRepo, env.notifier)
	env.pins = NewPinService(env.trackerRepo, env.notifier)
	env.completions = NewCompletionService(env.recordRepo, env.trackerRepo, env.notifier)
	env.query = NewQueryService(env.categoryRepo, env.recordRepo, env.notifier)
	return env
}
