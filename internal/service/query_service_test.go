package service

import (
	"context"
	"testing"
	"time"

	"habit-tracker/internal/model"
)

var (
	testMonday  = time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC)
	testTuesday = time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC)
)

func sectionTitles(sections []Section) []string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func trackerNames(sections []Section) []string {
	var names []string
	for _, s := range sections {
		for _, tr := range s.Trackers {
			names = append(names, tr.Name)
		}
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEvaluateWeekdayPredicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seed := []TrackerInput{
		{Name: "Пробежка", Schedule: model.NewSchedule(model.Monday), Category: "Спорт"},
		{Name: "Вода", Category: "Здоровье"}, // empty schedule, every day
		{Name: "Пылесос", Schedule: model.NewSchedule(model.Tuesday), Category: "Быт"},
	}
	for _, input := range seed {
		if _, err := env.trackers.Create(ctx, input); err != nil {
			t.Fatalf("Create %q: %v", input.Name, err)
		}
	}

	env.query.SetReferenceDate(testMonday)
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Вода", "Пробежка"}) {
		t.Errorf("monday view = %v", got)
	}

	env.query.SetReferenceDate(testTuesday)
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Пылесос", "Вода"}) {
		t.Errorf("tuesday view = %v", got)
	}
}

func TestEvaluateNamePrefix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Чтение", "Зарядка", "чистка зубов"} {
		if _, err := env.trackers.Create(ctx, TrackerInput{Name: name, Category: "Утро"}); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}

	env.query.SetReferenceDate(testMonday)
	env.query.SetNameFilter("ч")
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// Matching is case-insensitive and the list stays name-sorted.
	if got := trackerNames(sections); !equalStrings(got, []string{"чистка зубов", "Чтение"}) {
		t.Errorf("prefix view = %v", got)
	}

	env.query.SetNameFilter("тение")
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("substring must not match, got %v", trackerNames(sections))
	}

	env.query.SetNameFilter("")
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); len(got) != 3 {
		t.Errorf("cleared prefix should show all, got %v", got)
	}
}

func TestEvaluateCompletionModes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	done, err := env.trackers.Create(ctx, TrackerInput{Name: "Бег", Category: "Спорт"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.trackers.Create(ctx, TrackerInput{Name: "Планка", Category: "Спорт"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.completions.MarkComplete(ctx, done.ID, testMonday); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	env.query.SetReferenceDate(testMonday)

	env.query.SetCompletionFilter(FilterCompleted)
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Бег"}) {
		t.Errorf("completed view = %v", got)
	}

	env.query.SetCompletionFilter(FilterNotCompleted)
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Планка"}) {
		t.Errorf("not-completed view = %v", got)
	}

	env.query.SetCompletionFilter(FilterAll)
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); len(got) != 2 {
		t.Errorf("all view = %v", got)
	}
}

func TestEvaluateTodayOverridesReferenceDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.trackers.Create(ctx, TrackerInput{
		Name: "Пробежка", Schedule: model.NewSchedule(model.Monday), Category: "Спорт",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	env.query.now = func() time.Time { return testMonday }
	env.query.SetReferenceDate(testTuesday)
	env.query.SetCompletionFilter(FilterToday)

	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Пробежка"}) {
		t.Errorf("today view = %v, want the monday tracker despite a tuesday reference", got)
	}
}

func TestEvaluatePinnedSectionFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.trackers.Create(ctx, TrackerInput{Name: "Аптека", Category: "Быт"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	starred, err := env.trackers.Create(ctx, TrackerInput{Name: "Зарядка", Category: "Спорт"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := env.pins.Pin(ctx, starred.ID); err != nil {
		t.Fatalf("Pin: %v", err)
	}

	env.query.SetReferenceDate(testMonday)
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := sectionTitles(sections); !equalStrings(got, []string{model.PinnedCategoryKey, "Быт"}) {
		t.Errorf("section order = %v", got)
	}

	// The emptied home category is omitted, not rendered blank.
	for _, section := range sections {
		if section.Title == "Спорт" {
			t.Error("empty section should be omitted")
		}
	}
}

func TestEvaluateCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, input := range []TrackerInput{
		{Name: "Бег", Category: "Спорт"},
		{Name: "Уборка", Category: "Быт"},
	} {
		if _, err := env.trackers.Create(ctx, input); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	env.query.SetReferenceDate(testMonday)
	env.query.SetCategoryFilter("Спорт")
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := sectionTitles(sections); !equalStrings(got, []string{"Спорт"}) {
		t.Errorf("category view = %v", got)
	}
}

func TestEvaluateCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.query.SetReferenceDate(testMonday)
	sections, err := env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(sections) != 0 {
		t.Fatalf("empty store should evaluate empty, got %v", sectionTitles(sections))
	}

	// A mutation through any service must show up on the next evaluation.
	if _, err := env.trackers.Create(ctx, TrackerInput{Name: "Бег", Category: "Спорт"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	sections, err = env.query.Evaluate(ctx)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := trackerNames(sections); !equalStrings(got, []string{"Бег"}) {
		t.Errorf("post-mutation view = %v", got)
	}
}
