package bot

import (
	"strings"
	"testing"

	"habit-tracker/internal/model"
	"habit-tracker/internal/service"
)

func TestParseScheduleInput(t *testing.T) {
	cases := []struct {
		input   string
		want    []model.WeekDay
		wantErr bool
	}{
		{"пн", []model.WeekDay{model.Monday}, false},
		{"пн, ср, пт", []model.WeekDay{model.Monday, model.Wednesday, model.Friday}, false},
		{"СБ,ВС", []model.WeekDay{model.Saturday, model.Sunday}, false},
		{"пн, пн", []model.WeekDay{model.Monday}, false},
		{"понедельник", nil, true},
		{"", nil, true},
		{",,", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			schedule, err := parseScheduleInput(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScheduleInput(%q): %v", tc.input, err)
			}
			days := schedule.Days()
			if len(days) != len(tc.want) {
				t.Fatalf("days = %v, want %v", days, tc.want)
			}
			for i := range days {
				if days[i] != tc.want[i] {
					t.Errorf("days = %v, want %v", days, tc.want)
					break
				}
			}
		})
	}
}

func TestFormatSchedule(t *testing.T) {
	schedule := model.NewSchedule(model.Monday, model.Wednesday, model.Sunday)
	if got := formatSchedule(schedule); got != "пн, ср, вс" {
		t.Errorf("formatSchedule = %q", got)
	}
}

func TestDayWord(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "дней"},
		{1, "день"},
		{2, "дня"},
		{4, "дня"},
		{5, "дней"},
		{11, "дней"},
		{12, "дней"},
		{14, "дней"},
		{21, "день"},
		{22, "дня"},
		{111, "дней"},
		{121, "день"},
	}
	for _, tc := range cases {
		if got := dayWord(tc.n); got != tc.want {
			t.Errorf("dayWord(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestShortTitle(t *testing.T) {
	if got := shortTitle("  Бег  ", 16); got != "Бег" {
		t.Errorf("short input = %q", got)
	}
	if got := shortTitle("Сон\nднём", 16); got != "Сон днём" {
		t.Errorf("newline input = %q", got)
	}

	long := shortTitle("Очень длинное название трекера", 10)
	if runes := []rune(long); len(runes) != 10 || runes[len(runes)-1] != '…' {
		t.Errorf("long input = %q, want 10 runes ending in an ellipsis", long)
	}
}

func TestDisplayCategoryTitle(t *testing.T) {
	if got := displayCategoryTitle(model.PinnedCategoryKey); got != pinnedDisplayTitle {
		t.Errorf("pinned title = %q", got)
	}
	if got := displayCategoryTitle("Спорт"); got != "Спорт" {
		t.Errorf("plain title = %q", got)
	}
}

func TestFilterByLabel(t *testing.T) {
	cases := []struct {
		label string
		want  service.CompletionFilter
		ok    bool
	}{
		{filterLabelAll, service.FilterAll, true},
		{filterLabelToday, service.FilterToday, true},
		{filterLabelCompleted, service.FilterCompleted, true},
		{filterLabelNotCompleted, service.FilterNotCompleted, true},
		{"что-то другое", service.FilterAll, false},
	}
	for _, tc := range cases {
		got, ok := filterByLabel(tc.label)
		if got != tc.want || ok != tc.ok {
			t.Errorf("filterByLabel(%q) = %v, %v", tc.label, got, ok)
		}
	}
}

func TestColorByLabel(t *testing.T) {
	if got := colorByLabel("🔵 Синий"); got != "#007BFA" {
		t.Errorf("colorByLabel = %q", got)
	}
	if got := colorByLabel("неизвестный"); got != colorPalette[0].Hex {
		t.Errorf("fallback = %q", got)
	}
}

func TestFormatTrackerRow(t *testing.T) {
	tracker := model.Tracker{Name: "Бег", Emoji: "🏃", Schedule: model.NewSchedule(model.Monday)}

	row := formatTrackerRow(tracker, true, 21)
	for _, want := range []string{"✅", "🏃", "Бег", "21 день", "пн"} {
		if !strings.Contains(row, want) {
			t.Errorf("row %q lacks %q", row, want)
		}
	}

	daily := model.Tracker{Name: "Вода"}
	row = formatTrackerRow(daily, false, 0)
	for _, want := range []string{"⬜️", defaultEmoji, "каждый день", "0 дней"} {
		if !strings.Contains(row, want) {
			t.Errorf("row %q lacks %q", row, want)
		}
	}
}
