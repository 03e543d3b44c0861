package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-tracker/internal/model"
	"habit-tracker/internal/service"
)

const defaultEmoji = "✨"

// Palette from the app design: label shown on the keyboard, hex stored.
var colorPalette = []struct {
	Label string
	Hex   string
}{
	{"🔴 Красный", "#FD4C49"},
	{"🟠 Оранжевый", "#FF881E"},
	{"🔵 Синий", "#007BFA"},
	{"🟣 Фиолетовый", "#6E44FE"},
	{"🟢 Зелёный", "#33CF69"},
	{"🩷 Розовый", "#FF99CC"},
}

var emojiPalette = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱",
	"😇", "😡", "🥶", "🤔", "🙌", "🍔",
	"🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

var scheduleShortNames = []string{"пн", "вт", "ср", "чт", "пт", "сб", "вс"}

// sendTrackerList renders the current sectioned view with inline buttons
// for completion, pinning and deletion.
func (b *Bot) sendTrackerList(ctx context.Context, chatID int64) error {
	sections, err := b.querySvc.Evaluate(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Не удалось получить трекеры: %s", escape(err.Error())))
	}

	date := b.querySvc.ReferenceDate()
	if len(sections) == 0 {
		return b.sendText(chatID, fmt.Sprintf("На %s ничего не найдено. Добавь трекер через /new или смени фильтр.", date.Format("02.01.2006")))
	}

	doneToday := make(map[string]bool)
	if ids, err := b.completionSvc.CompletedOn(ctx, date); err == nil {
		for _, id := range ids {
			doneToday[id.String()] = true
		}
	} else {
		log.Printf("completed lookup: %v", err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Трекеры на %s</b>\n", date.Format("02.01.2006")))
	builder.WriteString("Кнопки: отметить выполнение, закрепить, удалить.\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, section := range sections {
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", escape(displayCategoryTitle(section.Title))))
		for _, tracker := range section.Trackers {
			done := doneToday[tracker.ID.String()]
			count, err := b.completionSvc.Count(ctx, tracker.ID)
			if err != nil {
				count = 0
			}
			builder.WriteString(formatTrackerRow(tracker, done, count))
			buttons = append(buttons, trackerButtons(tracker, done))
		}
		builder.WriteByte('\n')
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

func formatTrackerRow(tracker model.Tracker, done bool, count int64) string {
	mark := "⬜️"
	if done {
		mark = "✅"
	}
	emoji := strings.TrimSpace(tracker.Emoji)
	if emoji == "" {
		emoji = defaultEmoji
	}
	row := fmt.Sprintf("%s %s %s · %d %s", mark, emoji, escape(tracker.Name), count, dayWord(count))
	if tracker.Schedule.IsEmpty() {
		row += " · каждый день"
	} else {
		row += " · " + formatSchedule(tracker.Schedule)
	}
	return row + "\n"
}

func trackerButtons(tracker model.Tracker, done bool) []tgbotapi.InlineKeyboardButton {
	short := shortTitle(tracker.Name, 16)

	toggleLabel := "☑️ " + short
	toggleData := cbDonePrefix + tracker.ID.String()
	if done {
		toggleLabel = "↩️ " + short
		toggleData = cbUndonePrefix + tracker.ID.String()
	}

	pinLabel := "📌"
	pinData := cbPinPrefix + tracker.ID.String()
	if tracker.Pinned {
		pinLabel = "📍 Открепить"
		pinData = cbUnpinPrefix + tracker.ID.String()
	}

	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(toggleLabel, toggleData),
		tgbotapi.NewInlineKeyboardButtonData(pinLabel, pinData),
		tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+tracker.ID.String()),
	}
}

// displayCategoryTitle maps the reserved internal key to its label.
func displayCategoryTitle(title string) string {
	if title == model.PinnedCategoryKey {
		return pinnedDisplayTitle
	}
	return title
}

func filterByLabel(text string) (service.CompletionFilter, bool) {
	switch text {
	case filterLabelAll:
		return service.FilterAll, true
	case filterLabelToday:
		return service.FilterToday, true
	case filterLabelCompleted:
		return service.FilterCompleted, true
	case filterLabelNotCompleted:
		return service.FilterNotCompleted, true
	default:
		return service.FilterAll, false
	}
}

// parseScheduleInput reads comma-separated short day names ("пн, ср").
func parseScheduleInput(text string) (model.Schedule, error) {
	var schedule model.Schedule
	for _, part := range strings.Split(text, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day := -1
		for i, short := range scheduleShortNames {
			if name == short {
				day = i
				break
			}
		}
		if day < 0 {
			return 0, fmt.Errorf("unknown day %q", name)
		}
		schedule.Add(model.WeekDay(day))
	}
	if schedule.IsEmpty() {
		return 0, fmt.Errorf("no days given")
	}
	return schedule, nil
}

func formatSchedule(schedule model.Schedule) string {
	var names []string
	for _, day := range schedule.Days() {
		names = append(names, scheduleShortNames[day])
	}
	return strings.Join(names, ", ")
}

// dayWord picks the Russian plural form for a day count.
func dayWord(n int64) string {
	n = n % 100
	if n >= 11 && n <= 14 {
		return "дней"
	}
	switch n % 10 {
	case 1:
		return "день"
	case 2, 3, 4:
		return "дня"
	default:
		return "дней"
	}
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTracker),
			tgbotapi.NewKeyboardButton(menuLabelTrackers),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelFilters),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func filterKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(filterLabelAll),
			tgbotapi.NewKeyboardButton(filterLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(filterLabelCompleted),
			tgbotapi.NewKeyboardButton(filterLabelNotCompleted),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func emojiKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(emojiPalette)/6+1)
	for start := 0; start < len(emojiPalette); start += 6 {
		end := start + 6
		if end > len(emojiPalette) {
			end = len(emojiPalette)
		}
		row := make([]tgbotapi.KeyboardButton, 0, end-start)
		for _, emoji := range emojiPalette[start:end] {
			row = append(row, tgbotapi.NewKeyboardButton(emoji))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func colorKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(colorPalette)/2+1)
	for start := 0; start < len(colorPalette); start += 2 {
		end := start + 2
		if end > len(colorPalette) {
			end = len(colorPalette)
		}
		row := make([]tgbotapi.KeyboardButton, 0, end-start)
		for _, color := range colorPalette[start:end] {
			row = append(row, tgbotapi.NewKeyboardButton(color.Label))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// colorByLabel maps a keyboard label back to its hex value; free-form or
// unknown input falls back to the first palette color.
func colorByLabel(text string) string {
	for _, color := range colorPalette {
		if strings.EqualFold(strings.TrimSpace(text), color.Label) {
			return color.Hex
		}
	}
	return colorPalette[0].Hex
}

func (b *Bot) categoryKeyboard(ctx context.Context) tgbotapi.ReplyKeyboardMarkup {
	titles, err := b.trackerSvc.CategoryTitles(ctx)
	if err != nil {
		log.Printf("category titles: %v", err)
	}
	if len(titles) > 6 {
		titles = titles[:6]
	}

	var rows [][]tgbotapi.KeyboardButton
	for start := 0; start < len(titles); start += 2 {
		end := start + 2
		if end > len(titles) {
			end = len(titles)
		}
		row := make([]tgbotapi.KeyboardButton, 0, end-start)
		for _, title := range titles[start:end] {
			row = append(row, tgbotapi.NewKeyboardButton(title))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancelDialog),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func scheduleKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEveryDay),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("пн, ср, пт"),
			tgbotapi.NewKeyboardButton("сб, вс"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "пропустить" || value == "skip"
}

func isEveryDayInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnEveryDay) || value == "каждый день"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "подтвердить" || value == "да"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "отмена"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "отменить ввод" || value == "отмена"
}
