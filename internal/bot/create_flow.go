package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-tracker/internal/model"
	"habit-tracker/internal/service"
)

type createStage int

const (
	stageName createStage = iota
	stageEmoji
	stageColor
	stageCategory
	stageSchedule
)

type createState struct {
	stage createStage
	input service.TrackerInput
}

func (b *Bot) startCreateConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureChat(ctx, msg); err != nil {
		return err
	}
	log.Printf("[info] start create conversation chat=%d", msg.Chat.ID)
	b.setConversation(msg.Chat.ID, &createState{stage: stageName})
	return b.sendWithReplyMarkup(msg.Chat.ID,
		fmt.Sprintf("🆕 Создаём новый трекер.\n<b>Шаг 1:</b> как его назвать? (до %d символов)", model.MaxNameLength),
		cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.Chat.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageName:
		if text == "" || utf8.RuneCountInString(text) > model.MaxNameLength {
			return b.sendWithReplyMarkup(msg.Chat.ID,
				fmt.Sprintf("Название должно быть непустым и не длиннее %d символов.", model.MaxNameLength),
				cancelKeyboard())
		}
		state.input.Name = text
		state.stage = stageEmoji
		return b.sendWithReplyMarkup(msg.Chat.ID, "😀 <b>Шаг 2:</b> выбери эмодзи.", emojiKeyboard())
	case stageEmoji:
		if isSkipInput(text) {
			state.input.Emoji = defaultEmoji
		} else {
			state.input.Emoji = firstEmoji(text)
		}
		state.stage = stageColor
		return b.sendWithReplyMarkup(msg.Chat.ID, "🎨 <b>Шаг 3:</b> выбери цвет.", colorKeyboard())
	case stageColor:
		state.input.Color = colorByLabel(text)
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID,
			"🏷 <b>Шаг 4:</b> выбери категорию или отправь свою (можно «Пропустить»).",
			b.categoryKeyboard(ctx))
	case stageCategory:
		if isSkipInput(text) {
			state.input.Category = defaultCategoryTitle
		} else {
			state.input.Category = text
		}
		state.stage = stageSchedule
		return b.sendWithReplyMarkup(msg.Chat.ID,
			"📆 <b>Шаг 5:</b> в какие дни напоминать?\nОтправь дни через запятую, например <code>пн, ср, пт</code>, или выбери «"+btnEveryDay+"».",
			scheduleKeyboard())
	case stageSchedule:
		var schedule model.Schedule
		if !isSkipInput(text) && !isEveryDayInput(text) {
			parsed, err := parseScheduleInput(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID,
					"Не понял дни. Используй сокращения <code>пн, вт, ср, чт, пт, сб, вс</code> через запятую.",
					scheduleKeyboard())
			}
			schedule = parsed
		}
		state.input.Schedule = schedule
		err := b.finishCreate(ctx, msg.Chat.ID, state.input)
		b.clearConversation(msg.Chat.ID)
		return err
	default:
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "Диалог сброшен. Попробуй ещё раз через /new.")
	}
}

func (b *Bot) finishCreate(ctx context.Context, chatID int64, input service.TrackerInput) error {
	tracker, err := b.trackerSvc.Create(ctx, input)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return b.sendText(chatID, "Не удалось сохранить трекер: проверь название и категорию.")
		}
		return b.sendText(chatID, fmt.Sprintf("Не удалось сохранить трекер: %s", escape(err.Error())))
	}

	log.Printf("[info] tracker created id=%s schedule=%v", tracker.ID, tracker.Schedule.Days())

	var summary strings.Builder
	summary.WriteString("✅ <b>Трекер сохранён</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>Название:</b> %s %s\n", tracker.Emoji, escape(tracker.Name)))
	summary.WriteString(fmt.Sprintf("• <b>Категория:</b> %s\n", escape(tracker.HomeCategory)))
	if tracker.Schedule.IsEmpty() {
		summary.WriteString("• <b>Расписание:</b> каждый день\n")
	} else {
		summary.WriteString(fmt.Sprintf("• <b>Расписание:</b> %s\n", formatSchedule(tracker.Schedule)))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(summary.String()))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendTrackerList(ctx, chatID)
}

// firstEmoji keeps only the first rune of free-form emoji input.
func firstEmoji(text string) string {
	for _, r := range text {
		return string(r)
	}
	return defaultEmoji
}
