package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"habit-tracker/internal/model"
	"habit-tracker/internal/repository"
	"habit-tracker/internal/service"
)

const (
	cbDonePrefix   = "done:"
	cbUndonePrefix = "undone:"
	cbPinPrefix    = "pin:"
	cbUnpinPrefix  = "unpin:"
	cbDeletePrefix = "delete:"
)

const (
	btnSkip         = "⏭️ Пропустить"
	btnConfirm      = "✅ Подтвердить"
	btnCancel       = "↩️ Отмена"
	btnCancelDialog = "⏪ Отменить ввод"
	btnEveryDay     = "📅 Каждый день"

	menuLabelNewTracker = "➕ Новый трекер"
	menuLabelTrackers   = "📋 Трекеры"
	menuLabelCategories = "📂 Категории"
	menuLabelStats      = "📊 Статистика"
	menuLabelFilters    = "🔎 Фильтры"
	menuLabelHelp       = "ℹ️ Помощь"

	filterLabelAll          = "Все трекеры"
	filterLabelToday        = "Трекеры на сегодня"
	filterLabelCompleted    = "Завершенные"
	filterLabelNotCompleted = "Не завершенные"

	pinnedDisplayTitle   = "📌 Закрепленные"
	defaultCategoryTitle = "Мои трекеры"
)

// Bot aggregates the Telegram API with the tracker services.
type Bot struct {
	api           *tgbotapi.BotAPI
	chatRepo      *repository.ChatRepository
	trackerSvc    *service.TrackerService
	pinSvc        *service.PinService
	completionSvc *service.CompletionService
	querySvc      *service.QueryService
	reminderSvc   *service.ReminderService
	statsSvc      *service.StatsService

	conversations map[int64]*createState
	confirmations map[int64]uuid.UUID
	mu            sync.Mutex
}

func New(
	token string,
	chatRepo *repository.ChatRepository,
	trackerSvc *service.TrackerService,
	pinSvc *service.PinService,
	completionSvc *service.CompletionService,
	querySvc *service.QueryService,
	reminderSvc *service.ReminderService,
	statsSvc *service.StatsService,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		chatRepo:      chatRepo,
		trackerSvc:    trackerSvc,
		pinSvc:        pinSvc,
		completionSvc: completionSvc,
		querySvc:      querySvc,
		reminderSvc:   reminderSvc,
		statsSvc:      statsSvc,
		conversations: make(map[int64]*createState),
		confirmations: make(map[int64]uuid.UUID),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.Chat.ID)
		b.clearConfirmation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "⏪ Ввод отменён. Я здесь, чтобы начать заново.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.Chat.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if id, ok := b.getConfirmation(msg.Chat.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, id)
	}

	if b.hasConversation(msg.Chat.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "Я пока не понял сообщение. Набери /new, чтобы добавить трекер, или /help для списка команд.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "new":
		return b.startCreateConversation(ctx, msg)
	case "trackers":
		return b.sendTrackerList(ctx, msg.Chat.ID)
	case "date":
		return b.handleDate(ctx, msg)
	case "find":
		return b.handleFind(ctx, msg)
	case "categories":
		return b.handleCategories(ctx, msg)
	case "newcategory":
		return b.handleNewCategory(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.Chat.ID)
		b.clearConfirmation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "⏪ Текущий ввод отменён.")
	default:
		return b.sendText(msg.Chat.ID, "Команда не поддерживается. Загляни в /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureChat(ctx, msg); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n<b>Я трекер привычек: помогу не бросить начатое.</b>\n\nКоманды:\n"+
			"• /new — добавить трекер\n"+
			"• /trackers — трекеры на выбранную дату\n"+
			"• /date <code>2025-11-30</code> — сменить дату\n"+
			"• /find &lt;текст&gt; — поиск по названию\n"+
			"• /categories — список категорий\n"+
			"• /newcategory &lt;название&gt; — новая категория\n"+
			"• /stats — статистика\n"+
			"• /report — отчёт за сегодня\n"+
			"• /cancel — отменить текущий ввод",
		escape(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Подсказки</b>\n" +
		"• /new — добавить трекер пошагово\n" +
		"• /trackers — список на выбранную дату, отметки по кнопкам\n" +
		"• /date <code>2025-11-30</code> — посмотреть другой день\n" +
		"• /find бег — показать трекеры, начинающиеся с «бег»\n" +
		"• /find — сбросить поиск\n" +
		"• «" + menuLabelFilters + "» — все / на сегодня / завершенные / не завершенные\n" +
		"• 📌 в списке — закрепить, трекер поднимется наверх\n" +
		"• /newcategory Спорт — создать категорию\n" +
		"• /stats — сколько привычек выполнено\n" +
		"• /cancel — отменить текущий ввод"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleDate(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.querySvc.SetReferenceDate(time.Now())
		return b.sendTrackerList(ctx, msg.Chat.ID)
	}
	parsed, err := time.Parse("2006-01-02", args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Не могу распознать дату. Используй формат <code>2025-11-30</code>.")
	}
	b.querySvc.SetReferenceDate(parsed)
	return b.sendTrackerList(ctx, msg.Chat.ID)
}

func (b *Bot) handleFind(ctx context.Context, msg *tgbotapi.Message) error {
	b.querySvc.SetNameFilter(strings.TrimSpace(msg.CommandArguments()))
	return b.sendTrackerList(ctx, msg.Chat.ID)
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	titles, err := b.trackerSvc.CategoryTitles(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось получить категории: %s", escape(err.Error())))
	}
	if len(titles) == 0 {
		return b.sendText(msg.Chat.ID, "Категорий пока нет. Добавь их при создании трекера или через /newcategory.")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Категории</b>\n")
	for _, title := range titles {
		builder.WriteString(fmt.Sprintf("• %s\n", escape(title)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleNewCategory(ctx context.Context, msg *tgbotapi.Message) error {
	title := strings.TrimSpace(msg.CommandArguments())
	if title == "" {
		return b.sendText(msg.Chat.ID, "Укажи название: /newcategory Спорт")
	}
	category, err := b.trackerSvc.CreateCategory(ctx, title)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return b.sendText(msg.Chat.ID, "Такое название не подойдёт, попробуй другое.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось создать категорию: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📂 Категория «%s» готова.", escape(category.Title)))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.statsSvc.Summary(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось посчитать статистику: %s", escape(err.Error())))
	}
	text := fmt.Sprintf(
		"📊 <b>Статистика</b>\n"+
			"• Трекеров выполнено: <b>%d</b>\n"+
			"• Идеальные дни: <b>%d</b>\n"+
			"• В среднем за день: <b>%.1f</b>",
		stats.CompletedTotal, stats.PerfectDays, stats.AveragePerDay,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureChat(ctx, msg); err != nil {
		return err
	}
	text, err := b.reminderSvc.DailySummary(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось сформировать отчёт: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(msg.Text)
	switch text {
	case menuLabelNewTracker:
		return true, b.startCreateConversation(ctx, msg)
	case menuLabelTrackers:
		return true, b.sendTrackerList(ctx, msg.Chat.ID)
	case menuLabelCategories:
		return true, b.handleCategories(ctx, msg)
	case menuLabelStats:
		return true, b.handleStats(ctx, msg)
	case menuLabelFilters:
		return true, b.sendWithReplyMarkup(msg.Chat.ID, "🔎 Какие трекеры показать?", filterKeyboard())
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	}

	if mode, ok := filterByLabel(text); ok {
		b.querySvc.SetCompletionFilter(mode)
		return true, b.sendTrackerList(ctx, msg.Chat.ID)
	}
	return false, nil
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbDonePrefix):
		id, err := parseTrackerID(data, cbDonePrefix)
		if err != nil {
			return nil
		}
		return b.toggleCompletion(ctx, chatID, id, true)
	case strings.HasPrefix(data, cbUndonePrefix):
		id, err := parseTrackerID(data, cbUndonePrefix)
		if err != nil {
			return nil
		}
		return b.toggleCompletion(ctx, chatID, id, false)
	case strings.HasPrefix(data, cbPinPrefix):
		id, err := parseTrackerID(data, cbPinPrefix)
		if err != nil {
			return nil
		}
		if err := b.pinSvc.Pin(ctx, id); err != nil {
			return b.reportTrackerError(chatID, err)
		}
		log.Printf("[info] tracker pinned id=%s", id)
		return b.sendTrackerList(ctx, chatID)
	case strings.HasPrefix(data, cbUnpinPrefix):
		id, err := parseTrackerID(data, cbUnpinPrefix)
		if err != nil {
			return nil
		}
		if err := b.pinSvc.Unpin(ctx, id); err != nil {
			return b.reportTrackerError(chatID, err)
		}
		log.Printf("[info] tracker unpinned id=%s", id)
		return b.sendTrackerList(ctx, chatID)
	case strings.HasPrefix(data, cbDeletePrefix):
		id, err := parseTrackerID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, chatID, id)
	default:
		return nil
	}
}

func (b *Bot) toggleCompletion(ctx context.Context, chatID int64, id uuid.UUID, done bool) error {
	day := b.querySvc.ReferenceDate()
	var err error
	if done {
		err = b.completionSvc.MarkComplete(ctx, id, day)
	} else {
		err = b.completionSvc.MarkIncomplete(ctx, id, day)
	}
	if err != nil {
		if errors.Is(err, model.ErrFutureDate) {
			return b.sendText(chatID, "Нельзя отметить трекер на будущую дату.")
		}
		return b.reportTrackerError(chatID, err)
	}
	return b.sendTrackerList(ctx, chatID)
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, id uuid.UUID) error {
	tracker, err := b.trackerSvc.Get(ctx, id)
	if err != nil {
		return b.reportTrackerError(chatID, err)
	}
	b.setConfirmation(chatID, id)
	text := fmt.Sprintf("Удалить трекер «%s» вместе с историей отметок?", escape(tracker.Name))
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, id uuid.UUID) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.Chat.ID)
		tracker, err := b.trackerSvc.Get(ctx, id)
		if err != nil {
			return b.reportTrackerError(msg.Chat.ID, err)
		}
		if err := b.trackerSvc.Delete(ctx, id); err != nil {
			return b.sendText(msg.Chat.ID, fmt.Sprintf("Не удалось удалить трекер: %s", escape(err.Error())))
		}
		log.Printf("[info] tracker deleted id=%s", id)
		if err := b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Трекер «%s» удалён.", escape(tracker.Name))); err != nil {
			return err
		}
		return b.sendTrackerList(ctx, msg.Chat.ID)
	case isCancelInput(text):
		b.clearConfirmation(msg.Chat.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Подтверди или отмени удаление трекера.", confirmKeyboard())
	}
}

func (b *Bot) reportTrackerError(chatID int64, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return b.sendText(chatID, "Трекер не найден или уже удалён.")
	}
	return b.sendText(chatID, fmt.Sprintf("Ошибка: %s", escape(err.Error())))
}

// SendDailyReports sends the daily summary to every registered chat.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	chats, err := b.chatRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	text, err := b.reminderSvc.DailySummary(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, chat := range chats {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chat.ChatID, text); err != nil {
			log.Printf("send summary to %d: %v", chat.ChatID, err)
		}
	}
	return nil
}

func (b *Bot) ensureChat(ctx context.Context, msg *tgbotapi.Message) (*model.Chat, error) {
	return b.chatRepo.Register(ctx, msg.Chat.ID, msg.From.FirstName, msg.From.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	return b.sendText(chatID, "🔹 Главное меню")
}

func (b *Bot) setConfirmation(chatID int64, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[chatID] = id
}

func (b *Bot) getConfirmation(chatID int64) (uuid.UUID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.confirmations[chatID]
	return id, ok
}

func (b *Bot) clearConfirmation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, chatID)
}

func (b *Bot) setConversation(chatID int64, state *createState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) getConversation(chatID int64) *createState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) hasConversation(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[chatID]
	return ok
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}

func parseTrackerID(data, prefix string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimPrefix(data, prefix))
}
