package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/metrics"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		m := tgbotapi.NewMessage(chatID,
			"Привет! Я бот учёта продаж Avanturist Dog.\n"+
				"«Новая продажа» — записать продажу по шагам.\n"+
				"«Расход» — записать расход.\n"+
				"«Отчёты» — итоги за период.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start — главное меню\n/cancel — отменить текущий ввод\n"+
				"/refresh — перечитать справочник (для администратора)\n/help — помощь"))

	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "Текущий ввод отменён.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)

	case "refresh":
		if msg.From.ID != b.adminChat {
			b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён."))
			return
		}
		if _, err := b.ref.Refresh(ctx); err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Не удалось перечитать справочник: источник недоступен."))
			return
		}
		metrics.SchemaRefreshes.Inc()
		b.send(tgbotapi.NewMessage(chatID, "Справочник перечитан."))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// нижняя панель
	switch msg.Text {
	case "Новая продажа":
		b.startSale(ctx, chatID)
		return
	case "Расход":
		b.startExpense(ctx, chatID)
		return
	case "Отчёты":
		b.showReportsMenu(chatID)
		return
	}

	// свободный ввод — по текущему состоянию диалога
	d, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("draft read failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, msgStateUnavailable))
		return
	}
	switch d.State {
	case dialog.StateSaleQuantity:
		b.handleQuantityInput(ctx, chatID, d, strings.TrimSpace(msg.Text))
	case dialog.StateExpAmount:
		b.handleExpenseAmountInput(ctx, chatID, d, msg.Text)
	case dialog.StateExpComment:
		b.handleExpenseCommentInput(ctx, chatID, d, msg.Text)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Не понимаю. Используйте кнопки снизу или /help"))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	data := cb.Data
	chatID := cb.Message.Chat.ID

	if data == "nav:cancel" {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Операция отменена.")
		_ = b.answerCallback(cb, "Отменено", false)
		return
	}

	parts := strings.Split(data, ":")
	switch parts[0] {
	case "sale":
		if len(parts) != 4 {
			return
		}
		b.handleSaleCallback(ctx, cb, parts[1], parts[2], parts[3])

	case "exp":
		if len(parts) != 4 || parts[1] != "cat" {
			return
		}
		b.handleExpenseCategoryCallback(ctx, cb, parts[2], parts[3])

	case "rep":
		b.handleReportCallback(ctx, cb, parts[1:])

	default:
		_ = b.answerCallback(cb, "", false)
	}
}
