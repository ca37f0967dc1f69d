package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
)

// startExpense — разовая запись расхода: категория → сумма → комментарий.
func (b *Bot) startExpense(ctx context.Context, chatID int64) {
	schema, err := b.ref.Get(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, msgSourceUnavailable))
		return
	}
	if len(schema.ExpenseCategories) == 0 {
		b.send(tgbotapi.NewMessage(chatID,
			"Категории расходов не настроены. Обратитесь к администратору."))
		return
	}

	d, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("draft read failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, msgStateUnavailable))
		return
	}
	d.ResetSale()
	d.State = dialog.StateExpCategory
	if err := b.states.Save(ctx, d); err != nil {
		b.log.Error("save draft failed", "err", err)
		return
	}

	m := tgbotapi.NewMessage(chatID, "Выберите категорию расхода:")
	m.ReplyMarkup = optionsKeyboard("exp:cat", schema.ExpenseCategories, 2)
	b.send(m)
}

func (b *Bot) handleExpenseCategoryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, idxStr, sumStr string) {
	chatID := cb.Message.Chat.ID

	d, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("draft read failed", "err", err)
		_ = b.answerCallback(cb, msgStateUnavailable, true)
		return
	}
	if d.State != dialog.StateExpCategory {
		_ = b.answerCallback(cb, "Этот шаг уже пройден", false)
		return
	}

	schema, err := b.ref.Get(ctx)
	if err != nil {
		_ = b.answerCallback(cb, "Таблица недоступна, попробуйте позже", true)
		return
	}

	category, ok := optionAt(schema.ExpenseCategories, idxStr, sumStr)
	if !ok {
		// справочник обновился: индекс вне списка или под ним другой текст
		_ = b.answerCallback(cb, "Список обновился, выберите заново", true)
		m := tgbotapi.NewMessage(chatID, "Выберите категорию расхода:")
		m.ReplyMarkup = optionsKeyboard("exp:cat", schema.ExpenseCategories, 2)
		b.send(m)
		return
	}

	d.Payload["category"] = category
	d.State = dialog.StateExpAmount
	_ = b.states.Save(ctx, d)

	_ = b.answerCallback(cb, "", false)
	b.editTextAndClear(chatID, cb.Message.MessageID, "Категория: "+category)
	m := tgbotapi.NewMessage(chatID, "Введите сумму расхода (руб):")
	m.ReplyMarkup = navKeyboard(true)
	b.send(m)
}

func (b *Bot) handleExpenseAmountInput(ctx context.Context, chatID int64, d *dialog.Draft, text string) {
	amountStr := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		b.send(tgbotapi.NewMessage(chatID, "Некорректная сумма. Введите положительное число."))
		return
	}

	d.Payload["amount"] = amount
	d.State = dialog.StateExpComment
	_ = b.states.Save(ctx, d)

	m := tgbotapi.NewMessage(chatID, "Комментарий к расходу (или «-», если без комментария):")
	m.ReplyMarkup = navKeyboard(true)
	b.send(m)
}

func (b *Bot) handleExpenseCommentInput(ctx context.Context, chatID int64, d *dialog.Draft, text string) {
	comment := strings.TrimSpace(text)
	if comment == "-" {
		comment = ""
	}

	category, _ := dialog.GetString(d.Payload, "category")
	amount, ok := dialog.GetFloat(d.Payload, "amount")
	if category == "" || !ok {
		// контекст потерян — начинаем расход заново
		_ = b.states.Reset(ctx, chatID)
		b.startExpense(ctx, chatID)
		return
	}

	row := ledger.ExpenseRow{
		Category: category,
		Amount:   amount,
		Comment:  comment,
		Date:     time.Now().In(b.loc),
	}
	if err := b.book.AppendExpense(ctx, row); err != nil {
		// состояние не трогаем, чтобы повторная отправка комментария
		// повторила запись
		b.log.Error("expense append failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID,
			"Не удалось записать расход. Отправьте комментарий ещё раз."))
		return
	}

	_ = b.states.Reset(ctx, chatID)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Расход записан.\nКатегория: %s\nСумма: %.2f", category, amount))
	msg.ReplyMarkup = mainReplyKeyboard()
	b.send(msg)
}
