package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/checkout"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/wizard"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/infra/metrics"
)

const (
	msgSourceUnavailable = "Таблица сейчас недоступна. Попробуйте ещё раз через минуту."
	msgStateUnavailable  = "Хранилище состояний недоступно, попробуйте позже."
	msgNoOptions         = "Варианты для этого шага не настроены. Обратитесь к администратору."
)

// choiceStepEmpty — шаг-выбор остался без вариантов: пустой или урезанный
// справочник. Шаг количества — свободный ввод, вариантов не имеет.
func choiceStepEmpty(p wizard.Prompt) bool {
	return p.Kind != wizard.KindQuantity && len(p.Options) == 0
}

// startSale начинает анкету продажи; незавершённый прошлый заказ молча
// сбрасывается.
func (b *Bot) startSale(ctx context.Context, chatID int64) {
	schema, err := b.ref.Get(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, msgSourceUnavailable))
		return
	}
	if len(schema.Channels) == 0 {
		b.send(tgbotapi.NewMessage(chatID, msgNoOptions))
		return
	}

	d, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("draft read failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, msgStateUnavailable))
		return
	}
	m := wizard.New(schema)
	p := m.Start(d)
	if err := b.states.Save(ctx, d); err != nil {
		b.log.Error("save draft failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось начать продажу, попробуйте ещё раз."))
		return
	}
	b.sendPrompt(chatID, p)
}

// sendPrompt рисует вопрос шага. Для шагов-выборов варианты берутся из
// живого справочника и кодируются индексом с контрольной суммой.
func (b *Bot) sendPrompt(chatID int64, p wizard.Prompt) {
	if choiceStepEmpty(p) {
		b.send(tgbotapi.NewMessage(chatID, msgNoOptions))
		return
	}
	m := tgbotapi.NewMessage(chatID, p.Text)
	if len(p.Options) > 0 {
		m.ReplyMarkup = optionsKeyboard("sale:"+string(p.Kind), p.Options, 2)
	} else {
		m.ReplyMarkup = navKeyboard(true)
	}
	b.send(m)
}

// handleSaleCallback — нажата кнопка шага анкеты: sale:<kind>:<index>:<sum>.
func (b *Bot) handleSaleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, kind, idxStr, sumStr string) {
	chatID := cb.Message.Chat.ID

	schema, err := b.ref.Get(ctx)
	if err != nil {
		_ = b.answerCallback(cb, "Таблица недоступна, попробуйте позже", true)
		return
	}

	d, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("draft read failed", "err", err)
		_ = b.answerCallback(cb, msgStateUnavailable, true)
		return
	}
	m := wizard.New(schema)

	cur := m.PromptFor(d)
	if string(cur.Kind) != kind {
		// двойной тап или кнопка с уже пройденного шага — не применяем
		_ = b.answerCallback(cb, "Этот шаг уже пройден", false)
		return
	}

	value, ok := optionAt(cur.Options, idxStr, sumStr)
	if !ok {
		// справочник обновился: индекс вне списка или под ним уже другой
		// текст — перерисуем шаг
		_ = b.answerCallback(cb, "Список обновился, выберите заново", true)
		b.editTextAndClear(chatID, cb.Message.MessageID, cur.Text)
		b.sendPrompt(chatID, cur)
		return
	}

	next, err := m.Apply(d, wizard.Action{Kind: cur.Kind, Value: value})
	switch {
	case errors.Is(err, wizard.ErrOutOfSequence):
		_ = b.answerCallback(cb, "Этот шаг уже пройден", false)
		return
	case errors.Is(err, wizard.ErrInvalidChoice):
		_ = b.answerCallback(cb, "Вариант устарел, выберите заново", true)
		b.sendPrompt(chatID, m.PromptFor(d))
		return
	case err != nil:
		b.log.Error("wizard apply failed", "err", err)
		return
	}

	if err := b.states.Save(ctx, d); err != nil {
		b.log.Error("save draft failed", "err", err)
		_ = b.answerCallback(cb, "Не удалось сохранить шаг, нажмите ещё раз", true)
		return
	}

	_ = b.answerCallback(cb, "", false)
	b.editTextAndClear(chatID, cb.Message.MessageID, fmt.Sprintf("%s %s", cur.Text, value))
	b.sendPrompt(chatID, next)
}

// handleQuantityInput — финальный шаг: количество принято, остальное делает
// checkout: цена, итог, строка в таблице, сброс черновика.
func (b *Bot) handleQuantityInput(ctx context.Context, chatID int64, d *dialog.Draft, text string) {
	schema, err := b.ref.Get(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, msgSourceUnavailable))
		return
	}

	m := wizard.New(schema)
	p, err := m.Apply(d, wizard.Action{Kind: wizard.KindQuantity, Value: text})
	if errors.Is(err, wizard.ErrInvalidQuantity) {
		b.send(tgbotapi.NewMessage(chatID, "Введите целое положительное число, например 3."))
		return
	}
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Анкета потеряна, начните продажу заново."))
		return
	}

	res, err := b.checkout.Finalize(ctx, d, p.Quantity)
	switch {
	case errors.Is(err, checkout.ErrAppendFailed):
		// черновик остался на шаге количества: повторная отправка числа
		// повторит запись без перезаполнения анкеты
		metrics.LedgerAppendErrors.Inc()
		b.log.Error("ledger append failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID,
			"Не удалось записать продажу в таблицу. Отправьте количество ещё раз — анкету заполнять заново не нужно."))
		return
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID,
			"Прайс сейчас недоступен. Отправьте количество ещё раз чуть позже."))
		return
	}

	metrics.OrdersFinalized.Inc()

	row := res.Row
	text = fmt.Sprintf(
		"✅ Продажа записана.\nКанал: %s\nТовар: %s\nЦвет: %s\nКол-во: %d\nЦена: %.2f\nСумма: %.2f\nОплата: %s",
		row.Channel, row.ProductType, row.Color, row.Quantity, row.UnitPrice, row.Total, row.PaymentMethod,
	)
	if res.PriceMiss {
		text += "\n⚠️ Цена в прайсе не найдена, записан 0 — поправьте сумму в таблице."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainReplyKeyboard()
	b.send(msg)
}
