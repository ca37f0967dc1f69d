package bot

import (
	"fmt"
	"hash/crc32"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mainReplyKeyboard — нижняя панель с основными действиями.
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton("Новая продажа")},
			{tgbotapi.NewKeyboardButton("Расход"), tgbotapi.NewKeyboardButton("Отчёты")},
		},
	}
}

func navKeyboard(cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// optionSum — короткая контрольная сумма текста варианта. После обновления
// справочника индекс из старой кнопки может указывать на другой текст;
// сумма позволяет это заметить на клике.
func optionSum(s string) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(s)))
}

// optionAt возвращает вариант по индексу из callback, сверяя контрольную
// сумму с тем текстом, который пользователь видел на кнопке.
func optionAt(options []string, idxStr, sum string) (string, bool) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(options) {
		return "", false
	}
	if optionSum(options[idx]) != sum {
		return "", false
	}
	return options[idx], true
}

// optionsKeyboard — варианты шага анкеты. В callback кладём индекс варианта
// и контрольную сумму текста, а не само значение: русские названия не
// влезают в лимит callback data.
func optionsKeyboard(prefix string, options []string, perRow int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, opt := range options {
		data := fmt.Sprintf("%s:%d:%s", prefix, i, optionSum(opt))
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt, data))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func reportsMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("По каналам", "rep:channels"),
			tgbotapi.NewInlineKeyboardButtonData("По товарам", "rep:products"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("По расходам", "rep:expenses"),
		),
		navKeyboard(true).InlineKeyboard[0],
	)
}

func periodKeyboard(kind string) tgbotapi.InlineKeyboardMarkup {
	btn := func(days int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d дней", days),
			fmt.Sprintf("rep:p:%s:%d", kind, days))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn(7), btn(30), btn(90)),
		navKeyboard(true).InlineKeyboard[0],
	)
}

func reportResultKeyboard(kind string, days int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 В Excel", fmt.Sprintf("rep:x:%s:%d", kind, days)),
		),
	)
}
