package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/reports"
)

func (b *Bot) showReportsMenu(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "Какой отчёт построить?")
	m.ReplyMarkup = reportsMenuKeyboard()
	b.send(m)
}

// handleReportCallback разбирает rep:* коллбеки:
//
//	rep:<kind>           — выбор периода
//	rep:p:<kind>:<days>  — построить отчёт текстом
//	rep:x:<kind>:<days>  — выгрузить отчёт в Excel
func (b *Bot) handleReportCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, parts []string) {
	chatID := cb.Message.Chat.ID

	switch {
	case len(parts) == 1:
		kind := parts[0]
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			"За какой период?", periodKeyboard(kind))
		b.send(edit)
		_ = b.answerCallback(cb, "", false)

	case len(parts) == 3 && parts[0] == "p":
		kind := parts[1]
		days, err := strconv.Atoi(parts[2])
		if err != nil || days <= 0 {
			_ = b.answerCallback(cb, "Некорректный период", true)
			return
		}
		rep, err := b.buildReport(ctx, kind, days)
		if err != nil {
			_ = b.answerCallback(cb, "Таблица недоступна, попробуйте позже", true)
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
			rep.Render(), reportResultKeyboard(kind, days))
		b.send(edit)
		_ = b.answerCallback(cb, "", false)

	case len(parts) == 3 && parts[0] == "x":
		kind := parts[1]
		days, err := strconv.Atoi(parts[2])
		if err != nil || days <= 0 {
			_ = b.answerCallback(cb, "Некорректный период", true)
			return
		}
		rep, err := b.buildReport(ctx, kind, days)
		if err != nil {
			_ = b.answerCallback(cb, "Таблица недоступна, попробуйте позже", true)
			return
		}
		b.sendReportExcel(chatID, kind, rep)
		_ = b.answerCallback(cb, "", false)

	default:
		_ = b.answerCallback(cb, "Неизвестный отчёт", true)
	}
}

func (b *Bot) buildReport(ctx context.Context, kind string, days int) (reports.Report, error) {
	now := time.Now().In(b.loc)
	switch kind {
	case "channels":
		rows, err := b.book.Sales(ctx)
		if err != nil {
			return reports.Report{}, err
		}
		return reports.SalesByChannel(rows, days, now), nil
	case "products":
		rows, err := b.book.Sales(ctx)
		if err != nil {
			return reports.Report{}, err
		}
		return reports.SalesByProduct(rows, days, now), nil
	case "expenses":
		rows, err := b.book.Expenses(ctx)
		if err != nil {
			return reports.Report{}, err
		}
		return reports.Expenses(rows, days, now), nil
	}
	return reports.Report{}, fmt.Errorf("unknown report kind %q", kind)
}

// sendReportExcel собирает отчёт в .xlsx и шлёт документом.
func (b *Bot) sendReportExcel(chatID int64, kind string, rep reports.Report) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"Группа", "Записей", "Сумма", "В среднем"}
	if rep.HasQty {
		header = []interface{}{"Группа", "Продаж", "Кол-во, шт", "Сумма", "Средний чек", "Цена за ед."}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла (заголовок)"))
		return
	}

	row := 2
	writeLine := func(l reports.Line) bool {
		var excelRow []interface{}
		if rep.HasQty {
			excelRow = []interface{}{l.Key, l.Count, l.Qty, l.Amount, l.AvgCheck(), l.AvgPerUnit()}
		} else {
			excelRow = []interface{}{l.Key, l.Count, l.Amount, l.AvgCheck()}
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return false
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return false
		}
		row++
		return true
	}

	for _, l := range rep.Lines {
		if !writeLine(l) {
			b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла (строки)"))
			return
		}
	}
	if !writeLine(rep.Total) {
		b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла (итог)"))
		return
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Ошибка записи файла"))
		return
	}

	fileName := fmt.Sprintf("report_%s_%dd_%s.xlsx",
		kind, rep.PeriodDays, time.Now().In(b.loc).Format("20060102_150405"))

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("%s за %d дн.", rep.Title, rep.PeriodDays)
	b.send(doc)
}
