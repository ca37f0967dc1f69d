package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
)

// Line — итог по одной группе (канал / тип изделия / категория расхода).
type Line struct {
	Key    string
	Count  int
	Qty    int
	Amount float64
}

// AvgCheck — средняя сумма на запись; деление всегда защищено от нуля.
func (l Line) AvgCheck() float64 {
	if l.Count == 0 {
		return 0
	}
	return l.Amount / float64(l.Count)
}

// AvgPerUnit — средняя цена единицы (только для продаж).
func (l Line) AvgPerUnit() float64 {
	if l.Qty == 0 {
		return 0
	}
	return l.Amount / float64(l.Qty)
}

// Report — готовый к отрисовке табличный итог за скользящий период.
type Report struct {
	Title      string
	PeriodDays int
	HasQty     bool
	Lines      []Line
	Total      Line
}

// SalesByChannel группирует продажи по каналу.
func SalesByChannel(rows []ledger.SaleRow, periodDays int, now time.Time) Report {
	return salesReport("Отчёт по каналам продаж", rows, periodDays, now,
		func(r ledger.SaleRow) string { return r.Channel })
}

// SalesByProduct группирует продажи по типу изделия.
func SalesByProduct(rows []ledger.SaleRow, periodDays int, now time.Time) Report {
	return salesReport("Отчёт по товарам", rows, periodDays, now,
		func(r ledger.SaleRow) string { return r.ProductType })
}

// Expenses группирует расходы по категории.
func Expenses(rows []ledger.ExpenseRow, periodDays int, now time.Time) Report {
	rep := Report{Title: "Отчёт по расходам", PeriodDays: periodDays}
	groups := map[string]*Line{}
	for _, r := range rows {
		if !inWindow(r.Date, periodDays, now) {
			continue
		}
		l := line(groups, r.Category)
		l.Count++
		l.Amount += r.Amount
		rep.Total.Count++
		rep.Total.Amount += r.Amount
	}
	rep.Total.Key = "Итого"
	rep.Lines = sorted(groups)
	return rep
}

func salesReport(title string, rows []ledger.SaleRow, periodDays int, now time.Time, key func(ledger.SaleRow) string) Report {
	rep := Report{Title: title, PeriodDays: periodDays, HasQty: true}
	groups := map[string]*Line{}
	for _, r := range rows {
		if !inWindow(r.Date, periodDays, now) {
			continue
		}
		l := line(groups, key(r))
		l.Count++
		l.Qty += r.Quantity
		l.Amount += r.Total
		rep.Total.Count++
		rep.Total.Qty += r.Quantity
		rep.Total.Amount += r.Total
	}
	rep.Total.Key = "Итого"
	rep.Lines = sorted(groups)
	return rep
}

// inWindow — дата внутри [now-periodDays; now] включительно, по дням.
// Нулевая дата (строка с нечитаемой датой) всегда вне окна.
func inWindow(d time.Time, periodDays int, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	from := truncateDay(now.AddDate(0, 0, -periodDays))
	to := truncateDay(now).AddDate(0, 0, 1)
	day := truncateDay(d)
	return !day.Before(from) && day.Before(to)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func line(groups map[string]*Line, key string) *Line {
	if key == "" {
		key = "(не указано)"
	}
	l, ok := groups[key]
	if !ok {
		l = &Line{Key: key}
		groups[key] = l
	}
	return l
}

// sorted — по убыванию суммы, при равенстве — по ключу, чтобы отчёт был
// детерминированным.
func sorted(groups map[string]*Line) []Line {
	out := make([]Line, 0, len(groups))
	for _, l := range groups {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Render — моноширинная таблица для отправки в чат.
func (r Report) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s за %d дн.\n\n", r.Title, r.PeriodDays)
	if len(r.Lines) == 0 {
		sb.WriteString("Записей за период нет.")
		return sb.String()
	}

	write := func(l Line) {
		if r.HasQty {
			fmt.Fprintf(&sb, "%s — продаж: %d, шт: %d, сумма: %.2f, средний чек: %.2f, за единицу: %.2f\n",
				l.Key, l.Count, l.Qty, l.Amount, l.AvgCheck(), l.AvgPerUnit())
		} else {
			fmt.Fprintf(&sb, "%s — записей: %d, сумма: %.2f, в среднем: %.2f\n",
				l.Key, l.Count, l.Amount, l.AvgCheck())
		}
	}
	for _, l := range r.Lines {
		write(l)
	}
	sb.WriteString("—\n")
	write(r.Total)
	return sb.String()
}
