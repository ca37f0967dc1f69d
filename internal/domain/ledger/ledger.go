package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/pricing"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

// Формат даты в таблицах.
const dateLayout = "02.01.2006"

// SaleRow — завершённая продажа; строки только дописываются, никогда
// не правятся и не удаляются ботом.
type SaleRow struct {
	Channel       string
	ProductType   string
	Width         string
	Size          string
	Length        string
	ColorType     string
	Color         string
	Quantity      int
	UnitPrice     float64
	Total         float64
	PaymentMethod string
	Date          time.Time
}

// ExpenseRow — разовая запись расхода.
type ExpenseRow struct {
	Category string
	Amount   float64
	Comment  string
	Date     time.Time
}

// Source — чтение и дозапись табличных строк.
type Source interface {
	refdata.RowSource
	AppendRow(ctx context.Context, sheet string, row []any) error
}

// Book — журналы продаж и расходов.
type Book struct {
	src           Source
	salesSheet    string
	expensesSheet string
	loc           *time.Location
	log           *slog.Logger
}

func NewBook(src Source, salesSheet, expensesSheet string, loc *time.Location, log *slog.Logger) *Book {
	return &Book{src: src, salesSheet: salesSheet, expensesSheet: expensesSheet, loc: loc, log: log}
}

func (b *Book) AppendSale(ctx context.Context, r SaleRow) error {
	row := []any{
		r.Channel, r.ProductType, r.Width, r.Size, r.Length, r.ColorType,
		r.Color, r.Quantity, formatMoney(r.UnitPrice), formatMoney(r.Total),
		r.PaymentMethod, r.Date.In(b.loc).Format(dateLayout),
	}
	if err := b.src.AppendRow(ctx, b.salesSheet, row); err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

func (b *Book) AppendExpense(ctx context.Context, r ExpenseRow) error {
	row := []any{
		r.Category, formatMoney(r.Amount), r.Comment,
		r.Date.In(b.loc).Format(dateLayout),
	}
	if err := b.src.AppendRow(ctx, b.expensesSheet, row); err != nil {
		return fmt.Errorf("append expense: %w", err)
	}
	return nil
}

// Sales читает журнал продаж целиком. Строки с нечитаемой датой получают
// нулевую дату и отфильтровываются на уровне отчётов.
func (b *Book) Sales(ctx context.Context) ([]SaleRow, error) {
	rows, err := b.src.GetRows(ctx, b.salesSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sales: %v", refdata.ErrSourceUnavailable, err)
	}
	var out []SaleRow
	for i, row := range rows {
		first := strings.TrimSpace(cell(row, 0))
		if first == "" || strings.EqualFold(first, "Канал") {
			continue
		}
		qty, _ := strconv.Atoi(strings.TrimSpace(cell(row, 7)))
		r := SaleRow{
			Channel:       first,
			ProductType:   strings.TrimSpace(cell(row, 1)),
			Width:         strings.TrimSpace(cell(row, 2)),
			Size:          strings.TrimSpace(cell(row, 3)),
			Length:        strings.TrimSpace(cell(row, 4)),
			ColorType:     strings.TrimSpace(cell(row, 5)),
			Color:         strings.TrimSpace(cell(row, 6)),
			Quantity:      qty,
			UnitPrice:     parseMoney(cell(row, 8)),
			Total:         parseMoney(cell(row, 9)),
			PaymentMethod: strings.TrimSpace(cell(row, 10)),
			Date:          b.parseDate(cell(row, 11), i),
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *Book) Expenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := b.src.GetRows(ctx, b.expensesSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: expenses: %v", refdata.ErrSourceUnavailable, err)
	}
	var out []ExpenseRow
	for i, row := range rows {
		first := strings.TrimSpace(cell(row, 0))
		if first == "" || strings.EqualFold(first, "Категория") {
			continue
		}
		out = append(out, ExpenseRow{
			Category: first,
			Amount:   parseMoney(cell(row, 1)),
			Comment:  strings.TrimSpace(cell(row, 2)),
			Date:     b.parseDate(cell(row, 3), i),
		})
	}
	return out, nil
}

func (b *Book) parseDate(v string, row int) time.Time {
	v = strings.TrimSpace(v)
	d, err := time.ParseInLocation(dateLayout, v, b.loc)
	if err != nil {
		b.log.Warn("ledger row with unparsable date", "row", row+1, "value", v)
		return time.Time{}
	}
	return d
}

func parseMoney(v string) float64 {
	f, _ := strconv.ParseFloat(pricing.CleanNumber(v), 64)
	return f
}

// formatMoney пишет число с запятой-десятичной, как принято в таблице.
func formatMoney(f float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(f, 'f', 2, 64), ".", ",")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
