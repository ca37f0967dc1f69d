package ledger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheet struct {
	rows     [][]string
	appended [][]any
}

func (f *fakeSheet) GetRows(context.Context, string) ([][]string, error) { return f.rows, nil }
func (f *fakeSheet) AppendRow(_ context.Context, _ string, row []any) error {
	f.appended = append(f.appended, row)
	return nil
}

func newTestBook(f *fakeSheet) *Book {
	return NewBook(f, "Продажи", "Расходы", time.UTC, slog.New(slog.DiscardHandler))
}

func TestAppendSaleRowShape(t *testing.T) {
	f := &fakeSheet{}
	b := newTestBook(f)

	err := b.AppendSale(context.Background(), SaleRow{
		Channel: "Сайт", ProductType: "Кружка", ColorType: "Стандарт",
		Color: "Красный", Quantity: 3, UnitPrice: 500, Total: 1500,
		PaymentMethod: "Наличные",
		Date:          time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, f.appended, 1)

	row := f.appended[0]
	// (канал, тип, ширина, размер, длина, тип цвета, цвет, кол-во,
	//  цена, сумма, оплата, дата)
	require.Len(t, row, 12)
	assert.Equal(t, "Сайт", row[0])
	assert.Equal(t, 3, row[7])
	assert.Equal(t, "500,00", row[8])
	assert.Equal(t, "1500,00", row[9])
	assert.Equal(t, "30.11.2025", row[11])
}

func TestSalesParsesAndTolerates(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"Канал", "Тип", "Ширина", "Размер", "Длина", "Тип цвета", "Цвет", "Кол-во", "Цена", "Сумма", "Оплата", "Дата"},
		{"Сайт", "Кружка", "", "", "", "Стандарт", "Красный", "3", "500,00", "1 500,00", "Наличные", "30.11.2025"},
		{"Сайт", "Кружка"}, // короткая строка: остальное пусто, дата нечитаемая
	}}
	b := newTestBook(f)

	rows, err := b.Sales(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Quantity)
	assert.Equal(t, 1500.0, rows[0].Total)
	assert.Equal(t, time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), rows[0].Date)

	assert.True(t, rows[1].Date.IsZero(), "нечитаемая дата → нулевая, отчёты её отфильтруют")
}

func TestExpensesParse(t *testing.T) {
	f := &fakeSheet{rows: [][]string{
		{"Категория", "Сумма", "Комментарий", "Дата"},
		{"Ткань", "800", "флис", "29.11.2025"},
	}}
	b := newTestBook(f)

	rows, err := b.Expenses(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ткань", rows[0].Category)
	assert.Equal(t, 800.0, rows[0].Amount)
	assert.Equal(t, "флис", rows[0].Comment)
}
