package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/ledger"
)

var now = time.Date(2025, 11, 30, 15, 0, 0, 0, time.UTC)

func sale(channel, product string, qty int, total float64, daysAgo int) ledger.SaleRow {
	return ledger.SaleRow{
		Channel:     channel,
		ProductType: product,
		Quantity:    qty,
		Total:       total,
		Date:        now.AddDate(0, 0, -daysAgo),
	}
}

func TestSalesByChannelGrouping(t *testing.T) {
	rows := []ledger.SaleRow{
		sale("Сайт", "Кружка", 1, 100, 1),
		sale("Сайт", "Кружка", 1, 50, 2),
		sale("Инстаграм", "Кружка", 2, 200, 3),
	}

	rep := SalesByChannel(rows, 30, now)
	require.Len(t, rep.Lines, 2)

	assert.Equal(t, "Инстаграм", rep.Lines[0].Key, "сортировка по убыванию суммы")
	assert.Equal(t, 1, rep.Lines[0].Count)
	assert.Equal(t, 200.0, rep.Lines[0].Amount)

	assert.Equal(t, "Сайт", rep.Lines[1].Key)
	assert.Equal(t, 2, rep.Lines[1].Count)
	assert.Equal(t, 150.0, rep.Lines[1].Amount)

	assert.Equal(t, 3, rep.Total.Count)
	assert.Equal(t, 350.0, rep.Total.Amount)
}

func TestWindowIsInclusiveAndSkipsZeroDates(t *testing.T) {
	rows := []ledger.SaleRow{
		sale("Сайт", "Кружка", 1, 100, 0),  // сегодня
		sale("Сайт", "Кружка", 1, 100, 7),  // ровно на границе — входит
		sale("Сайт", "Кружка", 1, 100, 8),  // за окном
		{Channel: "Сайт", Quantity: 1, Total: 100}, // нулевая дата — исключена
	}

	rep := SalesByChannel(rows, 7, now)
	require.Len(t, rep.Lines, 1)
	assert.Equal(t, 2, rep.Lines[0].Count)
}

func TestTiesBrokenByKey(t *testing.T) {
	rows := []ledger.SaleRow{
		sale("Сайт", "Кружка", 1, 100, 1),
		sale("Ярмарка", "Кружка", 1, 100, 1),
		sale("Авито", "Кружка", 1, 100, 1),
	}
	rep := SalesByChannel(rows, 30, now)
	keys := []string{rep.Lines[0].Key, rep.Lines[1].Key, rep.Lines[2].Key}
	assert.Equal(t, []string{"Авито", "Сайт", "Ярмарка"}, keys)
}

func TestAveragesGuardZeroDenominator(t *testing.T) {
	l := Line{Key: "x"}
	assert.Zero(t, l.AvgCheck())
	assert.Zero(t, l.AvgPerUnit())

	rep := SalesByProduct(nil, 30, now)
	assert.Empty(t, rep.Lines)
	assert.Zero(t, rep.Total.AvgCheck())
	assert.Contains(t, rep.Render(), "Записей за период нет")
}

func TestExpensesReport(t *testing.T) {
	rows := []ledger.ExpenseRow{
		{Category: "Ткань", Amount: 500, Date: now.AddDate(0, 0, -1)},
		{Category: "Ткань", Amount: 300, Date: now.AddDate(0, 0, -2)},
		{Category: "Фурнитура", Amount: 100, Date: now.AddDate(0, 0, -3)},
	}
	rep := Expenses(rows, 30, now)
	require.Len(t, rep.Lines, 2)
	assert.Equal(t, "Ткань", rep.Lines[0].Key)
	assert.Equal(t, 800.0, rep.Lines[0].Amount)
	assert.Equal(t, 400.0, rep.Lines[0].AvgCheck())
	assert.Equal(t, 900.0, rep.Total.Amount)
	assert.False(t, rep.HasQty)
}

func TestRenderContainsTotals(t *testing.T) {
	rows := []ledger.SaleRow{sale("Сайт", "Кружка", 3, 1500, 1)}
	out := SalesByChannel(rows, 7, now).Render()
	assert.Contains(t, out, "Сайт")
	assert.Contains(t, out, "Итого")
	assert.Contains(t, out, "1500.00")
	assert.Contains(t, out, "за единицу: 500.00", "сумма, делённая на штуки")
}
