package pricing

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

type fakePriceSource struct {
	rows [][]string
	err  error
}

func (f *fakePriceSource) GetRows(context.Context, string) ([][]string, error) {
	return f.rows, f.err
}

func newTestResolver(rows [][]string) *Resolver {
	return NewResolver(&fakePriceSource{rows: rows}, "Прайс", slog.New(slog.DiscardHandler))
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1 234,50 р.", "1234.50"},
		{"", "0"},
		{"1500", "1500"},
		{"350 руб.", "350"},
		{"2 000 ₽", "2000"},
		{"  99,9", "99.9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanNumber(tt.in), "clean(%q)", tt.in)
	}
}

func TestResolveTiers(t *testing.T) {
	rows := [][]string{
		{"Тип", "Ширина", "Размер", "Длина", "Тип цвета", "Цвет", "Цена"},
		{"Комбинезон", "Узкая", "M", "", "Однотонный", "Красный", "1 200 р."},
		{"Комбинезон", "", "", "", "Однотонный", "Красный", "1000"},
		{"Комбинезон", "", "", "", "", "Красный", "900"},
	}
	r := newTestResolver(rows)

	// полный набор атрибутов — точный ярус
	q, err := r.Resolve(context.Background(), Query{
		ProductType: "Комбинезон", Width: "Узкая", Size: "M",
		ColorType: "Однотонный", Color: "Красный",
	})
	require.NoError(t, err)
	assert.Equal(t, TierExact, q.Tier)
	assert.Equal(t, 1200.0, q.Price)

	// несовпавшая ширина/размер — ослабленный ярус, а не NotFound
	q, err = r.Resolve(context.Background(), Query{
		ProductType: "Комбинезон", Width: "Широкая", Size: "XL",
		ColorType: "Однотонный", Color: "Красный",
	})
	require.NoError(t, err)
	assert.Equal(t, TierRelaxedColorType, q.Tier)
	assert.Equal(t, 1000.0, q.Price)

	// незнакомый тип цвета — ярус «тип + цвет»
	q, err = r.Resolve(context.Background(), Query{
		ProductType: "Комбинезон", ColorType: "Принт", Color: "Красный",
	})
	require.NoError(t, err)
	assert.Equal(t, TierRelaxedColor, q.Tier)
	assert.Equal(t, 900.0, q.Price)
}

func TestResolveNotFoundIsZeroPrice(t *testing.T) {
	r := newTestResolver([][]string{
		{"Кружка", "", "", "", "Стандарт", "Синий", "350"},
	})
	q, err := r.Resolve(context.Background(), Query{ProductType: "Шлейка", Color: "Красный"})
	require.NoError(t, err)
	assert.Equal(t, TierNotFound, q.Tier)
	assert.Zero(t, q.Price)
}

func TestResolveEmptyQueryAttrsMatchAnyRow(t *testing.T) {
	// пустая ширина запроса совпадает с шириной в прайсе — так «простые»
	// типы находят строки, где ширина всё же заполнена
	r := newTestResolver([][]string{
		{"Кружка", "Узкая", "M", "30", "Стандарт", "Синий", "350"},
	})
	q, err := r.Resolve(context.Background(), Query{
		ProductType: "Кружка", ColorType: "Стандарт", Color: "Синий",
	})
	require.NoError(t, err)
	assert.Equal(t, TierExact, q.Tier)
	assert.Equal(t, 350.0, q.Price)
}

func TestResolveNoneEqualsEmpty(t *testing.T) {
	r := newTestResolver([][]string{
		{"Кружка", "None", "none", "", "Стандарт", "Синий", "350"},
	})
	q, err := r.Resolve(context.Background(), Query{
		ProductType: "Кружка", Width: "None", ColorType: "Стандарт", Color: "Синий",
	})
	require.NoError(t, err)
	assert.Equal(t, TierExact, q.Tier)
}

func TestResolveSkipsUnparsablePrice(t *testing.T) {
	r := newTestResolver([][]string{
		{"Кружка", "", "", "", "Стандарт", "Синий", "договорная"},
		{"Кружка", "", "", "", "Стандарт", "Синий", "350"},
	})
	q, err := r.Resolve(context.Background(), Query{
		ProductType: "Кружка", ColorType: "Стандарт", Color: "Синий",
	})
	require.NoError(t, err)
	assert.Equal(t, 350.0, q.Price)
}

func TestResolveSourceUnavailable(t *testing.T) {
	r := NewResolver(&fakePriceSource{err: errors.New("timeout")}, "Прайс", slog.New(slog.DiscardHandler))
	_, err := r.Resolve(context.Background(), Query{ProductType: "Кружка"})
	assert.ErrorIs(t, err, refdata.ErrSourceUnavailable)
}
