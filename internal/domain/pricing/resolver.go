package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

// Tier — насколько точным оказалось совпадение по прайсу.
type Tier int

const (
	TierNotFound Tier = iota
	TierExact
	TierRelaxedColorType // без ширины/размера/длины
	TierRelaxedColor     // только тип изделия + цвет
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierRelaxedColorType:
		return "relaxed_color_type"
	case TierRelaxedColor:
		return "relaxed_color"
	}
	return "not_found"
}

// Query — атрибуты заказа; пустая строка и "None" означают «не применимо».
type Query struct {
	ProductType string
	Width       string
	Size        string
	Length      string
	ColorType   string
	Color       string
}

// Quote — найденная цена. TierNotFound — не ошибка: заказ проводится с нулевой
// ценой, оператор может поправить руками в таблице.
type Quote struct {
	Price float64
	Tier  Tier
}

type entry struct {
	productType, width, size, length, colorType, color string
	price                                              float64
}

// Resolver перечитывает прайс при каждом вызове: между вопросом о количестве
// и записью продажи цены могли поменяться.
type Resolver struct {
	src   refdata.RowSource
	sheet string
	log   *slog.Logger
}

func NewResolver(src refdata.RowSource, sheet string, log *slog.Logger) *Resolver {
	return &Resolver{src: src, sheet: sheet, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) (Quote, error) {
	rows, err := r.src.GetRows(ctx, r.sheet)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: prices: %v", refdata.ErrSourceUnavailable, err)
	}
	return r.match(rows, q), nil
}

func (r *Resolver) match(rows [][]string, q Query) Quote {
	entries := parseEntries(rows)

	qt := norm(q.ProductType)
	qw, qs, ql := norm(q.Width), norm(q.Size), norm(q.Length)
	qct, qc := norm(q.ColorType), norm(q.Color)

	// 1. точное совпадение; пустые ширина/размер/длина запроса подходят
	// к любой строке прайса
	for _, e := range entries {
		if e.productType == qt &&
			(qw == "" || qw == e.width) &&
			(qs == "" || qs == e.size) &&
			(ql == "" || ql == e.length) &&
			e.colorType == qct && e.color == qc {
			return Quote{Price: e.price, Tier: TierExact}
		}
	}

	// 2. без ширины/размера/длины
	for _, e := range entries {
		if e.productType == qt && e.colorType == qct && e.color == qc {
			return Quote{Price: e.price, Tier: TierRelaxedColorType}
		}
	}

	// 3. только тип + цвет
	for _, e := range entries {
		if e.productType == qt && e.color == qc {
			return Quote{Price: e.price, Tier: TierRelaxedColor}
		}
	}

	r.log.Warn("price not found", "product_type", q.ProductType, "color", q.Color)
	return Quote{Tier: TierNotFound}
}

// parseEntries — строки прайса: тип | ширина | размер | длина | тип цвета |
// цвет | цена. Строки без разбираемой цены пропускаются.
func parseEntries(rows [][]string) []entry {
	var out []entry
	for _, row := range rows {
		first := strings.TrimSpace(cellAt(row, 0))
		if first == "" || strings.EqualFold(first, "Тип") {
			continue
		}
		raw := strings.TrimSpace(cellAt(row, 6))
		if raw == "" {
			continue
		}
		price, err := strconv.ParseFloat(CleanNumber(raw), 64)
		if err != nil {
			continue
		}
		out = append(out, entry{
			productType: norm(first),
			width:       norm(cellAt(row, 1)),
			size:        norm(cellAt(row, 2)),
			length:      norm(cellAt(row, 3)),
			colorType:   norm(cellAt(row, 4)),
			color:       norm(cellAt(row, 5)),
			price:       price,
		})
	}
	return out
}

// norm приводит значение к виду для сравнения: трим, нижний регистр,
// сентинел "None" приравнивается к пустоте (причуда исходных данных).
func norm(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return ""
	}
	return strings.ToLower(s)
}

// CleanNumber готовит денежную строку к ParseFloat: убирает валютные хвосты
// и разделители тысяч, десятичную запятую меняет на точку.
// Пустая строка становится "0".
func CleanNumber(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "0"
	}
	for _, suffix := range []string{"руб.", "руб", "р.", "р", "₽"} {
		s = strings.ReplaceAll(s, suffix, "")
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	return b.String()
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
