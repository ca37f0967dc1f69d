package refdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrSourceUnavailable — таблица недоступна (сеть/таймаут). Состояние
	// диалога не трогаем, пользователю предлагаем повторить позже.
	ErrSourceUnavailable = errors.New("reference source unavailable")

	// ErrSchemaMalformed — в справочнике нет обязательного раздела.
	ErrSchemaMalformed = errors.New("reference schema malformed")
)

// Маркеры разделов на листе справочника. Лист — плоский список строк,
// разделы переключаются строкой-заголовком в первой ячейке.
const (
	markerProductTypes = "ТИПЫ ИЗДЕЛИЙ"
	markerWidths       = "ШИРИНЫ"
	markerColorTypes   = "ТИПЫ ЦВЕТА"
	markerColors       = "ЦВЕТА"
)

// fallbackPaymentMethods — если лист со способами оплаты не читается,
// работаем по встроенному списку, а не падаем.
var fallbackPaymentMethods = []string{"Наличные", "Карта", "Перевод"}

// RowSource — источник табличных строк (Google Sheets в проде).
type RowSource interface {
	GetRows(ctx context.Context, sheet string) ([][]string, error)
}

// SheetNames — имена листов, из которых собирается справочник.
type SheetNames struct {
	Channels          string
	Payments          string
	ExpenseCategories string
	Reference         string
}

type Loader struct {
	src    RowSource
	sheets SheetNames
	log    *slog.Logger
}

func NewLoader(src RowSource, sheets SheetNames, log *slog.Logger) *Loader {
	return &Loader{src: src, sheets: sheets, log: log}
}

// Load собирает справочник целиком. Битые строки пропускаются с warning,
// отсутствие обязательного раздела — ошибка ErrSchemaMalformed.
func (l *Loader) Load(ctx context.Context) (*Schema, error) {
	s := &Schema{
		ProductTypes: map[string]ProductTypeSpec{},
		Widths:       map[string]WidthSpec{},
		ColorTypes:   map[string][]string{},
	}

	channels, err := l.loadList(ctx, l.sheets.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: channels: %v", ErrSourceUnavailable, err)
	}
	s.Channels = channels

	// способы оплаты деградируют до встроенного списка
	payments, err := l.loadList(ctx, l.sheets.Payments)
	if err != nil || len(payments) == 0 {
		l.log.Warn("payment methods sheet unavailable, using fallback", "err", err)
		payments = fallbackPaymentMethods
	}
	s.PaymentMethods = payments

	expenses, err := l.loadList(ctx, l.sheets.ExpenseCategories)
	if err != nil {
		return nil, fmt.Errorf("%w: expense categories: %v", ErrSourceUnavailable, err)
	}
	s.ExpenseCategories = expenses

	rows, err := l.src.GetRows(ctx, l.sheets.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: reference: %v", ErrSourceUnavailable, err)
	}
	if err := l.parseReference(rows, s); err != nil {
		return nil, err
	}
	return s, nil
}

// loadList читает колонку A листа, пропуская пустые ячейки и повторы заголовка.
func (l *Loader) loadList(ctx context.Context, sheet string) ([]string, error) {
	rows, err := l.src.GetRows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows {
		v := strings.TrimSpace(cell(row, 0))
		if v == "" || isListHeader(v) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func isListHeader(v string) bool {
	for _, h := range []string{"Канал", "Каналы продаж", "Способ оплаты", "Категория", "Название"} {
		if strings.EqualFold(v, h) {
			return true
		}
	}
	return false
}

type section int

const (
	secNone section = iota
	secProductTypes
	secWidths
	secColorTypes
	secColors
)

func (l *Loader) parseReference(rows [][]string, s *Schema) error {
	seen := map[section]bool{}
	cur := secNone

	for i, row := range rows {
		first := strings.TrimSpace(cell(row, 0))
		if first == "" {
			continue
		}

		if sec, ok := sectionMarker(first); ok {
			cur = sec
			seen[sec] = true
			continue
		}

		switch cur {
		case secProductTypes:
			// тип | ширина? | размер? | длина? (да/нет)
			if strings.EqualFold(first, "Тип") || strings.EqualFold(first, "Название") {
				continue
			}
			spec := ProductTypeSpec{
				HasWidth:  parseYes(cell(row, 1)),
				HasSize:   parseYes(cell(row, 2)),
				HasLength: parseYes(cell(row, 3)),
			}
			if _, dup := s.ProductTypes[first]; !dup {
				s.ProductTypeOrder = append(s.ProductTypeOrder, first)
			}
			s.ProductTypes[first] = spec

		case secWidths:
			// ширина | размеры через запятую | длины через запятую
			if strings.EqualFold(first, "Ширина") {
				continue
			}
			spec := WidthSpec{
				Sizes:   splitValues(cell(row, 1)),
				Lengths: splitValues(cell(row, 2)),
			}
			if _, dup := s.Widths[first]; !dup {
				s.WidthOrder = append(s.WidthOrder, first)
			}
			s.Widths[first] = spec

		case secColorTypes:
			// тип цвета | цвета через запятую
			if strings.EqualFold(first, "Тип цвета") {
				continue
			}
			colors := splitValues(cell(row, 1))
			if len(colors) == 0 {
				l.log.Warn("reference row skipped: color type without colors", "row", i+1, "value", first)
				continue
			}
			if _, dup := s.ColorTypes[first]; !dup {
				s.ColorTypeOrder = append(s.ColorTypeOrder, first)
			}
			s.ColorTypes[first] = colors

		case secColors:
			if strings.EqualFold(first, "Цвет") {
				continue
			}
			s.AllColors = append(s.AllColors, first)

		default:
			l.log.Warn("reference row outside of any section", "row", i+1, "value", first)
		}
	}

	for _, required := range []section{secProductTypes, secWidths, secColorTypes} {
		if !seen[required] {
			return fmt.Errorf("%w: missing section %q", ErrSchemaMalformed, sectionName(required))
		}
	}
	return nil
}

func sectionMarker(v string) (section, bool) {
	switch {
	case strings.EqualFold(v, markerProductTypes):
		return secProductTypes, true
	case strings.EqualFold(v, markerWidths):
		return secWidths, true
	case strings.EqualFold(v, markerColorTypes):
		return secColorTypes, true
	case strings.EqualFold(v, markerColors):
		return secColors, true
	}
	return secNone, false
}

func sectionName(s section) string {
	switch s {
	case secProductTypes:
		return markerProductTypes
	case secWidths:
		return markerWidths
	case secColorTypes:
		return markerColorTypes
	case secColors:
		return markerColors
	}
	return "?"
}

// parseYes — «да»/«yes» в любом регистре; всё остальное — false.
func parseYes(v string) bool {
	v = strings.TrimSpace(v)
	return strings.EqualFold(v, "да") || strings.EqualFold(v, "yes")
}

func splitValues(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cell — безопасный доступ к короткой строке: нет колонки — пустая строка.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
