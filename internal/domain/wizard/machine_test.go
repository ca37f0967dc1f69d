package wizard

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

func testSchema() *refdata.Schema {
	return &refdata.Schema{
		Channels:          []string{"Сайт", "Инстаграм"},
		PaymentMethods:    []string{"Наличные", "Карта"},
		ExpenseCategories: []string{"Ткань"},
		ProductTypes: map[string]refdata.ProductTypeSpec{
			"Комбинезон": {HasWidth: true, HasSize: true},
			"Дождевик":   {HasWidth: true, HasLength: true},
			"Шлейка":     {},
			"Кружка":     {},
		},
		ProductTypeOrder: []string{"Комбинезон", "Дождевик", "Шлейка", "Кружка"},
		Widths: map[string]refdata.WidthSpec{
			"Узкая":   {Sizes: []string{"S", "M"}, Lengths: []string{"30", "35"}},
			"Широкая": {}, // без размеров и длин
		},
		WidthOrder: []string{"Узкая", "Широкая"},
		ColorTypes: map[string][]string{
			"Однотонный": {"Красный", "Синий"},
			"Принт":      {"Клетка"},
		},
		ColorTypeOrder: []string{"Однотонный", "Принт"},
		AllColors:      []string{"Красный", "Синий", "Зелёный"},
	}
}

func apply(t *testing.T, m *Machine, d *dialog.Draft, kind Kind, value string) Prompt {
	t.Helper()
	p, err := m.Apply(d, Action{Kind: kind, Value: value})
	require.NoError(t, err, "шаг %s=%q", kind, value)
	return p
}

func TestFullFlowWithAllAttributes(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)

	p := m.Start(d)
	assert.Equal(t, dialog.StateSaleChannel, d.State)
	assert.Equal(t, []string{"Сайт", "Инстаграм"}, p.Options)

	apply(t, m, d, KindChannel, "Сайт")
	apply(t, m, d, KindProductType, "Комбинезон")
	assert.Equal(t, dialog.StateSaleWidth, d.State)

	p = apply(t, m, d, KindWidth, "Узкая")
	assert.Equal(t, dialog.StateSaleSize, d.State)
	assert.Equal(t, []string{"S", "M"}, p.Options)

	apply(t, m, d, KindSize, "M")
	assert.Equal(t, dialog.StateSaleColorType, d.State)

	apply(t, m, d, KindColorType, "Однотонный")
	p = m.PromptFor(d)
	assert.Equal(t, []string{"Красный", "Синий"}, p.Options)

	apply(t, m, d, KindColor, "Красный")
	apply(t, m, d, KindPayment, "Карта")
	assert.Equal(t, dialog.StateSaleQuantity, d.State)

	p = apply(t, m, d, KindQuantity, "3")
	assert.True(t, p.Done)
	assert.Equal(t, 3, p.Quantity)
	// состояние остаётся на количестве: запись в таблицу может не пройти,
	// и тогда ввод повторяется без повторной анкеты
	assert.Equal(t, dialog.StateSaleQuantity, d.State)
}

func TestSimpleProductSkipsToFlatPalette(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)

	apply(t, m, d, KindChannel, "Сайт")
	p := apply(t, m, d, KindProductType, "Кружка")

	assert.Equal(t, dialog.StateSaleColor, d.State)
	require.NotNil(t, d.ColorType)
	assert.Equal(t, DefaultColorType, *d.ColorType)
	assert.Equal(t, []string{"Красный", "Синий", "Зелёный"}, p.Options, "общая палитра")

	apply(t, m, d, KindColor, "Зелёный")
	apply(t, m, d, KindPayment, "Наличные")
	p = apply(t, m, d, KindQuantity, "1")
	assert.True(t, p.Done)
}

func TestWidthWithoutSizesAndLengthsSkipsBoth(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)

	apply(t, m, d, KindChannel, "Сайт")
	apply(t, m, d, KindProductType, "Комбинезон")
	apply(t, m, d, KindWidth, "Широкая")

	assert.Equal(t, dialog.StateSaleColorType, d.State)
	assert.Nil(t, d.Size)
	assert.Nil(t, d.Length)
}

func TestLengthAskedWhenNoSizeFlag(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)

	apply(t, m, d, KindChannel, "Сайт")
	apply(t, m, d, KindProductType, "Дождевик")
	p := apply(t, m, d, KindWidth, "Узкая")

	assert.Equal(t, dialog.StateSaleLength, d.State)
	assert.Equal(t, []string{"30", "35"}, p.Options)
}

func TestOutOfSequenceDoesNotMutate(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)

	apply(t, m, d, KindChannel, "Сайт")
	apply(t, m, d, KindProductType, "Кружка")
	apply(t, m, d, KindColor, "Красный")
	apply(t, m, d, KindPayment, "Карта")

	// повторный тап по уже обработанной кнопке цвета
	before := *d
	_, err := m.Apply(d, Action{Kind: KindColor, Value: "Синий"})
	assert.ErrorIs(t, err, ErrOutOfSequence)
	assert.Equal(t, before.State, d.State)
	assert.Equal(t, *before.Color, *d.Color)
}

func TestInvalidChoiceRejected(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)

	_, err := m.Apply(d, Action{Kind: KindChannel, Value: "Авито"})
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Nil(t, d.Channel)
	assert.Equal(t, dialog.StateSaleChannel, d.State)
}

func TestQuantityValidation(t *testing.T) {
	m := New(testSchema())
	d := dialog.NewDraft(1)
	m.Start(d)
	apply(t, m, d, KindChannel, "Сайт")
	apply(t, m, d, KindProductType, "Шлейка")
	apply(t, m, d, KindColor, "Красный")
	apply(t, m, d, KindPayment, "Карта")

	for _, bad := range []string{"", "abc", "0", "-2", "1.5", "2,5"} {
		_, err := m.Apply(d, Action{Kind: KindQuantity, Value: bad})
		assert.ErrorIs(t, err, ErrInvalidQuantity, "qty=%q", bad)
		assert.Equal(t, dialog.StateSaleQuantity, d.State)
	}

	p, err := m.Apply(d, Action{Kind: KindQuantity, Value: " 7 "})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Quantity)
}

// Префикс-инвариант: на любом достижимом состоянии заполненные поля образуют
// префикс канонического порядка для выбранного типа изделия.
func TestPrefixInvariantUnderRandomActions(t *testing.T) {
	schema := testSchema()
	m := New(schema)
	rng := rand.New(rand.NewSource(42))

	kinds := []Kind{KindChannel, KindProductType, KindWidth, KindSize,
		KindLength, KindColorType, KindColor, KindPayment, KindQuantity}
	values := []string{"Сайт", "Инстаграм", "Комбинезон", "Дождевик", "Кружка",
		"Узкая", "Широкая", "S", "M", "30", "Однотонный", "Принт",
		"Красный", "Синий", "Зелёный", "Клетка", "Наличные", "Карта", "3", "x"}

	for run := 0; run < 200; run++ {
		d := dialog.NewDraft(1)
		m.Start(d)
		for step := 0; step < 30; step++ {
			a := Action{
				Kind:  kinds[rng.Intn(len(kinds))],
				Value: values[rng.Intn(len(values))],
			}
			_, _ = m.Apply(d, a)
			assertPrefix(t, schema, d)
		}
	}
}

func assertPrefix(t *testing.T, schema *refdata.Schema, d *dialog.Draft) {
	t.Helper()
	// канонический порядок: канал, тип, [ширина, размер/длина], тип цвета,
	// цвет, оплата; поле N+1 не может быть заполнено при пустом поле N
	fields := []*string{d.Channel, d.ProductType}
	if d.ProductType != nil && !schema.IsSimple(*d.ProductType) {
		spec := schema.ProductTypes[*d.ProductType]
		if spec.HasWidth {
			fields = append(fields, d.Width)
			if d.Width != nil {
				ws := schema.Widths[*d.Width]
				if spec.HasSize && len(ws.Sizes) > 0 {
					fields = append(fields, d.Size)
				} else if spec.HasLength && len(ws.Lengths) > 0 {
					fields = append(fields, d.Length)
				}
			}
		}
	}
	fields = append(fields, d.ColorType, d.Color, d.PaymentMethod)

	seenNil := false
	for i, f := range fields {
		if f == nil {
			seenNil = true
		} else if seenNil {
			t.Fatalf("нарушен префикс-инвариант: поле %d заполнено после пустого (draft: %+v)", i, d)
		}
	}
}
