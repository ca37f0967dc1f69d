package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/dialog"
	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/refdata"
)

var (
	// ErrOutOfSequence — действие не соответствует текущему шагу: повторный
	// тап по уже обработанной кнопке или отставшее сообщение. Черновик не
	// меняется, пользователю перерисовывается текущий шаг.
	ErrOutOfSequence = errors.New("action out of sequence")

	// ErrInvalidChoice — значение не из списка вариантов текущего шага.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrInvalidQuantity — количество не целое положительное число.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// DefaultColorType подставляется «простым» типам изделий, у которых нет
// выбора типа цвета.
const DefaultColorType = "Стандарт"

// Kind — вид действия пользователя; совпадает с шагом, на котором оно законно.
type Kind string

const (
	KindChannel     Kind = "channel"
	KindProductType Kind = "product"
	KindWidth       Kind = "width"
	KindSize        Kind = "size"
	KindLength      Kind = "length"
	KindColorType   Kind = "color_type"
	KindColor       Kind = "color"
	KindPayment     Kind = "payment"
	KindQuantity    Kind = "quantity"
)

// Action — одно действие пользователя: выбранный вариант или введённый текст.
type Action struct {
	Kind  Kind
	Value string
}

// Prompt — что показать следующим шагом. Options == nil означает свободный
// ввод (количество). Done == true — анкета заполнена, Quantity принято.
type Prompt struct {
	State    dialog.State
	Kind     Kind
	Text     string
	Options  []string
	Done     bool
	Quantity int
}

// stateKind — закрытая таблица переходов: в каком состоянии какое действие
// законно. Всё остальное — ErrOutOfSequence.
var stateKind = map[dialog.State]Kind{
	dialog.StateSaleChannel:     KindChannel,
	dialog.StateSaleProductType: KindProductType,
	dialog.StateSaleWidth:       KindWidth,
	dialog.StateSaleSize:        KindSize,
	dialog.StateSaleLength:      KindLength,
	dialog.StateSaleColorType:   KindColorType,
	dialog.StateSaleColor:       KindColor,
	dialog.StateSalePayment:     KindPayment,
	dialog.StateSaleQuantity:    KindQuantity,
}

// Machine гоняет анкету продажи по шагам поверх загруженного справочника.
// Сама никуда не пишет: черновик сохраняет и строку в таблицу добавляет
// вызывающая сторона.
type Machine struct {
	schema *refdata.Schema
}

func New(schema *refdata.Schema) *Machine {
	return &Machine{schema: schema}
}

// Start начинает новую продажу: прежний черновик молча сбрасывается.
func (m *Machine) Start(d *dialog.Draft) Prompt {
	d.ResetSale()
	d.State = dialog.StateSaleChannel
	return m.PromptFor(d)
}

// Apply валидирует действие против текущего шага, записывает значение в
// черновик и возвращает следующий вопрос. При ошибке черновик не меняется.
func (m *Machine) Apply(d *dialog.Draft, a Action) (Prompt, error) {
	want, ok := stateKind[d.State]
	if !ok || want != a.Kind {
		return Prompt{}, ErrOutOfSequence
	}

	v := strings.TrimSpace(a.Value)

	switch a.Kind {
	case KindChannel:
		if !contains(m.schema.Channels, v) {
			return Prompt{}, ErrInvalidChoice
		}
		d.Channel = &v
		d.State = dialog.StateSaleProductType

	case KindProductType:
		spec, ok := m.schema.ProductTypes[v]
		if !ok {
			return Prompt{}, ErrInvalidChoice
		}
		d.ProductType = &v
		if m.schema.IsSimple(v) {
			ct := DefaultColorType
			d.ColorType = &ct
			d.State = dialog.StateSaleColor
		} else if spec.HasWidth && len(m.schema.WidthOrder) > 0 {
			d.State = dialog.StateSaleWidth
		} else {
			d.State = dialog.StateSaleColorType
		}

	case KindWidth:
		ws, ok := m.schema.Widths[v]
		if !ok {
			return Prompt{}, ErrInvalidChoice
		}
		d.Width = &v
		d.State = m.afterWidth(d, ws)

	case KindSize:
		if !contains(m.sizeOptions(d), v) {
			return Prompt{}, ErrInvalidChoice
		}
		d.Size = &v
		d.State = dialog.StateSaleColorType

	case KindLength:
		if !contains(m.lengthOptions(d), v) {
			return Prompt{}, ErrInvalidChoice
		}
		d.Length = &v
		d.State = dialog.StateSaleColorType

	case KindColorType:
		if _, ok := m.schema.ColorTypes[v]; !ok {
			return Prompt{}, ErrInvalidChoice
		}
		d.ColorType = &v
		d.State = dialog.StateSaleColor

	case KindColor:
		if !contains(m.colorOptions(d), v) {
			return Prompt{}, ErrInvalidChoice
		}
		d.Color = &v
		d.State = dialog.StateSalePayment

	case KindPayment:
		if !contains(m.schema.PaymentMethods, v) {
			return Prompt{}, ErrInvalidChoice
		}
		d.PaymentMethod = &v
		d.State = dialog.StateSaleQuantity

	case KindQuantity:
		n, err := parseQuantity(v)
		if err != nil {
			return Prompt{}, err
		}
		// состояние не меняем: при неудачной записи в таблицу черновик
		// остаётся на шаге количества и ввод можно повторить
		return Prompt{Done: true, Quantity: n}, nil
	}

	return m.PromptFor(d), nil
}

// afterWidth — размер, если он есть у типа и у ширины; иначе длина; иначе
// сразу тип цвета (ширина без размеров и длин пропускает оба шага).
func (m *Machine) afterWidth(d *dialog.Draft, ws refdata.WidthSpec) dialog.State {
	spec := m.schema.ProductTypes[deref(d.ProductType)]
	if spec.HasSize && len(ws.Sizes) > 0 {
		return dialog.StateSaleSize
	}
	if spec.HasLength && len(ws.Lengths) > 0 {
		return dialog.StateSaleLength
	}
	return dialog.StateSaleColorType
}

// PromptFor перерисовывает вопрос текущего шага; списки вариантов берутся
// из живого справочника, в черновике они не хранятся.
func (m *Machine) PromptFor(d *dialog.Draft) Prompt {
	switch d.State {
	case dialog.StateSaleChannel:
		return Prompt{State: d.State, Kind: KindChannel,
			Text: "Выберите канал продаж:", Options: m.schema.Channels}
	case dialog.StateSaleProductType:
		return Prompt{State: d.State, Kind: KindProductType,
			Text: "Выберите тип изделия:", Options: m.schema.ProductTypeOrder}
	case dialog.StateSaleWidth:
		return Prompt{State: d.State, Kind: KindWidth,
			Text: "Выберите ширину:", Options: m.schema.WidthOrder}
	case dialog.StateSaleSize:
		return Prompt{State: d.State, Kind: KindSize,
			Text: "Выберите размер:", Options: m.sizeOptions(d)}
	case dialog.StateSaleLength:
		return Prompt{State: d.State, Kind: KindLength,
			Text: "Выберите длину:", Options: m.lengthOptions(d)}
	case dialog.StateSaleColorType:
		return Prompt{State: d.State, Kind: KindColorType,
			Text: "Выберите тип цвета:", Options: m.schema.ColorTypeOrder}
	case dialog.StateSaleColor:
		return Prompt{State: d.State, Kind: KindColor,
			Text: "Выберите цвет:", Options: m.colorOptions(d)}
	case dialog.StateSalePayment:
		return Prompt{State: d.State, Kind: KindPayment,
			Text: "Выберите способ оплаты:", Options: m.schema.PaymentMethods}
	case dialog.StateSaleQuantity:
		return Prompt{State: d.State, Kind: KindQuantity,
			Text: "Введите количество (целое число):"}
	}
	return Prompt{State: d.State}
}

func (m *Machine) sizeOptions(d *dialog.Draft) []string {
	return m.schema.Widths[deref(d.Width)].Sizes
}

func (m *Machine) lengthOptions(d *dialog.Draft) []string {
	return m.schema.Widths[deref(d.Width)].Lengths
}

// colorOptions — палитра типа цвета; «простые» типы с подставленным
// DefaultColorType берут общую палитру.
func (m *Machine) colorOptions(d *dialog.Draft) []string {
	ct := deref(d.ColorType)
	if colors, ok := m.schema.ColorTypes[ct]; ok {
		return colors
	}
	return m.schema.AllColors
}

func parseQuantity(v string) (int, error) {
	if strings.ContainsAny(v, ".,") {
		return 0, fmt.Errorf("%w: дробное значение", ErrInvalidQuantity)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
