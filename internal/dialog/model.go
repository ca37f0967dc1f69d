package dialog

import "time"

type State string

const (
	StateIdle State = "idle"

	// Мастер продажи — вопросы идут строго по порядку, необязательные шаги
	// пропускаются по флагам типа изделия.
	StateSaleChannel     State = "sale_channel"
	StateSaleProductType State = "sale_product_type"
	StateSaleWidth       State = "sale_width"
	StateSaleSize        State = "sale_size"
	StateSaleLength      State = "sale_length"
	StateSaleColorType   State = "sale_color_type"
	StateSaleColor       State = "sale_color"
	StateSalePayment     State = "sale_payment"
	StateSaleQuantity    State = "sale_quantity"

	// Расход
	StateExpCategory State = "exp_category"
	StateExpAmount   State = "exp_amount"
	StateExpComment  State = "exp_comment"

	// Отчёты
	StateReportKind   State = "report_kind"
	StateReportPeriod State = "report_period"
)

type Payload map[string]any

// Draft — редактируемое состояние диалога пользователя. Для мастера продажи
// атрибуты заказа лежат в типизированных полях и заполняются слева направо:
// заполненные поля всегда образуют префикс канонического порядка.
// Payload — служебные данные вспомогательных потоков (расход, отчёты).
type Draft struct {
	UserID int64
	State  State

	Channel       *string
	ProductType   *string
	Width         *string
	Size          *string
	Length        *string
	ColorType     *string
	Color         *string
	PaymentMethod *string

	Payload   Payload
	CreatedAt time.Time
}

// NewDraft — пустой диалог в состоянии покоя.
func NewDraft(userID int64) *Draft {
	return &Draft{UserID: userID, State: StateIdle, Payload: Payload{}, CreatedAt: time.Now()}
}

// ResetSale обнуляет атрибуты заказа; вызывается при старте новой продажи.
func (d *Draft) ResetSale() {
	d.Channel, d.ProductType = nil, nil
	d.Width, d.Size, d.Length = nil, nil, nil
	d.ColorType, d.Color, d.PaymentMethod = nil, nil, nil
	d.Payload = Payload{}
}

// GetString — безопасное чтение строки из payload.
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetFloat — payload хранится в JSON, числа приходят как float64.
func GetFloat(p Payload, key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
