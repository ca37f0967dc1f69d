package refdata

// ProductTypeSpec — какие необязательные атрибуты есть у типа изделия.
type ProductTypeSpec struct {
	HasWidth  bool
	HasSize   bool
	HasLength bool
}

// WidthSpec — допустимые размеры и длины для выбранной ширины.
type WidthSpec struct {
	Sizes   []string
	Lengths []string
}

// Schema — справочник, загруженный из таблицы. Неизменяем после загрузки:
// обновление всегда подменяет структуру целиком.
type Schema struct {
	Channels          []string
	PaymentMethods    []string
	ExpenseCategories []string

	ProductTypes     map[string]ProductTypeSpec
	ProductTypeOrder []string

	Widths     map[string]WidthSpec
	WidthOrder []string

	ColorTypes     map[string][]string
	ColorTypeOrder []string

	// плоская палитра для «простых» типов без ширины/размера/типа цвета
	AllColors []string
}

// IsSimple — у типа нет ни ширины, ни размера, ни длины: цвет выбирается
// из общей палитры, тип цвета подставляется по умолчанию.
func (s *Schema) IsSimple(productType string) bool {
	spec, ok := s.ProductTypes[productType]
	return ok && !spec.HasWidth && !spec.HasSize && !spec.HasLength
}
