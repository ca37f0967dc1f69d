package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsKeyboardRoundTrip(t *testing.T) {
	options := []string{"Сайт", "Инстаграм", "Ярмарка"}
	kb := optionsKeyboard("sale:channel", options, 2)

	var seen []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data := *btn.CallbackData
			if data == "nav:cancel" {
				continue
			}
			parts := strings.Split(data, ":")
			require.Len(t, parts, 4, "sale:<kind>:<idx>:<sum>")
			v, ok := optionAt(options, parts[2], parts[3])
			require.True(t, ok)
			assert.Equal(t, btn.Text, v, "callback ведёт на тот же текст, что на кнопке")
			seen = append(seen, v)
		}
	}
	assert.Equal(t, options, seen)
}

func TestOptionAtRejectsReorderedList(t *testing.T) {
	// клавиатура построена по старому списку, справочник перечитан и
	// варианты поменялись местами — индекс валиден, но текст другой
	old := []string{"Сайт", "Инстаграм"}
	fresh := []string{"Инстаграм", "Сайт"}

	_, ok := optionAt(fresh, "0", optionSum(old[0]))
	assert.False(t, ok, "индекс 0 теперь указывает на другой вариант")

	v, ok := optionAt(fresh, "1", optionSum("Сайт"))
	require.True(t, ok, "совпавший текст проходит независимо от позиции")
	assert.Equal(t, "Сайт", v)
}

func TestOptionAtRejectsBadIndex(t *testing.T) {
	options := []string{"Сайт"}
	for _, idx := range []string{"-1", "1", "abc", ""} {
		_, ok := optionAt(options, idx, optionSum("Сайт"))
		assert.False(t, ok, "idx=%q", idx)
	}
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	// лимит callback data — 64 байта; индекс и сумма фиксированной длины
	data := "sale:color_type:99:" + optionSum("Светоотражающий принт")
	assert.LessOrEqual(t, len(data), 64)
}
