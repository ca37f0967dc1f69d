package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tunterissimo/avanturist-dog-sales-bot/internal/domain/wizard"
)

func TestChoiceStepEmpty(t *testing.T) {
	assert.True(t, choiceStepEmpty(wizard.Prompt{Kind: wizard.KindChannel}),
		"шаг-выбор без вариантов — справочник пуст")
	assert.False(t, choiceStepEmpty(wizard.Prompt{
		Kind: wizard.KindChannel, Options: []string{"Сайт"},
	}))
	assert.False(t, choiceStepEmpty(wizard.Prompt{Kind: wizard.KindQuantity}),
		"количество — свободный ввод, вариантов не бывает")
}
