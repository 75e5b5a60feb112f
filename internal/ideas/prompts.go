package ideas

import (
	"fmt"

	"github.com/edgard/giftbot/internal/database"
)

const ideasPromptTemplate = "Кому: %s. Повод: %s. Возраст: %d. Интересы: %s. Бюджет: %d₽. " +
	"Предложи 5 идей подарков развёрнуто и с эмодзи."

// BuildPrompt renders the request sent to the model for a form.
func BuildPrompt(f database.Form) string {
	return fmt.Sprintf(ideasPromptTemplate, f.Relation, f.Occasion, f.Age, f.Hobbies, f.Budget)
}
