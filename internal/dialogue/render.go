package dialogue

import (
	"strconv"
	"strings"

	"github.com/edgard/giftbot/internal/database"
	"github.com/edgard/giftbot/internal/session"
)

const placeholder = "—"

// FormCard renders a stored form for display.
func FormCard(f *database.Form) string {
	var b strings.Builder
	b.WriteString("👤 Анкета: " + f.Name + "\n")
	writeLine(&b, FieldRelation, orDash(f.Relation))
	writeLine(&b, FieldOccasion, orDash(f.Occasion))
	writeLine(&b, FieldAge, strconv.Itoa(f.Age))
	writeLine(&b, FieldHobbies, orDash(f.Hobbies))
	b.WriteString(FieldLabel(FieldBudget) + ": " + strconv.Itoa(f.Budget) + " ₽")
	return b.String()
}

// renderSummary lists the answers collected so far, with a dash for the
// ones not given yet.
func renderSummary(header string, s *session.Session) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString("Имя: " + orDash(s.PendingName) + "\n")
	writeLine(&b, FieldRelation, orDash(s.Who))
	writeLine(&b, FieldOccasion, orDash(s.Occasion))
	writeLine(&b, FieldAge, intOrDash(s.Age))
	writeLine(&b, FieldHobbies, orDash(s.Interests))
	budget := intOrDash(s.Budget)
	if s.Budget != nil {
		budget += " ₽"
	}
	b.WriteString(FieldLabel(FieldBudget) + ": " + budget)
	return b.String()
}

func writeLine(b *strings.Builder, field, value string) {
	b.WriteString(FieldLabel(field) + ": " + value + "\n")
}

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func intOrDash(v *int) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}
