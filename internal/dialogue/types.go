package dialogue

// Event is one inbound update: free text or a callback payload from a chat.
type Event struct {
	ChatID   int64
	Text     string
	Callback string
}

// WantsIdeas reports whether handling the event calls the idea generator,
// so the transport can show a typing indicator first.
func (ev Event) WantsIdeas() bool {
	if ev.Callback != "" {
		cb, ok := ParseCallback(ev.Callback)
		return ok && cb.Kind == CallbackIdeaRequest
	}
	cmd, ok := parseCommand(ev.Text)
	return ok && cmd == cmdIdeas
}

// KeyboardKind selects which set of buttons accompanies a response.
type KeyboardKind int

const (
	KeyboardNone KeyboardKind = iota
	KeyboardMainMenu
	KeyboardFormList
	KeyboardFormActions
	KeyboardEditMenu
	KeyboardConfirmDelete
	KeyboardBackToList
)

// Keyboard describes the buttons of a response without any platform detail.
type Keyboard struct {
	Kind      KeyboardKind
	FormName  string
	FormNames []string
}

// Response is the single reply produced for an event.
type Response struct {
	ChatID   int64
	Text     string
	Keyboard Keyboard
}

// Editable form fields, as used in editfield payloads.
const (
	FieldRelation = "relation"
	FieldOccasion = "occasion"
	FieldAge      = "age"
	FieldHobbies  = "hobbies"
	FieldBudget   = "budget"
)

// EditableFields lists the fields of the edit menu in display order.
var EditableFields = []string{FieldRelation, FieldOccasion, FieldAge, FieldHobbies, FieldBudget}

var fieldLabels = map[string]string{
	FieldRelation: "Кому",
	FieldOccasion: "Повод",
	FieldAge:      "Возраст",
	FieldHobbies:  "Интересы",
	FieldBudget:   "Бюджет",
}

// FieldLabel returns the human label of an editable field.
func FieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func isEditableField(field string) bool {
	_, ok := fieldLabels[field]
	return ok
}
