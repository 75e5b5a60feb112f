package dialogue

import "strings"

// CallbackKind identifies the button a callback payload came from.
type CallbackKind int

const (
	CallbackFormOpen CallbackKind = iota + 1
	CallbackEditSelect
	CallbackEditField
	CallbackDeleteAsk
	CallbackDeleteConfirm
	CallbackIdeaRequest
	CallbackListForms
)

const (
	prefixFormOpen      = "form"
	prefixEditSelect    = "edit"
	prefixEditField     = "editfield"
	prefixDeleteAsk     = "delete"
	prefixDeleteConfirm = "deleteok"
	prefixIdeaRequest   = "idea"
	payloadListForms    = "forms:list"
)

// MaxCallbackBytes is Telegram's limit on callback data.
const MaxCallbackBytes = 64

// Callback is a decoded inline button payload.
type Callback struct {
	Kind     CallbackKind
	FormName string
	// Field is set for CallbackEditField only.
	Field string
}

// ParseCallback decodes a payload of the form "<prefix>:<name>[:<field>]".
// The field of an editfield payload is taken after the last colon so form
// names may contain colons.
func ParseCallback(data string) (Callback, bool) {
	if data == payloadListForms {
		return Callback{Kind: CallbackListForms}, true
	}

	prefix, rest, ok := strings.Cut(data, ":")
	if !ok || rest == "" {
		return Callback{}, false
	}

	switch prefix {
	case prefixFormOpen:
		return Callback{Kind: CallbackFormOpen, FormName: rest}, true
	case prefixEditSelect:
		return Callback{Kind: CallbackEditSelect, FormName: rest}, true
	case prefixDeleteAsk:
		return Callback{Kind: CallbackDeleteAsk, FormName: rest}, true
	case prefixDeleteConfirm:
		return Callback{Kind: CallbackDeleteConfirm, FormName: rest}, true
	case prefixIdeaRequest:
		return Callback{Kind: CallbackIdeaRequest, FormName: rest}, true
	case prefixEditField:
		i := strings.LastIndex(rest, ":")
		if i <= 0 || i == len(rest)-1 {
			return Callback{}, false
		}
		return Callback{Kind: CallbackEditField, FormName: rest[:i], Field: rest[i+1:]}, true
	default:
		return Callback{}, false
	}
}

// Encode returns the wire payload for c.
func (c Callback) Encode() string {
	switch c.Kind {
	case CallbackFormOpen:
		return prefixFormOpen + ":" + c.FormName
	case CallbackEditSelect:
		return prefixEditSelect + ":" + c.FormName
	case CallbackEditField:
		return prefixEditField + ":" + c.FormName + ":" + c.Field
	case CallbackDeleteAsk:
		return prefixDeleteAsk + ":" + c.FormName
	case CallbackDeleteConfirm:
		return prefixDeleteConfirm + ":" + c.FormName
	case CallbackIdeaRequest:
		return prefixIdeaRequest + ":" + c.FormName
	case CallbackListForms:
		return payloadListForms
	default:
		return ""
	}
}
