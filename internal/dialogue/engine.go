// Package dialogue implements the gift survey state machine: command
// dispatch, the step-by-step survey, the single-field edit flow and inline
// button routing.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/giftbot/internal/config"
	"github.com/edgard/giftbot/internal/database"
	"github.com/edgard/giftbot/internal/ideas"
	"github.com/edgard/giftbot/internal/session"
)

// ErrInternal wraps storage failures. The chat's state is left as it was
// before the event.
var ErrInternal = errors.New("internal dialogue error")

// MaxFormNameBytes keeps the longest payload, "editfield:<name>:relation",
// within Telegram's callback data limit.
const MaxFormNameBytes = MaxCallbackBytes - len(prefixEditField) - len(FieldRelation) - 2

const (
	ageRule    = "gte=0,lte=150"
	budgetRule = "gte=0"
)

const (
	cmdStart      = "start"
	cmdHelp       = "help"
	cmdReset      = "reset"
	cmdSummary    = "summary"
	cmdForms      = "forms"
	cmdCreateForm = "createform"
	cmdIdeas      = "ideas"
)

// FormStore is the persistence the engine needs.
type FormStore interface {
	UpsertForm(ctx context.Context, form *database.Form) error
	GetForm(ctx context.Context, chatID int64, name string) (*database.Form, error)
	ListFormNames(ctx context.Context, chatID int64) ([]string, error)
	DeleteForm(ctx context.Context, chatID int64, name string) error
}

// IdeaGenerator turns a prompt into gift suggestions.
type IdeaGenerator interface {
	FetchIdeas(ctx context.Context, prompt string) (string, error)
}

// Options configures an Engine.
type Options struct {
	Messages  config.MessagesConfig
	Forms     FormStore
	Ideas     IdeaGenerator
	Sessions  *session.Store
	AITimeout time.Duration
	Logger    *slog.Logger
}

// Engine interprets chat events. It is safe for concurrent use; events of
// the same chat are processed one at a time.
type Engine struct {
	msgs      config.MessagesConfig
	forms     FormStore
	generator IdeaGenerator
	sessions  *session.Store
	aiTimeout time.Duration
	validate  *validator.Validate
	log       *slog.Logger
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		msgs:      opts.Messages,
		forms:     opts.Forms,
		generator: opts.Ideas,
		sessions:  opts.Sessions,
		aiTimeout: opts.AITimeout,
		validate:  validator.New(),
		log:       log.With("component", "dialogue"),
	}
}

// Handle produces the reply for ev. A nil response with a nil error means
// the event carried nothing to answer. Errors wrap ErrInternal.
func (e *Engine) Handle(ctx context.Context, ev Event) (*Response, error) {
	text := strings.TrimSpace(ev.Text)
	if text == "" && ev.Callback == "" {
		return nil, nil
	}

	unlock := e.sessions.Lock(ev.ChatID)
	defer unlock()

	st := e.sessions.Get(ev.ChatID)

	var resp *Response
	var err error
	if ev.Callback != "" {
		resp, err = e.handleCallback(ctx, ev.ChatID, st, ev.Callback)
	} else {
		resp, err = e.handleText(ctx, ev.ChatID, st, text)
	}
	if err != nil {
		e.log.ErrorContext(ctx, "Failed to handle event", "chat_id", ev.ChatID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	e.sessions.Put(ev.ChatID, st)
	return resp, nil
}

func (e *Engine) handleText(ctx context.Context, chatID int64, st *session.State, text string) (*Response, error) {
	if cmd, ok := parseCommand(text); ok {
		return e.handleCommand(ctx, chatID, st, cmd)
	}

	switch {
	case strings.EqualFold(text, e.msgs.ButtonHelp):
		return e.handleCommand(ctx, chatID, st, cmdHelp)
	case strings.EqualFold(text, e.msgs.ButtonForms):
		return e.handleCommand(ctx, chatID, st, cmdForms)
	case strings.EqualFold(text, e.msgs.ButtonCreate):
		return e.handleCommand(ctx, chatID, st, cmdCreateForm)
	}

	if st.Session != nil && st.Session.Step == session.StepAwaitingName {
		return e.acceptName(chatID, st.Session, text), nil
	}
	if st.Edit != nil {
		return e.applyEdit(ctx, chatID, st, text)
	}
	if st.Session != nil && st.Session.Step != session.StepDone {
		return e.answer(ctx, chatID, st.Session, text)
	}

	return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
}

func (e *Engine) handleCommand(ctx context.Context, chatID int64, st *session.State, cmd string) (*Response, error) {
	switch cmd {
	case cmdStart:
		startSurvey(st)
		return e.reply(chatID, e.msgs.Start, mainMenu()), nil
	case cmdReset:
		startSurvey(st)
		return e.reply(chatID, e.msgs.Reset, mainMenu()), nil
	case cmdCreateForm:
		startSurvey(st)
		return e.reply(chatID, e.msgs.NamePrompt, mainMenu()), nil
	case cmdHelp:
		return e.reply(chatID, e.msgs.Help, mainMenu()), nil
	case cmdForms:
		return e.listForms(ctx, chatID)
	case cmdSummary:
		if st.Session == nil {
			return e.reply(chatID, e.msgs.SummaryEmpty, Keyboard{}), nil
		}
		return e.reply(chatID, renderSummary(e.msgs.SummaryHeader, st.Session), Keyboard{}), nil
	case cmdIdeas:
		if st.Session == nil || st.Session.Step != session.StepDone {
			return e.reply(chatID, e.msgs.IdeasNotReady, mainMenu()), nil
		}
		form := formFromSession(chatID, st.Session)
		return e.reply(chatID, e.ideasText(ctx, form), mainMenu()), nil
	default:
		return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
	}
}

// startSurvey replaces any session with a fresh one waiting for a name and
// drops a pending edit.
func startSurvey(st *session.State) {
	st.Session = session.New()
	st.Edit = nil
}

func (e *Engine) acceptName(chatID int64, sess *session.Session, name string) *Response {
	if len(name) > MaxFormNameBytes {
		return e.reply(chatID, e.msgs.NameTooLong, Keyboard{})
	}
	sess.PendingName = name
	sess.Step = sess.Step.Next()
	return e.reply(chatID, e.msgs.AskWho, Keyboard{})
}

func (e *Engine) answer(ctx context.Context, chatID int64, sess *session.Session, text string) (*Response, error) {
	switch sess.Step {
	case session.StepWho:
		sess.Who = text
		sess.Step = sess.Step.Next()
		return e.reply(chatID, e.msgs.AskOccasion, Keyboard{}), nil

	case session.StepOccasion:
		sess.Occasion = text
		sess.Step = sess.Step.Next()
		return e.reply(chatID, e.msgs.AskAge, Keyboard{}), nil

	case session.StepAge:
		age, ok := e.parseNumber(text, ageRule)
		if !ok {
			return e.reply(chatID, e.msgs.InvalidAge, Keyboard{}), nil
		}
		sess.Age = &age
		sess.Step = sess.Step.Next()
		return e.reply(chatID, e.msgs.AskInterests, Keyboard{}), nil

	case session.StepInterests:
		sess.Interests = text
		sess.Step = sess.Step.Next()
		return e.reply(chatID, e.msgs.AskBudget, Keyboard{}), nil

	case session.StepBudget:
		budget, ok := e.parseNumber(text, budgetRule)
		if !ok {
			return e.reply(chatID, e.msgs.InvalidBudget, Keyboard{}), nil
		}
		sess.Budget = &budget

		form := formFromSession(chatID, sess)
		if err := e.forms.UpsertForm(ctx, &form); err != nil {
			return nil, fmt.Errorf("save form %q: %w", form.Name, err)
		}
		sess.Step = session.StepDone

		e.log.InfoContext(ctx, "Form saved", "chat_id", chatID, "name", form.Name)
		return e.reply(chatID, fmt.Sprintf(e.msgs.Saved, form.Name), mainMenu()), nil

	default:
		return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
	}
}

// applyEdit consumes the armed edit intent with text as the new value.
// An invalid number keeps the intent so the user can retry the same field.
func (e *Engine) applyEdit(ctx context.Context, chatID int64, st *session.State, text string) (*Response, error) {
	intent := st.Edit

	form, err := e.forms.GetForm(ctx, chatID, intent.FormName)
	if err != nil {
		return nil, fmt.Errorf("load form %q: %w", intent.FormName, err)
	}
	if form == nil {
		st.Edit = nil
		return e.reply(chatID, e.msgs.FormNotFound, mainMenu()), nil
	}

	switch intent.Field {
	case FieldRelation:
		form.Relation = text
	case FieldOccasion:
		form.Occasion = text
	case FieldHobbies:
		form.Hobbies = text
	case FieldAge:
		age, ok := e.parseNumber(text, ageRule)
		if !ok {
			return e.reply(chatID, e.msgs.EditInvalidAge, Keyboard{}), nil
		}
		form.Age = age
	case FieldBudget:
		budget, ok := e.parseNumber(text, budgetRule)
		if !ok {
			return e.reply(chatID, e.msgs.EditInvalidBudget, Keyboard{}), nil
		}
		form.Budget = budget
	default:
		st.Edit = nil
		return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
	}

	if err := e.forms.UpsertForm(ctx, form); err != nil {
		return nil, fmt.Errorf("update form %q: %w", form.Name, err)
	}
	st.Edit = nil

	e.log.InfoContext(ctx, "Form field updated", "chat_id", chatID, "name", form.Name, "field", intent.Field)
	return e.reply(chatID, e.msgs.EditDone+"\n"+FormCard(form), Keyboard{Kind: KeyboardFormActions, FormName: form.Name}), nil
}

func (e *Engine) handleCallback(ctx context.Context, chatID int64, st *session.State, data string) (*Response, error) {
	cb, ok := ParseCallback(data)
	if !ok {
		e.log.WarnContext(ctx, "Unrecognized callback payload", "chat_id", chatID, "data", data)
		return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
	}

	switch cb.Kind {
	case CallbackFormOpen:
		form, err := e.forms.GetForm(ctx, chatID, cb.FormName)
		if err != nil {
			return nil, fmt.Errorf("load form %q: %w", cb.FormName, err)
		}
		if form == nil {
			return e.reply(chatID, e.msgs.FormNotFound, backToList()), nil
		}
		return e.reply(chatID, FormCard(form), Keyboard{Kind: KeyboardFormActions, FormName: form.Name}), nil

	case CallbackEditSelect:
		return e.reply(chatID, fmt.Sprintf(e.msgs.EditMenu, cb.FormName), Keyboard{Kind: KeyboardEditMenu, FormName: cb.FormName}), nil

	case CallbackEditField:
		if !isEditableField(cb.Field) {
			return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
		}
		st.Edit = &session.EditIntent{FormName: cb.FormName, Field: cb.Field}
		return e.reply(chatID, fmt.Sprintf(e.msgs.EditPrompt, FieldLabel(cb.Field)), Keyboard{}), nil

	case CallbackDeleteAsk:
		return e.reply(chatID, fmt.Sprintf(e.msgs.DeleteConfirm, cb.FormName), Keyboard{Kind: KeyboardConfirmDelete, FormName: cb.FormName}), nil

	case CallbackDeleteConfirm:
		if err := e.forms.DeleteForm(ctx, chatID, cb.FormName); err != nil {
			return nil, fmt.Errorf("delete form %q: %w", cb.FormName, err)
		}
		if st.Edit != nil && st.Edit.FormName == cb.FormName {
			st.Edit = nil
		}
		e.log.InfoContext(ctx, "Form deleted", "chat_id", chatID, "name", cb.FormName)
		return e.reply(chatID, fmt.Sprintf(e.msgs.Deleted, cb.FormName), mainMenu()), nil

	case CallbackIdeaRequest:
		form, err := e.forms.GetForm(ctx, chatID, cb.FormName)
		if err != nil {
			return nil, fmt.Errorf("load form %q: %w", cb.FormName, err)
		}
		if form == nil {
			return e.reply(chatID, e.msgs.FormNotFound, backToList()), nil
		}
		return e.reply(chatID, e.ideasText(ctx, *form), backToList()), nil

	case CallbackListForms:
		return e.listForms(ctx, chatID)

	default:
		return e.reply(chatID, e.msgs.Unknown, mainMenu()), nil
	}
}

func (e *Engine) listForms(ctx context.Context, chatID int64) (*Response, error) {
	names, err := e.forms.ListFormNames(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	if len(names) == 0 {
		return e.reply(chatID, e.msgs.FormsEmpty, mainMenu()), nil
	}
	return e.reply(chatID, e.msgs.FormsHeader, Keyboard{Kind: KeyboardFormList, FormNames: names}), nil
}

// ideasText asks the generator for ideas about form. Failures are logged
// and replaced by the apology text.
func (e *Engine) ideasText(ctx context.Context, form database.Form) string {
	if e.aiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.aiTimeout)
		defer cancel()
	}

	startTime := time.Now()
	text, err := e.generator.FetchIdeas(ctx, ideas.BuildPrompt(form))
	if err != nil {
		e.log.WarnContext(ctx, "Idea generation failed", "chat_id", form.ChatID, "name", form.Name, "error", err)
		return e.msgs.IdeaFailed
	}

	e.log.InfoContext(ctx, "Ideas generated", "chat_id", form.ChatID, "name", form.Name, "duration", time.Since(startTime))
	return fmt.Sprintf(e.msgs.IdeaHeader, form.Name) + text
}

func (e *Engine) parseNumber(text, rule string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	if err := e.validate.Var(n, rule); err != nil {
		return 0, false
	}
	return n, true
}

func (e *Engine) reply(chatID int64, text string, kb Keyboard) *Response {
	return &Response{ChatID: chatID, Text: text, Keyboard: kb}
}

func mainMenu() Keyboard   { return Keyboard{Kind: KeyboardMainMenu} }
func backToList() Keyboard { return Keyboard{Kind: KeyboardBackToList} }

func formFromSession(chatID int64, s *session.Session) database.Form {
	form := database.Form{
		ChatID:   chatID,
		Name:     s.PendingName,
		Relation: s.Who,
		Occasion: s.Occasion,
		Hobbies:  s.Interests,
	}
	if s.Age != nil {
		form.Age = *s.Age
	}
	if s.Budget != nil {
		form.Budget = *s.Budget
	}
	return form
}

// parseCommand extracts a lower-cased command name from "/name@bot args".
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name), true
}
