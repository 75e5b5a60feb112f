// Package session holds the per-chat survey progress and edit intents.
package session

// Step is a position in the fixed survey order.
type Step int

const (
	StepAwaitingName Step = iota
	StepWho
	StepOccasion
	StepAge
	StepInterests
	StepBudget
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAwaitingName:
		return "awaiting_name"
	case StepWho:
		return "who"
	case StepOccasion:
		return "occasion"
	case StepAge:
		return "age"
	case StepInterests:
		return "interests"
	case StepBudget:
		return "budget"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Next returns the step following s. Done is terminal.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}

// EditIntent is a (form, field) pair armed from the edit menu.
type EditIntent struct {
	FormName string
	Field    string
}

// Session is the survey progress of one chat. Answers stay empty (or nil for
// numbers) until the matching step has been answered.
type Session struct {
	Step        Step
	PendingName string

	Who       string
	Occasion  string
	Age       *int
	Interests string
	Budget    *int
}

// New returns a fresh session waiting for a form name.
func New() *Session {
	return &Session{Step: StepAwaitingName}
}

// Clone returns a deep copy of s so callers can mutate it without touching
// the stored value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Age != nil {
		age := *s.Age
		c.Age = &age
	}
	if s.Budget != nil {
		budget := *s.Budget
		c.Budget = &budget
	}
	return &c
}

// State is everything held for one chat: the survey session and the armed
// edit intent. Either may be nil.
type State struct {
	Session *Session
	Edit    *EditIntent
}

// Empty reports whether the state holds nothing worth keeping.
func (st *State) Empty() bool {
	return st == nil || (st.Session == nil && st.Edit == nil)
}

// Clone returns a deep copy of st.
func (st *State) Clone() *State {
	if st == nil {
		return &State{}
	}
	c := &State{Session: st.Session.Clone()}
	if st.Edit != nil {
		edit := *st.Edit
		c.Edit = &edit
	}
	return c
}
