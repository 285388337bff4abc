package slide

import "time"

// InitialBranch is the reserved branch name activated when a step is
// entered: either because the opening message carries an input component, or
// because the step declares an "initial" branch to surface buttons before
// any navigation has happened.
const InitialBranch = "initial"

// Branch is one named node in a step's conversation graph. Navigation out of
// a branch happens through buttons, free-text triggers, an embedded input
// component, or a timed auto-advance; each mode is an explicit optional
// field so a definition cannot silently mix incompatible shapes.
type Branch struct {
	// Response is appended to the transcript when the branch activates.
	Response Message
	// StoreAs persists the captured value into workflow-scoped state.
	StoreAs string
	// Buttons the operator can select, in display order.
	Buttons []Button
	// NextOnText routes any free-text message sent while this branch is
	// active, with the raw text as the captured value.
	NextOnText string
	// Actions run in order after the response is appended.
	Actions []Action
	// AutoAdvance schedules a recursive navigation after a delay.
	AutoAdvance *AutoAdvance
}

// Button maps one selectable label to a named next branch.
type Button struct {
	Label string
	Value string
	Next  string
}

// Trigger matches free text against a pattern (case-insensitive substring)
// and routes to a branch. Triggers evaluate in declaration order; the first
// match wins.
type Trigger struct {
	Pattern string
	Next    string
}

// AutoAdvance names the branch to navigate to after Delay.
type AutoAdvance struct {
	Next  string
	Delay time.Duration
}

// InputKind enumerates the embedded input component shapes.
type InputKind string

const (
	InputSlider InputKind = "slider"
	InputRadio  InputKind = "radio"
	InputText   InputKind = "text"
)

// InputComponent embeds an input control in a message. Submitting a value
// stores it under the owning branch's StoreAs key and navigates to Next
// (falling back to the current branch when Next is empty).
type InputComponent struct {
	ID      string
	Kind    InputKind
	Options []string
	Min     int
	Max     int
	Next    string
}

// targets returns every branch name this branch can navigate to.
func (b Branch) targets() []string {
	var out []string
	for _, button := range b.Buttons {
		out = append(out, button.Next)
	}
	if b.NextOnText != "" {
		out = append(out, b.NextOnText)
	}
	if b.AutoAdvance != nil {
		out = append(out, b.AutoAdvance.Next)
	}
	if b.Response.Component != nil && b.Response.Component.Next != "" {
		out = append(out, b.Response.Component.Next)
	}
	return out
}
