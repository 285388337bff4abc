// Package session walks an operator through one account's resolved step
// list: branch selection, variable capture, side-effect actions, and
// skip/snooze bookkeeping. Every transition runs to completion synchronously
// once triggered; the only asynchronous points are explicit timed delays,
// and a closed session cancels anything still pending. Runtime dialogue
// errors such as an unknown branch name or action token are logged and
// ignored so an operator-facing failure never strands the session.
package session

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/slide"
	"github.com/kalens/playbook/internal/workflow"
)

// presentationDelay paces the very first opening message so the operator
// sees the session appear before it starts talking.
const presentationDelay = 400 * time.Millisecond

// Callbacks are the externally supplied persistence and navigation hooks.
// The session itself performs no storage writes.
type Callbacks struct {
	// OnStepComplete fires when a step's complete-step action runs, with the
	// step id and a snapshot of the captured workflow variables.
	OnStepComplete func(stepID string, data map[string]any)
	// OnWorkflowComplete fires exactly once when the session finishes all
	// available steps (or an explicit completing close runs).
	OnWorkflowComplete func()
	// OnAdvanceAccount, when set, marks the session as part of a queue
	// sequence: completion moves to the next assignment instead of closing.
	OnAdvanceAccount func()
	// OnClose fires when the session ends, with whether it completed.
	OnClose func(completed bool)
}

// Runner is one live guided session over a composed step list.
type Runner struct {
	steps []compose.Step
	cb    Callbacks
	log   *zap.Logger
	clock func() time.Time
	sched Scheduler

	current         int
	started         bool
	closed          bool
	completedFlag   bool
	gen             int
	completed       map[int]struct{}
	skipped         map[int]struct{}
	snoozed         map[int]struct{}
	vars            map[string]any
	transcript      []Entry
	currentBranch   string
	artifactVisible bool
	cancels         []func()
}

// Option customizes the runner.
type Option func(*Runner)

// WithCallbacks installs the persistence and navigation hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(r *Runner) { r.cb = cb }
}

// WithLogger sets the logger used for ignored runtime dialogue errors.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithScheduler overrides the timer scheduler (tests use a manual one).
func WithScheduler(s Scheduler) Option {
	return func(r *Runner) {
		if s != nil {
			r.sched = s
		}
	}
}

// New constructs a runner over a composed step list.
func New(steps []compose.Step, opts ...Option) (*Runner, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("session: at least one step is required")
	}
	r := &Runner{
		steps:           steps,
		log:             zap.NewNop(),
		clock:           time.Now,
		sched:           TimerScheduler{},
		completed:       map[int]struct{}{},
		skipped:         map[int]struct{}{},
		snoozed:         map[int]struct{}{},
		vars:            map[string]any{},
		artifactVisible: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Note on concurrency: the session is single-threaded and UI-event-driven.
// Public methods and scheduled callbacks are expected on the same goroutine
// (the UI loop); the generation counter, not a mutex, is what protects a
// torn-down session from stale timers.

// Start enters the first step. The opening message arrives after a short
// presentation delay; every later step opens immediately.
func (r *Runner) Start() {
	if r.closed || r.started {
		return
	}
	r.enterStep(0)
}

// HandleBranchNavigation activates a named branch, optionally capturing a
// value under the branch's storeAs key. Unknown branch names are logged and
// ignored.
func (r *Runner) HandleBranchNavigation(name string, value any) {
	if r.closed {
		return
	}
	r.navigate(name, value)
}

// SendMessage handles a free-text operator message: the active branch's
// text route wins, then the step's trigger table in declaration order, then
// the step's fallback line verbatim.
func (r *Runner) SendMessage(text string) {
	if r.closed || strings.TrimSpace(text) == "" {
		return
	}
	r.append(SenderOperator, text, "")
	dialogue := r.dialogue()
	if active, ok := dialogue.Branches[r.currentBranch]; ok && active.NextOnText != "" {
		r.navigate(active.NextOnText, text)
		return
	}
	lowered := strings.ToLower(text)
	for _, trigger := range dialogue.Triggers {
		if strings.Contains(lowered, strings.ToLower(trigger.Pattern)) {
			r.navigate(trigger.Next, text)
			return
		}
	}
	if dialogue.Fallback != "" {
		r.append(SenderAssistant, dialogue.Fallback, r.currentBranch)
	}
}

// HandleComponentValueChange captures a value submitted through an embedded
// input component: the value is echoed into the transcript, stored under the
// target branch's storeAs key, and navigation follows the component's next
// branch (falling back to the current branch).
func (r *Runner) HandleComponentValueChange(componentID string, value any) {
	if r.closed {
		return
	}
	r.append(SenderOperator, displayValue(value), "")
	component := r.findComponent(componentID)
	if component == nil {
		r.log.Warn("session: unknown input component", zap.String("component", componentID))
		return
	}
	target := component.Next
	if target == "" {
		target = r.currentBranch
	}
	r.navigate(target, value)
}

// SkipStep marks a step index skipped. Skipping the step the operator is on
// advances immediately, hopping over anything else already unavailable; if
// nothing remains, the workflow is complete.
func (r *Runner) SkipStep(index int) {
	r.setAside(index, r.skipped, "Step skipped.")
}

// SnoozeStep marks a step index snoozed for later. Behaves like skip except
// the final workflow status records that work remains.
func (r *Runner) SnoozeStep(index int) {
	r.setAside(index, r.snoozed, "Snoozed — it will resurface with this workflow.")
}

// Close tears the session down, cancelling any pending timers. Closing
// before completion reports completed=false.
func (r *Runner) Close() {
	if r.closed {
		return
	}
	r.shutdown()
	if r.cb.OnClose != nil {
		r.cb.OnClose(false)
	}
}

// Accessors. Slices and maps are copied so the UI cannot alias live state.

// CurrentIndex returns the 0-based current step index.
func (r *Runner) CurrentIndex() int { return r.current }

// CurrentStep returns the step the operator is on.
func (r *Runner) CurrentStep() compose.Step { return r.steps[r.current] }

// Steps returns the full composed step list.
func (r *Runner) Steps() []compose.Step { return r.steps }

// CurrentBranch returns the active branch name ("" before any navigation).
func (r *Runner) CurrentBranch() string { return r.currentBranch }

// Buttons returns the active branch's selectable buttons.
func (r *Runner) Buttons() []slide.Button {
	if branch, ok := r.dialogue().Branches[r.currentBranch]; ok {
		out := make([]slide.Button, len(branch.Buttons))
		copy(out, branch.Buttons)
		return out
	}
	return nil
}

// Transcript returns a copy of the ordered message list.
func (r *Runner) Transcript() []Entry {
	out := make([]Entry, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// Vars returns a copy of the workflow-scoped variable map.
func (r *Runner) Vars() map[string]any {
	out := make(map[string]any, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// ArtifactVisible reports whether the artifact panel is shown.
func (r *Runner) ArtifactVisible() bool { return r.artifactVisible }

// Closed reports whether the session has ended.
func (r *Runner) Closed() bool { return r.closed }

// StepState classifies an index for progress displays.
func (r *Runner) StepState(index int) string {
	switch {
	case r.has(r.completed, index):
		return "completed"
	case r.has(r.skipped, index):
		return "skipped"
	case r.has(r.snoozed, index):
		return "snoozed"
	case index == r.current && !r.closed:
		return "current"
	}
	return "pending"
}

// Outcome maps the finished session onto the instance status the caller
// writes exactly once.
func (r *Runner) Outcome() workflow.Status {
	if !r.completedFlag {
		return workflow.StatusSkipped
	}
	if len(r.snoozed) > 0 {
		return workflow.StatusCompletedWithSnooze
	}
	return workflow.StatusCompleted
}

// --- internals ---

func (r *Runner) dialogue() slide.DialogueSpec {
	return r.steps[r.current].Definition.Dialogue()
}

func (r *Runner) enterStep(index int) {
	r.current = index
	r.transcript = nil
	r.currentBranch = ""
	r.gen++
	r.cancelPending()

	dialogue := r.dialogue()
	appendOpening := func() {
		if dialogue.Opening.Text != "" {
			r.append(SenderAssistant, dialogue.Opening.Text, "")
		}
	}
	if !r.started {
		r.started = true
		r.schedule(presentationDelay, appendOpening)
	} else {
		appendOpening()
	}
	if dialogue.Opening.Component != nil {
		r.currentBranch = slide.InitialBranch
	} else if _, ok := dialogue.Branches[slide.InitialBranch]; ok {
		r.currentBranch = slide.InitialBranch
	}
}

func (r *Runner) navigate(name string, value any) {
	branch, ok := r.dialogue().Branches[name]
	if !ok {
		r.log.Warn("session: unknown branch",
			zap.String("step", r.steps[r.current].Definition.ID),
			zap.String("branch", name))
		return
	}
	if branch.StoreAs != "" && value != nil {
		r.vars[branch.StoreAs] = value
	}
	land := func() {
		if branch.Response.Text != "" {
			r.append(SenderAssistant, branch.Response.Text, name)
		}
		r.currentBranch = name
		gen := r.gen
		r.runActions(branch.Actions)
		if r.closed {
			return
		}
		// An action that changed steps invalidates this branch's auto-advance:
		// its target names a branch in the step we just left.
		if auto := branch.AutoAdvance; auto != nil && r.gen == gen {
			r.schedule(auto.Delay, func() { r.navigate(auto.Next, nil) })
		}
	}
	if delay := branch.Response.PreDelay; delay > 0 {
		r.schedule(delay, land)
	} else {
		land()
	}
}

func (r *Runner) findComponent(id string) *slide.InputComponent {
	dialogue := r.dialogue()
	if c := dialogue.Opening.Component; c != nil && (id == "" || c.ID == id) {
		return c
	}
	if branch, ok := dialogue.Branches[r.currentBranch]; ok {
		if c := branch.Response.Component; c != nil && (id == "" || c.ID == id) {
			return c
		}
	}
	return nil
}

func (r *Runner) setAside(index int, set map[int]struct{}, note string) {
	if r.closed || index < 0 || index >= len(r.steps) {
		return
	}
	set[index] = struct{}{}
	r.append(SenderSystem, note, "")
	if r.cb.OnStepComplete != nil {
		r.cb.OnStepComplete(r.steps[index].Definition.ID, r.Vars())
	}
	if index == r.current {
		r.advance()
	} else if !r.anyAvailableFrom(0) {
		r.finish(true, false)
	}
}

// advance moves forward to the next index that is not skipped or snoozed.
// Running out of available steps completes the workflow.
func (r *Runner) advance() {
	for next := r.current + 1; next < len(r.steps); next++ {
		if r.available(next) {
			r.enterStep(next)
			return
		}
	}
	r.finish(true, true)
}

// retreat moves backward to the closest earlier available index, staying put
// at the front.
func (r *Runner) retreat() {
	for prev := r.current - 1; prev >= 0; prev-- {
		if r.available(prev) {
			r.enterStep(prev)
			return
		}
	}
}

func (r *Runner) available(index int) bool {
	return !r.has(r.skipped, index) && !r.has(r.snoozed, index)
}

func (r *Runner) anyAvailableFrom(start int) bool {
	for i := start; i < len(r.steps); i++ {
		if r.available(i) && !r.has(r.completed, i) {
			return true
		}
	}
	return false
}

func (r *Runner) has(set map[int]struct{}, index int) bool {
	_, ok := set[index]
	return ok
}

// finish ends the session. completed reports workflow completion; sequence
// chooses the advance-to-next-account callback over a plain close when a
// queue callback is installed.
func (r *Runner) finish(completed, sequence bool) {
	if r.closed {
		return
	}
	r.completedFlag = completed
	r.shutdown()
	if completed && r.cb.OnWorkflowComplete != nil {
		r.cb.OnWorkflowComplete()
	}
	if sequence && completed && r.cb.OnAdvanceAccount != nil {
		r.cb.OnAdvanceAccount()
		return
	}
	if r.cb.OnClose != nil {
		r.cb.OnClose(completed)
	}
}

func (r *Runner) shutdown() {
	r.closed = true
	r.gen++
	r.cancelPending()
}

func (r *Runner) append(from Sender, text, branch string) {
	r.transcript = append(r.transcript, Entry{
		From:   from,
		Text:   text,
		Branch: branch,
		At:     r.clock(),
	})
}

// schedule defers fn through the scheduler, tagged with the current session
// generation. A fire after Close or after a step change is discarded.
func (r *Runner) schedule(d time.Duration, fn func()) {
	gen := r.gen
	cancel := r.sched.Schedule(d, func() {
		if r.closed || r.gen != gen {
			return
		}
		fn()
	})
	r.cancels = append(r.cancels, cancel)
}

func (r *Runner) cancelPending() {
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
}
