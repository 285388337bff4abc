// internal/tui/app.go
//
// The operator console. It uses bubbletea, which follows The Elm
// Architecture: the App model holds all state, Update reacts to messages,
// and View renders the current screen to a string.
//
// Two screens: the ranked queue, and a live guided session for the selected
// assignment.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/session"
	"github.com/kalens/playbook/internal/workflow"
)

// appState represents which screen the operator is on.
type appState int

const (
	stateQueue appState = iota
	stateSession
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger sets the logger; defaults to a no-op logger.
func WithLogger(log *zap.Logger) AppOption {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// WithScheduler overrides the session timer scheduler (tests use a manual
// one so timed dialogue effects fire deterministically).
func WithScheduler(s session.Scheduler) AppOption {
	return func(a *App) {
		if s != nil {
			a.sched = s
		}
	}
}

// queueItem adapts one assignment to the bubbles list.Item interface.
type queueItem struct {
	assignment workflow.Assignment
}

func (i queueItem) Title() string {
	return fmt.Sprintf("%s · %s", i.assignment.AccountName, i.assignment.Instance.Type)
}

func (i queueItem) Description() string {
	desc := fmt.Sprintf("priority %.0f · %s", i.assignment.Instance.Priority, i.assignment.Instance.Reason)
	if status := i.assignment.Instance.Status; status != workflow.StatusPending {
		desc += fmt.Sprintf(" · %s", status)
	}
	return desc
}

func (i queueItem) FilterValue() string { return i.assignment.AccountName }

// sessionTimerMsg carries one fired session timer back onto the Update
// goroutine, so the runner is only ever touched from the bubbletea loop.
type sessionTimerMsg struct {
	fn func()
}

// channelScheduler bridges session timers into the bubbletea message loop.
type channelScheduler struct {
	fires chan func()
}

func newChannelScheduler() *channelScheduler {
	return &channelScheduler{fires: make(chan func(), 16)}
}

func (s *channelScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		s.fires <- fn
	})
	return func() { t.Stop() }
}

func (s *channelScheduler) listen() tea.Cmd {
	return func() tea.Msg {
		return sessionTimerMsg{fn: <-s.fires}
	}
}

// App is the console model: the ranked queue plus, when one is open, the
// live session view.
type App struct {
	state        appState
	log          *zap.Logger
	composer     *compose.Composer
	compositions map[string]compose.Composition
	assignments  []workflow.Assignment

	queue   list.Model
	sview   *sessionView
	sched   session.Scheduler
	channel *channelScheduler

	statusMsg string
	width     int
	height    int
	quitting  bool
}

// NewApp builds the console over an already ranked assignment list.
func NewApp(assignments []workflow.Assignment, composer *compose.Composer, compositions map[string]compose.Composition, opts ...AppOption) (*App, error) {
	if composer == nil {
		return nil, fmt.Errorf("tui: composer is required")
	}
	if len(compositions) == 0 {
		return nil, fmt.Errorf("tui: at least one composition is required")
	}
	items := make([]list.Item, len(assignments))
	for i, asn := range assignments {
		items[i] = queueItem{assignment: asn}
	}
	queue := list.New(items, list.NewDefaultDelegate(), 0, 0)
	queue.Title = "⬡ PLAYBOOK QUEUE"
	queue.SetShowStatusBar(false)
	queue.SetFilteringEnabled(true)

	channel := newChannelScheduler()
	app := &App{
		state:        stateQueue,
		log:          zap.NewNop(),
		composer:     composer,
		compositions: compositions,
		assignments:  assignments,
		queue:        queue,
		channel:      channel,
		sched:        channel,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app, nil
}

// Init starts the timer listener alongside the UI.
func (a *App) Init() tea.Cmd {
	return a.channel.listen()
}

// Update routes messages to the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.queue.SetSize(m.Width, m.Height-2)
		if a.sview != nil {
			a.sview.resize(m.Width, m.Height)
		}
		return a, nil
	case sessionTimerMsg:
		m.fn()
		if a.sview != nil {
			a.sview.sync()
		}
		return a, a.channel.listen()
	}

	switch a.state {
	case stateSession:
		return a.updateSession(msg)
	default:
		return a.updateQueue(msg)
	}
}

func (a *App) updateQueue(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q":
			if a.queue.FilterState() != list.Filtering {
				a.quitting = true
				return a, tea.Quit
			}
		case "enter":
			if item, ok := a.queue.SelectedItem().(queueItem); ok {
				return a, a.openSession(item.assignment)
			}
		}
	}
	var cmd tea.Cmd
	a.queue, cmd = a.queue.Update(msg)
	return a, cmd
}

func (a *App) updateSession(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.sview == nil {
		a.state = stateQueue
		return a, nil
	}
	cmd := a.sview.Update(msg)
	if a.sview.done {
		a.closeSession()
	}
	return a, cmd
}

// openSession composes the assignment's workflow and enters the session
// screen. Opening moves the instance to in_progress; a composition failure
// stays on the queue with a status line and the rest of the queue keeps
// working.
func (a *App) openSession(asn workflow.Assignment) tea.Cmd {
	idx := a.instanceIndex(asn.Instance.ID)
	if idx >= 0 && a.assignments[idx].Instance.Status.Terminal() {
		a.statusMsg = fmt.Sprintf("%s workflow already %s", asn.AccountName, a.assignments[idx].Instance.Status)
		return nil
	}
	comp, ok := a.pickComposition(asn.Instance.Type)
	if !ok {
		a.statusMsg = fmt.Sprintf("no composition for %s workflows", asn.Instance.Type)
		return nil
	}
	runtime := compose.Runtime{
		Customer: compose.CustomerContext(asn.Account),
		Pricing:  pricingContext(asn),
		Workflow: map[string]any{
			"type":   string(asn.Instance.Type),
			"reason": asn.Instance.Reason,
		},
	}
	cfg, err := a.composer.BuildConfig(comp, runtime)
	if err != nil {
		a.log.Warn("tui: composition failed",
			zap.String("composition", comp.ID),
			zap.Error(err))
		a.statusMsg = fmt.Sprintf("workflow unavailable: %v", err)
		return nil
	}

	view, err := newSessionView(cfg, asn, a.sched, a.log)
	if err != nil {
		a.statusMsg = fmt.Sprintf("session failed: %v", err)
		return nil
	}
	view.resize(a.width, a.height)
	if idx >= 0 {
		if err := a.assignments[idx].Instance.Transition(workflow.StatusInProgress, time.Now()); err != nil {
			a.log.Warn("tui: status transition rejected", zap.Error(err))
		} else {
			a.queue.SetItem(idx, queueItem{assignment: a.assignments[idx]})
		}
	}
	a.sview = view
	a.state = stateSession
	a.statusMsg = ""
	return view.start()
}

func (a *App) closeSession() {
	if a.sview != nil {
		if a.sview.outcomeNote != "" {
			a.statusMsg = a.sview.outcomeNote
		}
		a.recordOutcome(a.sview.assignment.Instance.ID, a.sview.outcome)
	}
	a.sview = nil
	a.state = stateQueue
}

// recordOutcome writes the terminal status onto the instance. The transition
// guard makes the write one-shot; a repeat attempt is logged and dropped.
func (a *App) recordOutcome(instanceID string, status workflow.Status) {
	if status == "" {
		return
	}
	idx := a.instanceIndex(instanceID)
	if idx < 0 {
		return
	}
	if err := a.assignments[idx].Instance.Transition(status, time.Now()); err != nil {
		a.log.Warn("tui: terminal status write rejected",
			zap.String("instance", instanceID),
			zap.Error(err))
		return
	}
	a.queue.SetItem(idx, queueItem{assignment: a.assignments[idx]})
}

func (a *App) instanceIndex(instanceID string) int {
	for i := range a.assignments {
		if a.assignments[i].Instance.ID == instanceID {
			return i
		}
	}
	return -1
}

// pickComposition chooses the composition for a workflow type: an exact
// category match wins, then the "renewal" category as the general default,
// then any composition at all.
func (a *App) pickComposition(t workflow.Type) (compose.Composition, bool) {
	var fallback *compose.Composition
	for _, comp := range a.compositions {
		comp := comp
		if comp.Category == string(t) {
			return comp, true
		}
		if comp.Category == string(workflow.TypeRenewal) || fallback == nil {
			fallback = &comp
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return compose.Composition{}, false
}

// pricingContext derives the pricing block shown in quote steps from the
// instance config, falling back to a flat 5% uplift proposal.
func pricingContext(asn workflow.Assignment) map[string]any {
	if raw, ok := asn.Instance.Config["pricing"].(map[string]any); ok {
		return raw
	}
	proposed := asn.ARR * 1.05
	return map[string]any{
		"proposed_arr":     proposed,
		"increase_percent": 5.0,
	}
}

var statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))

// View renders the active screen.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.state == stateSession && a.sview != nil {
		return a.sview.View()
	}
	out := a.queue.View()
	if a.statusMsg != "" {
		out += "\n" + statusBarStyle.Render(a.statusMsg)
	}
	return out
}
