package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/portfolio"
	"github.com/kalens/playbook/internal/registry"
	"github.com/kalens/playbook/internal/scoring"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/slide"
	"github.com/kalens/playbook/internal/slide/catalog"
	"github.com/kalens/playbook/internal/workflow"
)

// immediateScheduler collects scheduled work; tests fire it explicitly so
// timed dialogue effects are deterministic.
type immediateScheduler struct {
	pending []func()
}

func (s *immediateScheduler) Schedule(d time.Duration, fn func()) func() {
	s.pending = append(s.pending, fn)
	return func() {}
}

func (s *immediateScheduler) fire() {
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		for _, fn := range batch {
			fn()
		}
	}
}

func testAssignments(t *testing.T) []workflow.Assignment {
	t.Helper()
	generator, err := portfolio.New(scoring.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	opp := 85
	days := 20
	plan := signal.PlanInvest
	return generator.GenerateAll([]signal.AccountSignal{{
		AccountID:        "acct-acme",
		AccountName:      "Acme",
		OwnerID:          "op-1",
		ARR:              250_000,
		RenewalStage:     signal.StageNegotiation,
		Plan:             &plan,
		OpportunityScore: &opp,
		DaysUntilRenewal: &days,
	}})
}

func testApp(t *testing.T, sched *immediateScheduler) *App {
	t.Helper()
	lib := slide.NewLibrary()
	catalog.Register(lib)
	templates := registry.NewTemplates()
	catalog.RegisterTemplates(templates)
	components := registry.NewComponents()
	catalog.RegisterComponents(components)
	composer, err := compose.New(lib, templates, components)
	if err != nil {
		t.Fatal(err)
	}

	compositions := map[string]compose.Composition{
		"renewal-standard": {
			ID:            "renewal-standard",
			Name:          "Standard Renewal",
			Category:      "renewal",
			SlideSequence: []string{"greeting", "review", "summary"},
		},
	}
	app, err := NewApp(testAssignments(t), composer, compositions, WithScheduler(sched))
	if err != nil {
		t.Fatalf("NewApp returned error: %v", err)
	}
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestQueueItemPresentation(t *testing.T) {
	asn := testAssignments(t)[0]
	item := queueItem{assignment: asn}
	if !strings.Contains(item.Title(), "Acme") {
		t.Fatalf("title missing account: %q", item.Title())
	}
	if !strings.Contains(item.Description(), "priority") {
		t.Fatalf("description missing priority: %q", item.Description())
	}
	if item.FilterValue() != "Acme" {
		t.Fatalf("unexpected filter value: %q", item.FilterValue())
	}
}

func TestQueueViewListsAssignments(t *testing.T) {
	app := testApp(t, &immediateScheduler{})
	view := app.View()
	if !strings.Contains(view, "PLAYBOOK QUEUE") || !strings.Contains(view, "Acme") {
		t.Fatalf("queue view incomplete:\n%s", view)
	}
}

func TestEnterOpensSession(t *testing.T) {
	sched := &immediateScheduler{}
	app := testApp(t, sched)

	app.Update(keyMsg("enter"))
	if app.state != stateSession || app.sview == nil {
		t.Fatalf("expected session screen, got state %d", app.state)
	}
	sched.fire()
	app.sview.sync()

	view := app.View()
	if !strings.Contains(view, "Acme") || !strings.Contains(view, "Kickoff") {
		t.Fatalf("session view incomplete:\n%s", view)
	}
	if !strings.Contains(view, "Step 1 of 3") {
		t.Fatalf("session label missing:\n%s", view)
	}
}

func TestEscReturnsToQueue(t *testing.T) {
	sched := &immediateScheduler{}
	app := testApp(t, sched)

	app.Update(keyMsg("enter"))
	sched.fire()
	app.Update(keyMsg("esc"))
	if app.state != stateQueue || app.sview != nil {
		t.Fatalf("expected return to queue, got state %d", app.state)
	}
	if !strings.Contains(app.statusMsg, "skipped") {
		t.Fatalf("expected skipped outcome note, got %q", app.statusMsg)
	}
}

func TestSessionWritesInstanceStatus(t *testing.T) {
	sched := &immediateScheduler{}
	app := testApp(t, sched)

	app.Update(keyMsg("enter"))
	if app.sview == nil {
		t.Fatal("expected an open session")
	}
	sched.fire()
	idx := app.instanceIndex(app.sview.assignment.Instance.ID)
	if idx < 0 {
		t.Fatal("opened instance missing from the assignment list")
	}
	if got := app.assignments[idx].Instance.Status; got != workflow.StatusInProgress {
		t.Fatalf("expected in_progress while the session is open, got %s", got)
	}

	app.Update(keyMsg("esc"))
	if got := app.assignments[idx].Instance.Status; got != workflow.StatusSkipped {
		t.Fatalf("expected skipped after abandoning the session, got %s", got)
	}

	// The terminal write is one-shot: the finished workflow refuses to
	// reopen and its status stays put.
	app.Update(keyMsg("enter"))
	if app.state != stateQueue || app.sview != nil {
		t.Fatal("finished workflow must not reopen")
	}
	if got := app.assignments[idx].Instance.Status; got != workflow.StatusSkipped {
		t.Fatalf("terminal status overwritten, got %s", got)
	}
	if !strings.Contains(app.statusMsg, "already") {
		t.Fatalf("expected reopen refusal note, got %q", app.statusMsg)
	}
}

func TestPickComposition(t *testing.T) {
	app := testApp(t, &immediateScheduler{})
	comp, ok := app.pickComposition(workflow.TypeRenewal)
	if !ok || comp.ID != "renewal-standard" {
		t.Fatalf("expected renewal composition, got %+v", comp)
	}
	// An unmatched type falls back to the renewal composition.
	comp, ok = app.pickComposition(workflow.TypeRisk)
	if !ok || comp.ID != "renewal-standard" {
		t.Fatalf("expected fallback composition, got %+v", comp)
	}
}

func TestComponentValue(t *testing.T) {
	slider := &slide.InputComponent{Kind: slide.InputSlider, Min: 1, Max: 10}
	if value, ok := componentValue(slider, "7"); !ok || value != 7 {
		t.Fatalf("expected slider value 7, got %v (%v)", value, ok)
	}
	if _, ok := componentValue(slider, "11"); ok {
		t.Fatal("expected out-of-range rejection")
	}
	if _, ok := componentValue(slider, "seven"); ok {
		t.Fatal("expected non-numeric rejection")
	}

	radio := &slide.InputComponent{Kind: slide.InputRadio, Options: []string{"Accept proposed", "Adjust target"}}
	if value, ok := componentValue(radio, "accept proposed"); !ok || value != "Accept proposed" {
		t.Fatalf("expected case-insensitive option match, got %v (%v)", value, ok)
	}
	if _, ok := componentValue(radio, "something else"); ok {
		t.Fatal("expected unmatched option rejection")
	}
}

func TestPricingContext(t *testing.T) {
	asn := testAssignments(t)[0]
	pricing := pricingContext(asn)
	if pricing["proposed_arr"] != asn.ARR*1.05 {
		t.Fatalf("unexpected derived pricing: %v", pricing)
	}

	asn.Instance.Config = map[string]any{
		"pricing": map[string]any{"proposed_arr": 300_000.0},
	}
	pricing = pricingContext(asn)
	if pricing["proposed_arr"] != 300_000.0 {
		t.Fatalf("config pricing not used: %v", pricing)
	}
}
