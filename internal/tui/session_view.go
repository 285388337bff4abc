package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/session"
	"github.com/kalens/playbook/internal/slide"
	"github.com/kalens/playbook/internal/workflow"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	operatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Italic(true)
	buttonStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#CCCCCC"))
	buttonFocus    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#5B8DEF")).Bold(true)
	artifactStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("#444444"))
	stateStyles    = map[string]lipgloss.Style{
		"completed": lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		"skipped":   lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		"snoozed":   lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		"current":   lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		"pending":   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
)

// sessionView drives one live guided session. All runner mutations happen
// in Update; sync() pulls the runner's state back out after timers fire.
type sessionView struct {
	runner     *session.Runner
	cfg        compose.Config
	assignment workflow.Assignment
	log        *zap.Logger

	input       textinput.Model
	buttons     []slide.Button
	buttonFocus int

	width        int
	height       int
	hideArtifact bool
	done         bool
	outcome      workflow.Status
	outcomeNote  string
}

func newSessionView(cfg compose.Config, asn workflow.Assignment, sched session.Scheduler, log *zap.Logger) (*sessionView, error) {
	input := textinput.New()
	input.Placeholder = cfg.DialoguePlaceholder
	input.CharLimit = 400
	input.Focus()

	v := &sessionView{
		cfg:        cfg,
		assignment: asn,
		log:        log,
		input:      input,
	}
	runner, err := session.New(cfg.Steps,
		session.WithLogger(log),
		session.WithScheduler(sched),
		session.WithCallbacks(session.Callbacks{
			OnClose: func(completed bool) { v.finish(completed) },
			OnAdvanceAccount: func() {
				// Single-session console: queue advance behaves like a
				// completing close and drops back to the queue.
				v.finish(true)
			},
		}),
	)
	if err != nil {
		return nil, err
	}
	v.runner = runner
	return v, nil
}

func (v *sessionView) start() tea.Cmd {
	v.runner.Start()
	v.sync()
	return textinput.Blink
}

func (v *sessionView) finish(completed bool) {
	v.done = true
	outcome := v.runner.Outcome()
	if !completed {
		outcome = workflow.StatusSkipped
	}
	v.outcome = outcome
	v.outcomeNote = fmt.Sprintf("%s · %s", v.assignment.AccountName, outcome)
}

// sync refreshes the cached button row from the runner's active branch and
// clamps the focus index.
func (v *sessionView) sync() {
	v.buttons = v.runner.Buttons()
	if v.buttonFocus >= len(v.buttons) {
		v.buttonFocus = 0
	}
	if v.runner.Closed() && !v.done {
		v.finish(v.runner.Outcome() != workflow.StatusSkipped)
	}
}

func (v *sessionView) resize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = width/2 - 4
}

func (v *sessionView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd
	}

	switch key.String() {
	case "ctrl+c":
		v.runner.Close()
		v.sync()
		return tea.Quit
	case "esc":
		v.runner.Close()
		v.sync()
		return nil
	case "ctrl+s":
		v.runner.SnoozeStep(v.runner.CurrentIndex())
		v.sync()
		return nil
	case "ctrl+k":
		v.runner.SkipStep(v.runner.CurrentIndex())
		v.sync()
		return nil
	case "ctrl+a":
		v.hideArtifact = !v.hideArtifact
		return nil
	case "left", "shift+tab":
		if len(v.buttons) > 0 {
			v.buttonFocus = (v.buttonFocus + len(v.buttons) - 1) % len(v.buttons)
		}
		return nil
	case "right", "tab":
		if len(v.buttons) > 0 {
			v.buttonFocus = (v.buttonFocus + 1) % len(v.buttons)
		}
		return nil
	case "enter":
		v.submit()
		return nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// submit routes the enter key: typed text goes to the dialogue (through the
// active input component when it can consume it); an empty input presses
// the focused button.
func (v *sessionView) submit() {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		if len(v.buttons) > 0 {
			button := v.buttons[v.buttonFocus]
			value := any(button.Value)
			if button.Value == "" {
				value = nil
			}
			v.runner.HandleBranchNavigation(button.Next, value)
			v.sync()
		}
		return
	}
	v.input.Reset()
	if component := v.activeComponent(); component != nil {
		if value, ok := componentValue(component, text); ok {
			v.runner.HandleComponentValueChange(component.ID, value)
			v.sync()
			return
		}
	}
	v.runner.SendMessage(text)
	v.sync()
}

func (v *sessionView) activeComponent() *slide.InputComponent {
	if v.runner.Closed() {
		return nil
	}
	return v.runner.CurrentStep().Definition.Dialogue().Opening.Component
}

// componentValue interprets typed text for an input component: sliders take
// an in-range integer, radios take an exact option (case-insensitive).
func componentValue(component *slide.InputComponent, text string) (any, bool) {
	switch component.Kind {
	case slide.InputSlider:
		n, err := strconv.Atoi(text)
		if err != nil || n < component.Min || n > component.Max {
			return nil, false
		}
		return n, true
	case slide.InputRadio:
		for _, option := range component.Options {
			if strings.EqualFold(option, text) {
				return option, true
			}
		}
	}
	return nil, false
}

// artifactVisible combines the dialogue-driven visibility with the
// operator's local toggle.
func (v *sessionView) artifactVisible() bool {
	return v.runner.ArtifactVisible() && !v.hideArtifact
}

func (v *sessionView) View() string {
	if v.runner.Closed() {
		return systemStyle.Render(v.outcomeNote)
	}
	step := v.runner.CurrentStep()
	header := titleStyle.Render(fmt.Sprintf("%s — %s", v.assignment.AccountName, step.Definition.Title)) +
		"  " + labelStyle.Render(step.Definition.Label)

	left := v.renderDialogue()
	var body string
	if v.artifactVisible() && v.cfg.Layout == compose.DefaultLayout {
		right := v.renderArtifact(step.Definition.Artifact())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		body = left
	}

	return strings.Join([]string{
		header,
		v.renderProgress(),
		body,
		v.renderButtons(),
		v.input.View(),
		labelStyle.Render("enter send · tab buttons · ctrl+s snooze · ctrl+k skip · esc close"),
	}, "\n")
}

func (v *sessionView) renderProgress() string {
	steps := v.runner.Steps()
	parts := make([]string, len(steps))
	for i, step := range steps {
		state := v.runner.StepState(i)
		style, ok := stateStyles[state]
		if !ok {
			style = labelStyle
		}
		parts[i] = style.Render(step.Definition.ID)
	}
	return labelStyle.Render("[") + strings.Join(parts, labelStyle.Render(" → ")) + labelStyle.Render("]")
}

func (v *sessionView) renderDialogue() string {
	var b strings.Builder
	for _, entry := range v.runner.Transcript() {
		switch entry.From {
		case session.SenderOperator:
			b.WriteString(operatorStyle.Render("you  ") + entry.Text)
		case session.SenderSystem:
			b.WriteString(systemStyle.Render(entry.Text))
		default:
			b.WriteString(assistantStyle.Render(entry.Text))
		}
		b.WriteString("\n")
	}
	width := v.width
	if v.artifactVisible() {
		width = v.width / 2
	}
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (v *sessionView) renderArtifact(artifact slide.ArtifactSpec) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(artifact.Title) + "\n")
	for _, section := range artifact.Sections {
		b.WriteString(labelStyle.Render(section.Title+" · "+section.RenderType) + "\n")
		if items, ok := section.Props["items"].([]string); ok {
			for _, item := range items {
				b.WriteString("  • " + item + "\n")
			}
		}
	}
	width := v.width/2 - 4
	if width < 20 {
		width = 20
	}
	return artifactStyle.Width(width).Render(b.String())
}

func (v *sessionView) renderButtons() string {
	if len(v.buttons) == 0 {
		return ""
	}
	parts := make([]string, len(v.buttons))
	for i, button := range v.buttons {
		if i == v.buttonFocus {
			parts[i] = buttonFocus.Render(button.Label)
		} else {
			parts[i] = buttonStyle.Render(button.Label)
		}
	}
	return strings.Join(parts, " ")
}
