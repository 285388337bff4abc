package compose

import (
	"fmt"

	"github.com/kalens/playbook/internal/registry"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/slide"
)

// GreetingStepID names the step that receives the full step sequence in its
// context so it can render an overview checklist, and whose opening line may
// come from a generated greeting.
const GreetingStepID = "greeting"

// Runtime carries the live variables merged into every step's context.
type Runtime struct {
	// Customer is exposed under the "customer" context key.
	Customer map[string]any
	// Pricing is exposed under the "pricing" context key.
	Pricing map[string]any
	// Workflow is exposed under the "workflow" context key (type, reason,
	// instance metadata).
	Workflow map[string]any
}

// CustomerContext flattens an account signal into the template-facing
// customer map.
func CustomerContext(sig signal.AccountSignal) map[string]any {
	customer := map[string]any{
		"name":        sig.AccountName,
		"current_arr": sig.ARR,
	}
	if sig.RenewalStage != "" {
		customer["renewal_stage"] = string(sig.RenewalStage)
	}
	if sig.Plan != nil {
		customer["strategic_plan"] = string(*sig.Plan)
	}
	if sig.OpportunityScore != nil {
		customer["opportunity_score"] = *sig.OpportunityScore
	}
	if sig.RiskScore != nil {
		customer["risk_score"] = *sig.RiskScore
	}
	if sig.DaysUntilRenewal != nil {
		customer["days_until_renewal"] = *sig.DaysUntilRenewal
	}
	return customer
}

func (r Runtime) context() slide.Context {
	ctx := slide.Context{}
	if r.Customer != nil {
		ctx["customer"] = r.Customer
	}
	if r.Pricing != nil {
		ctx["pricing"] = r.Pricing
	}
	if r.Workflow != nil {
		ctx["workflow"] = r.Workflow
	}
	return ctx
}

// Step is one resolved, renderable step. After composition the definition is
// always direct: all template references have been rendered and every
// artifact section carries its render type.
type Step struct {
	Index      int
	Definition slide.Definition
}

// GreetingSource supplies a generated opening line for the greeting step.
// The composer only ever substitutes the result as plain text.
type GreetingSource interface {
	OpeningLine(ctx slide.Context) (string, error)
}

// Composer resolves compositions into step lists.
type Composer struct {
	library    *slide.Library
	templates  *registry.Templates
	components *registry.Components
	greetings  GreetingSource
}

// Option customizes the composer.
type Option func(*Composer)

// WithGreetingSource installs an optional generated-greeting provider.
func WithGreetingSource(src GreetingSource) Option {
	return func(c *Composer) {
		if src != nil {
			c.greetings = src
		}
	}
}

// New wires a composer to the slide library and registries.
func New(lib *slide.Library, templates *registry.Templates, components *registry.Components, opts ...Option) (*Composer, error) {
	if lib == nil {
		return nil, fmt.Errorf("compose: slide library is required")
	}
	if templates == nil || components == nil {
		return nil, fmt.Errorf("compose: template and component registries are required")
	}
	c := &Composer{library: lib, templates: templates, components: components}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compose resolves a composition into its ordered step list. Validation
// problems and registry lookup failures both surface as a typed *Error; the
// caller should treat the workflow as unavailable and keep going.
func (c *Composer) Compose(comp Composition, runtime Runtime) ([]Step, error) {
	if errs := Validate(comp, c.library); len(errs) > 0 {
		return nil, &Error{CompositionID: comp.ID, Validation: errs}
	}
	base := runtime.context()
	steps := make([]Step, 0, len(comp.SlideSequence))
	for i, id := range comp.SlideSequence {
		ctx := base.Clone()
		if id == GreetingStepID {
			// Only the greeting step sees the whole sequence, so it can
			// render the session overview.
			ctx["sequence"] = append([]string(nil), comp.SlideSequence...)
		}
		if authored, ok := comp.SlideContexts[id]; ok {
			ctx = ctx.Merge(slide.Context(authored))
		}
		def, err := c.library.Build(id, ctx)
		if err != nil {
			return nil, &Error{CompositionID: comp.ID, SlideID: id, Err: err}
		}
		if def.Templated != nil {
			resolved, err := c.resolve(def, ctx)
			if err != nil {
				return nil, &Error{CompositionID: comp.ID, SlideID: id, Err: err}
			}
			def = resolved
		}
		if def.Label == "" {
			def.Label = fmt.Sprintf("Step %d of %d", i+1, len(comp.SlideSequence))
		}
		steps = append(steps, Step{Index: i, Definition: def})
	}
	return steps, nil
}

// resolve renders a templated definition into direct content: every dialogue
// message's template reference goes through the template registry with the
// merged context, and every artifact section is checked against the
// component registry.
func (c *Composer) resolve(def slide.Definition, ctx slide.Context) (slide.Definition, error) {
	content := slide.Content{
		Dialogue: def.Templated.Dialogue,
		Artifact: def.Templated.Artifact,
	}
	opening, err := c.resolveMessage(content.Dialogue.Opening, ctx)
	if err != nil {
		return slide.Definition{}, err
	}
	content.Dialogue.Opening = opening

	branches := make(map[string]slide.Branch, len(content.Dialogue.Branches))
	for name, branch := range content.Dialogue.Branches {
		response, err := c.resolveMessage(branch.Response, ctx)
		if err != nil {
			return slide.Definition{}, fmt.Errorf("branch %s: %w", name, err)
		}
		branch.Response = response
		branches[name] = branch
	}
	content.Dialogue.Branches = branches
	if content.Dialogue.Fallback != "" {
		content.Dialogue.Fallback = registry.RenderString(content.Dialogue.Fallback, ctx)
	}

	sections := make([]slide.Section, len(content.Artifact.Sections))
	for i, section := range content.Artifact.Sections {
		desc, err := c.components.Resolve(section.ComponentID)
		if err != nil {
			return slide.Definition{}, err
		}
		section.RenderType = desc.RenderType
		section.Props = mergeProps(desc.DefaultProps, section.Props)
		sections[i] = section
	}
	content.Artifact.Sections = sections

	def.Templated = nil
	def.Direct = &content
	def.Title = registry.RenderString(def.Title, ctx)
	return def, nil
}

func (c *Composer) resolveMessage(msg slide.Message, ctx slide.Context) (slide.Message, error) {
	if msg.TemplateID == "" {
		return msg, nil
	}
	text, err := c.templates.Render(msg.TemplateID, ctx)
	if err != nil {
		return slide.Message{}, err
	}
	msg.Text = text
	msg.TemplateID = ""
	return msg, nil
}

func mergeProps(defaults, overrides map[string]any) map[string]any {
	if len(defaults) == 0 {
		return overrides
	}
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
