// Package catalog ships the built-in step builders plus the dialogue
// templates and artifact components they reference. Register the three
// pieces into freshly constructed registries at process start; nothing here
// registers itself via import side effects.
package catalog

import (
	"github.com/kalens/playbook/internal/registry"
	"github.com/kalens/playbook/internal/slide"
)

// Register installs every built-in step builder.
func Register(lib *slide.Library) {
	if lib == nil {
		return
	}
	lib.MustRegister("greeting", buildGreeting)
	lib.MustRegister("review", buildReview)
	lib.MustRegister("quote", buildQuote)
	lib.MustRegister("summary", buildSummary)
	lib.MustRegister("risk-assessment", buildRiskAssessment)
	lib.MustRegister("expansion-pitch", buildExpansionPitch)
	lib.MustRegister("renewal-close", buildRenewalClose)
}

// RegisterTemplates installs the dialogue templates the built-in builders
// reference.
func RegisterTemplates(t *registry.Templates) {
	if t == nil {
		return
	}
	t.Register(map[string]string{
		"greeting-opening": "Hi! Let's work through the plan for {customer.name}. " +
			"They're at {customer.current_arr|currency} ARR today.",
		"greeting-overview": "Here's what this session covers. " +
			"Pick a step or just hit start and I'll walk you through in order.",
		"review-opening": "First, a quick health check on {customer.name}. " +
			"How would you rate this account right now?",
		"review-scores": "Noted. For reference, their opportunity score is " +
			"{customer.opportunity_score} and risk score is {customer.risk_score}.",
		"quote-opening": "Time to talk numbers. The proposed renewal is " +
			"{pricing.proposed_arr|currency}, a {pricing.increase_percent|percent} increase " +
			"over their current {customer.current_arr|currency}.",
		"quote-accepted": "Great, locking in {pricing.proposed_arr|currency}. " +
			"I'll carry that into the summary.",
		"quote-adjust": "No problem. What number should we target instead?",
		"expansion-opening": "{customer.name} looks ready for an expansion conversation: " +
			"opportunity score {customer.opportunity_score} with {customer.current_arr|currency} ARR. " +
			"Which angle fits best?",
	})
}

// RegisterComponents installs the artifact components the built-in builders
// reference.
func RegisterComponents(c *registry.Components) {
	if c == nil {
		return
	}
	c.Register("checklist", registry.Descriptor{})
	c.Register("account-summary", registry.Descriptor{})
	c.Register("metric-grid", registry.Descriptor{})
	c.Register("pricing-table", registry.Descriptor{DefaultProps: map[string]any{"currency": "USD"}})
	c.Register("quote-preview", registry.Descriptor{DefaultProps: map[string]any{"currency": "USD"}})
	c.Register("risk-matrix", registry.Descriptor{})
	c.Register("trend-chart", registry.Descriptor{})
}
