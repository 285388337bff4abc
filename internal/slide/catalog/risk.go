package catalog

import (
	"fmt"

	"github.com/kalens/playbook/internal/slide"
)

// buildRiskAssessment guides a churn-risk conversation. Direct content with
// one context-sensitive line: the authored context can override the focus
// area shown in the opener.
func buildRiskAssessment(ctx slide.Context) (slide.Definition, error) {
	focus, _ := ctx["focus"].(string)
	opening := "This account is showing churn risk. Let's figure out what's driving it."
	if focus != "" {
		opening = fmt.Sprintf("This account is showing churn risk around %s. Let's dig in.", focus)
	}
	return slide.Definition{
		ID:          "risk-assessment",
		Title:       "Risk assessment",
		Description: "Identify and classify the churn driver.",
		Direct: &slide.Content{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{Text: opening},
				Branches: map[string]slide.Branch{
					slide.InitialBranch: {
						Buttons: []slide.Button{
							{Label: "Low product usage", Value: "usage", Next: "classified"},
							{Label: "Champion left", Value: "champion", Next: "classified"},
							{Label: "Budget pressure", Value: "budget", Next: "classified"},
							{Label: "Something else", Next: "other"},
						},
					},
					"classified": {
						Response: slide.Message{Text: "That's a common driver, and there's a play for it. I've tagged the workflow."},
						StoreAs:  "risk_driver",
						Buttons: []slide.Button{
							{Label: "Continue", Next: "continue"},
						},
					},
					"other": {
						Response:   slide.Message{Text: "Describe it briefly and I'll record it."},
						NextOnText: "classified",
					},
					"continue": {
						Response: slide.Message{Text: "Risk noted. On to the response plan."},
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
				},
				Fallback: "Pick the closest driver, or \"Something else\" to describe it.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Risk profile",
				Sections: []slide.Section{
					{Title: "Risk matrix", ComponentID: "risk-matrix", RenderType: "RiskMatrix"},
					{Title: "Usage trend", ComponentID: "trend-chart", RenderType: "TrendChart"},
				},
			},
		},
	}, nil
}
