package catalog

import (
	"github.com/kalens/playbook/internal/slide"
)

// buildQuote presents the proposed renewal number and captures the
// operator's decision on it.
func buildQuote(ctx slide.Context) (slide.Definition, error) {
	return slide.Definition{
		ID:          "quote",
		Title:       "Renewal quote",
		Description: "Present the proposed number and record the decision.",
		Templated: &slide.TemplatedContent{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{
					TemplateID: "quote-opening",
					Component: &slide.InputComponent{
						ID:      "quote-decision",
						Kind:    slide.InputRadio,
						Options: []string{"Accept proposed", "Adjust target"},
						Next:    "decided",
					},
				},
				Branches: map[string]slide.Branch{
					"decided": {
						Response: slide.Message{Text: "Got it."},
						StoreAs:  "quote_decision",
						Buttons: []slide.Button{
							{Label: "Lock it in", Next: "accepted"},
							{Label: "Change the number", Next: "adjust"},
						},
					},
					"accepted": {
						Response: slide.Message{TemplateID: "quote-accepted"},
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
					"adjust": {
						Response:   slide.Message{TemplateID: "quote-adjust"},
						NextOnText: "adjusted",
					},
					"adjusted": {
						Response: slide.Message{Text: "Updated. I'll use that target going forward."},
						StoreAs:  "quote_target",
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
				},
				Fallback: "Pick an option above to record the quote decision.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Proposed renewal",
				Sections: []slide.Section{
					{Title: "Pricing", ComponentID: "pricing-table"},
					{Title: "Quote", ComponentID: "quote-preview"},
				},
			},
		},
	}, nil
}
