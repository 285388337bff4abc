package catalog

import (
	"time"

	"github.com/kalens/playbook/internal/slide"
)

// buildRenewalClose records the renewal outcome. The auto-advance on the
// "won" branch gives the operator a beat to read the confirmation before the
// session moves on.
func buildRenewalClose(ctx slide.Context) (slide.Definition, error) {
	return slide.Definition{
		ID:          "renewal-close",
		Title:       "Close out renewal",
		Description: "Record the outcome of the renewal conversation.",
		Direct: &slide.Content{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{Text: "How did the renewal conversation land?"},
				Branches: map[string]slide.Branch{
					slide.InitialBranch: {
						Buttons: []slide.Button{
							{Label: "Closed won", Value: "won", Next: "won"},
							{Label: "Closed lost", Value: "lost", Next: "lost"},
							{Label: "Still in motion", Value: "open", Next: "pending"},
						},
					},
					"won": {
						Response:    slide.Message{Text: "Excellent. Recording a win."},
						StoreAs:     "renewal_outcome",
						AutoAdvance: &slide.AutoAdvance{Next: "wrap", Delay: 1200 * time.Millisecond},
					},
					"lost": {
						Response:   slide.Message{Text: "Tough one. Add a sentence on what happened for the post-mortem."},
						StoreAs:    "renewal_outcome",
						NextOnText: "wrap",
					},
					"pending": {
						Response: slide.Message{Text: "Okay, leaving it open. Snooze this workflow if you want it resurfaced later."},
						StoreAs:  "renewal_outcome",
						Buttons: []slide.Button{
							{Label: "Wrap up anyway", Next: "wrap"},
						},
					},
					"wrap": {
						Response: slide.Message{Text: "Outcome recorded."},
						StoreAs:  "close_note",
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
				},
				Triggers: []slide.Trigger{
					{Pattern: "won", Next: "won"},
					{Pattern: "lost", Next: "lost"},
				},
				Fallback: "Pick the outcome that matches where things landed.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Renewal status",
				Sections: []slide.Section{
					{Title: "Summary", ComponentID: "account-summary", RenderType: "AccountSummary"},
				},
			},
		},
	}, nil
}
