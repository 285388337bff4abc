package catalog

import (
	"github.com/kalens/playbook/internal/slide"
)

// buildReview walks the operator through an account health check. The health
// rating is captured via a slider and persisted into workflow state.
func buildReview(ctx slide.Context) (slide.Definition, error) {
	return slide.Definition{
		ID:          "review",
		Title:       "Account review",
		Description: "Health check and score walkthrough.",
		Templated: &slide.TemplatedContent{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{
					TemplateID: "review-opening",
					Component: &slide.InputComponent{
						ID:   "health-rating",
						Kind: slide.InputSlider,
						Min:  1,
						Max:  10,
						Next: "rated",
					},
				},
				Branches: map[string]slide.Branch{
					"rated": {
						Response: slide.Message{TemplateID: "review-scores"},
						StoreAs:  "health_rating",
						Buttons: []slide.Button{
							{Label: "Looks right, continue", Next: "continue"},
							{Label: "Flag a concern", Next: "concern"},
						},
					},
					"concern": {
						Response:   slide.Message{Text: "Tell me what's worrying you and I'll note it."},
						NextOnText: "concern-noted",
					},
					"concern-noted": {
						Response: slide.Message{Text: "Noted. We'll keep it attached to this workflow."},
						StoreAs:  "review_concern",
						Buttons: []slide.Button{
							{Label: "Continue", Next: "continue"},
						},
					},
					"continue": {
						Response: slide.Message{Text: "Review done. Moving on."},
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
					"handle-snooze": {
						Response: slide.Message{Text: "Okay, we'll come back to this one later."},
						Actions:  []slide.Action{{Kind: slide.KindAdvance}},
					},
				},
				Triggers: []slide.Trigger{
					{Pattern: "snooze", Next: "handle-snooze"},
					{Pattern: "skip", Next: "handle-snooze"},
				},
				Fallback: "You can rate the account above, or type \"snooze\" to come back later.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Account health",
				Sections: []slide.Section{
					{Title: "Summary", ComponentID: "account-summary"},
					{Title: "Key metrics", ComponentID: "metric-grid"},
				},
			},
		},
	}, nil
}
