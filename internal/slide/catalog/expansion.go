package catalog

import (
	"github.com/kalens/playbook/internal/slide"
)

// buildExpansionPitch frames an upsell conversation for high-opportunity
// accounts.
func buildExpansionPitch(ctx slide.Context) (slide.Definition, error) {
	return slide.Definition{
		ID:          "expansion-pitch",
		Title:       "Expansion pitch",
		Description: "Choose and rehearse the expansion angle.",
		Templated: &slide.TemplatedContent{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{TemplateID: "expansion-opening"},
				Branches: map[string]slide.Branch{
					slide.InitialBranch: {
						Buttons: []slide.Button{
							{Label: "More seats", Value: "seats", Next: "chosen"},
							{Label: "Higher tier", Value: "tier", Next: "chosen"},
							{Label: "New product line", Value: "cross-sell", Next: "chosen"},
						},
					},
					"chosen": {
						Response: slide.Message{Text: "Good choice. The talking points on the right match that angle."},
						StoreAs:  "expansion_angle",
						Buttons: []slide.Button{
							{Label: "Ready to move on", Next: "continue"},
						},
					},
					"continue": {
						Response: slide.Message{Text: "Pitch prepped."},
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
				},
				Fallback: "Pick an expansion angle to continue.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Expansion case",
				Sections: []slide.Section{
					{Title: "Usage trend", ComponentID: "trend-chart"},
					{Title: "Key metrics", ComponentID: "metric-grid"},
				},
			},
		},
	}, nil
}
