package catalog

import (
	"github.com/kalens/playbook/internal/slide"
)

// buildGreeting opens every session: it welcomes the operator, shows the
// session overview checklist, and hands off to the first working step. The
// composer injects the full slide sequence into this step's context only, so
// the checklist can list what is coming.
func buildGreeting(ctx slide.Context) (slide.Definition, error) {
	items := sequenceItems(ctx)
	return slide.Definition{
		ID:          "greeting",
		Title:       "Kickoff",
		Description: "Session overview and warm-up.",
		Templated: &slide.TemplatedContent{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{TemplateID: "greeting-opening"},
				Branches: map[string]slide.Branch{
					slide.InitialBranch: {
						Buttons: []slide.Button{
							{Label: "Show me the plan", Next: "overview"},
							{Label: "Let's start", Next: "begin"},
						},
					},
					"overview": {
						Response: slide.Message{TemplateID: "greeting-overview"},
						Buttons: []slide.Button{
							{Label: "Let's start", Next: "begin"},
						},
					},
					"begin": {
						Response: slide.Message{Text: "On to the first step."},
						Actions:  []slide.Action{{Kind: slide.KindCompleteStep}, {Kind: slide.KindAdvance}},
					},
				},
				Triggers: []slide.Trigger{
					{Pattern: "start", Next: "begin"},
					{Pattern: "overview", Next: "overview"},
				},
				Fallback: "Say \"start\" when you're ready, or pick a button.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Session overview",
				Sections: []slide.Section{
					{
						Title:       "Steps",
						ComponentID: "checklist",
						Props:       map[string]any{"items": items},
					},
				},
			},
		},
	}, nil
}

func sequenceItems(ctx slide.Context) []string {
	seq, _ := ctx["sequence"].([]string)
	if len(seq) == 0 {
		return nil
	}
	items := make([]string, len(seq))
	copy(items, seq)
	return items
}
