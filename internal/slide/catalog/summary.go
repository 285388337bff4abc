package catalog

import (
	"github.com/kalens/playbook/internal/slide"
)

// buildSummary closes a session: recap, confirmation, done. Direct content;
// nothing here needs template substitution.
func buildSummary(ctx slide.Context) (slide.Definition, error) {
	return slide.Definition{
		ID:          "summary",
		Title:       "Wrap-up",
		Description: "Recap of what was decided this session.",
		Direct: &slide.Content{
			Dialogue: slide.DialogueSpec{
				Opening: slide.Message{
					Text: "That's everything. Here's the recap on the right — anything captured this session is saved with the workflow.",
				},
				Branches: map[string]slide.Branch{
					slide.InitialBranch: {
						Buttons: []slide.Button{
							{Label: "Finish", Next: "done"},
							{Label: "Next account", Next: "next-account"},
						},
					},
					"done": {
						Response: slide.Message{Text: "Nice work. Closing this one out."},
						Actions: []slide.Action{
							{Kind: slide.KindCompleteStep},
							{Kind: slide.KindCloseCompleted},
						},
					},
					"next-account": {
						Response: slide.Message{Text: "On to the next account in your queue."},
						Actions: []slide.Action{
							{Kind: slide.KindCompleteStep},
							{Kind: slide.KindNextAccount},
						},
					},
				},
				Triggers: []slide.Trigger{
					{Pattern: "done", Next: "done"},
					{Pattern: "next", Next: "next-account"},
				},
				Fallback: "Hit \"Finish\" to close the session, or \"Next account\" to keep going.",
			},
			Artifact: slide.ArtifactSpec{
				Title: "Session recap",
				Sections: []slide.Section{
					{Title: "Captured", ComponentID: "checklist", RenderType: "Checklist"},
				},
			},
		},
	}, nil
}
