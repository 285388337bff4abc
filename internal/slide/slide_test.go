package slide

import (
	"fmt"
	"strings"
	"testing"
)

func directStep(id string) Definition {
	return Definition{
		ID: id,
		Direct: &Content{
			Dialogue: DialogueSpec{
				Opening: Message{Text: "hello"},
				Branches: map[string]Branch{
					"a": {Response: Message{Text: "a"}, Buttons: []Button{{Label: "Go", Next: "b"}}},
					"b": {Response: Message{Text: "b"}},
				},
				Triggers: []Trigger{{Pattern: "go", Next: "a"}},
			},
		},
	}
}

func TestValidateAcceptsWellFormedStep(t *testing.T) {
	if err := directStep("s1").Validate(); err != nil {
		t.Fatalf("expected valid step, got %v", err)
	}
}

func TestValidateRejectsBothVariants(t *testing.T) {
	def := directStep("s1")
	def.Templated = &TemplatedContent{}
	if err := def.Validate(); err == nil {
		t.Fatal("expected error for both variants set")
	}

	neither := Definition{ID: "s1"}
	if err := neither.Validate(); err == nil {
		t.Fatal("expected error for neither variant set")
	}
}

func TestValidateRejectsDanglingTargets(t *testing.T) {
	byButton := directStep("s1")
	byButton.Direct.Dialogue.Branches["a"] = Branch{Buttons: []Button{{Label: "Go", Next: "nope"}}}
	if err := byButton.Validate(); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected dangling button error, got %v", err)
	}

	byTrigger := directStep("s1")
	byTrigger.Direct.Dialogue.Triggers = []Trigger{{Pattern: "x", Next: "nope"}}
	if err := byTrigger.Validate(); err == nil {
		t.Fatal("expected dangling trigger error")
	}

	byComponent := directStep("s1")
	byComponent.Direct.Dialogue.Opening.Component = &InputComponent{ID: "rating", Kind: InputSlider, Next: "nope"}
	if err := byComponent.Validate(); err == nil {
		t.Fatal("expected dangling opening component error")
	}

	byAuto := directStep("s1")
	branch := byAuto.Direct.Dialogue.Branches["b"]
	branch.AutoAdvance = &AutoAdvance{Next: "nope"}
	byAuto.Direct.Dialogue.Branches["b"] = branch
	if err := byAuto.Validate(); err == nil {
		t.Fatal("expected dangling auto-advance error")
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		token string
		want  Action
	}{
		{token: "advance", want: Action{Kind: KindAdvance}},
		{token: " complete-step ", want: Action{Kind: KindCompleteStep}},
		{token: "goto:2", want: Action{Kind: KindGoto, Target: 2}},
		{token: "goto:-1", want: Action{Kind: KindUnknown, Raw: "goto:-1"}},
		{token: "goto:x", want: Action{Kind: KindUnknown, Raw: "goto:x"}},
		{token: "explode", want: Action{Kind: KindUnknown, Raw: "explode"}},
	}
	for _, tc := range cases {
		if got := ParseAction(tc.token); got != tc.want {
			t.Fatalf("ParseAction(%q) = %+v, want %+v", tc.token, got, tc.want)
		}
	}
}

func TestActionString(t *testing.T) {
	if got := (Action{Kind: KindGoto, Target: 3}).String(); got != "goto:3" {
		t.Fatalf("expected goto:3, got %q", got)
	}
	if got := (Action{Kind: KindUnknown, Raw: "weird"}).String(); got != "weird" {
		t.Fatalf("expected raw token, got %q", got)
	}
	if got := (Action{Kind: KindClose}).String(); got != "close" {
		t.Fatalf("expected close, got %q", got)
	}
}

func TestParseActionsPreservesOrder(t *testing.T) {
	actions := ParseActions([]string{"hide-artifact", "advance"})
	if len(actions) != 2 || actions[0].Kind != KindHideArtifact || actions[1].Kind != KindAdvance {
		t.Fatalf("unexpected actions: %+v", actions)
	}
	if ParseActions(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestLibraryRegisterAndBuild(t *testing.T) {
	lib := NewLibrary()
	err := lib.Register("s1", func(ctx Context) (Definition, error) {
		def := directStep("")
		def.Title = fmt.Sprintf("For %v", ctx["name"])
		return def, nil
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := lib.Register("s1", func(Context) (Definition, error) { return Definition{}, nil }); err == nil {
		t.Fatal("expected duplicate registration error")
	}

	def, err := lib.Build("s1", Context{"name": "Acme"})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if def.ID != "s1" {
		t.Fatalf("expected builder id fill, got %q", def.ID)
	}
	if def.Title != "For Acme" {
		t.Fatalf("context not threaded: %q", def.Title)
	}

	if _, err := lib.Build("missing", nil); err == nil {
		t.Fatal("expected unknown step error")
	}
}

func TestLibraryBuildValidates(t *testing.T) {
	lib := NewLibrary()
	lib.MustRegister("broken", func(Context) (Definition, error) {
		def := directStep("")
		def.Direct.Dialogue.Branches["a"] = Branch{Buttons: []Button{{Next: "nope"}}}
		return def, nil
	})
	if _, err := lib.Build("broken", nil); err == nil {
		t.Fatal("expected validation error from Build")
	}
}

func TestContextMerge(t *testing.T) {
	base := Context{"a": 1, "b": 1}
	merged := base.Merge(Context{"b": 2, "c": 3})
	if merged["a"] != 1 || merged["b"] != 2 || merged["c"] != 3 {
		t.Fatalf("unexpected merge result: %v", merged)
	}
	if base["b"] != 1 {
		t.Fatalf("merge mutated receiver: %v", base)
	}
}
