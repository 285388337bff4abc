// Package slide models one unit of guided work: a dialogue branch graph
// paired with a visual artifact spec, plus the library of builders that emit
// step definitions for a context. Definitions come in two variants: direct
// (all text inline) and templated (text and components referenced by id and
// resolved at composition time).
package slide

import (
	"fmt"
	"time"
)

// Context is the merged authored-plus-runtime data a builder receives.
type Context map[string]any

// Clone returns a shallow copy of the context.
func (c Context) Clone() Context {
	if len(c) == 0 {
		return Context{}
	}
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge overlays other on top of c in a new context.
func (c Context) Merge(other Context) Context {
	out := c.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Definition is one resolved-or-resolvable step. Exactly one of Direct and
// Templated is set; Validate enforces the invariant.
type Definition struct {
	ID          string
	Title       string
	Description string
	// Label is the ordinal label shown to the operator ("Step 2 of 4").
	// Empty until the composer assigns indices.
	Label string

	Direct    *Content
	Templated *TemplatedContent
}

// Content carries a fully inline dialogue and artifact.
type Content struct {
	Dialogue DialogueSpec
	Artifact ArtifactSpec
}

// TemplatedContent mirrors Content but references dialogue text by template
// id; the composer resolves it through the template registry.
type TemplatedContent struct {
	Dialogue DialogueSpec
	Artifact ArtifactSpec
}

// DialogueSpec is a step's conversation graph: an opening message, named
// branches, an ordered free-text trigger table, and an optional fallback
// line appended when nothing matches.
type DialogueSpec struct {
	Opening  Message
	Branches map[string]Branch
	Triggers []Trigger
	Fallback string
}

// Message is one dialogue line. Direct content sets Text; templated content
// sets TemplateID instead. An optional embedded input component prompts the
// operator inline.
type Message struct {
	Text       string
	TemplateID string
	Component  *InputComponent
	// PreDelay pauses before the message is appended to the transcript.
	PreDelay time.Duration
}

// ArtifactSpec describes the visual panel shown beside the dialogue.
type ArtifactSpec struct {
	Title    string
	Sections []Section
}

// Section binds one visible artifact region to a render component.
type Section struct {
	Title       string
	ComponentID string
	Props       map[string]any
	// RenderType is filled at composition time from the component registry.
	RenderType string
}

// Validate checks the definition's structural invariants: exactly one
// variant, and every branch target naming a branch that exists in the step.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("slide: step id is required")
	}
	if (d.Direct == nil) == (d.Templated == nil) {
		return fmt.Errorf("slide: step %s must be exactly one of direct or templated", d.ID)
	}
	dialogue := d.Dialogue()
	for name, branch := range dialogue.Branches {
		for _, target := range branch.targets() {
			if target == "" {
				continue
			}
			if _, ok := dialogue.Branches[target]; !ok {
				return fmt.Errorf("slide: step %s branch %s references unknown branch %s", d.ID, name, target)
			}
		}
	}
	for _, trigger := range dialogue.Triggers {
		if _, ok := dialogue.Branches[trigger.Next]; !ok {
			return fmt.Errorf("slide: step %s trigger %q references unknown branch %s", d.ID, trigger.Pattern, trigger.Next)
		}
	}
	if opening := dialogue.Opening; opening.Component != nil && opening.Component.Next != "" {
		if _, ok := dialogue.Branches[opening.Component.Next]; !ok {
			return fmt.Errorf("slide: step %s opening component references unknown branch %s", d.ID, opening.Component.Next)
		}
	}
	return nil
}

// Dialogue returns whichever variant's dialogue spec is present.
func (d Definition) Dialogue() DialogueSpec {
	if d.Direct != nil {
		return d.Direct.Dialogue
	}
	if d.Templated != nil {
		return d.Templated.Dialogue
	}
	return DialogueSpec{}
}

// Artifact returns whichever variant's artifact spec is present.
func (d Definition) Artifact() ArtifactSpec {
	if d.Direct != nil {
		return d.Direct.Artifact
	}
	if d.Templated != nil {
		return d.Templated.Artifact
	}
	return ArtifactSpec{}
}
