package compose

import (
	"fmt"
	"strings"

	"github.com/kalens/playbook/internal/slide"
)

// ValidationError describes one authoring problem in a composition. Validate
// collects every problem instead of stopping at the first so an authoring
// tool can display them all at once.
type ValidationError struct {
	CompositionID string
	SlideID       string
	Message       string
}

func (e ValidationError) Error() string {
	if e.SlideID == "" {
		return fmt.Sprintf("composition %s: %s", e.CompositionID, e.Message)
	}
	return fmt.Sprintf("composition %s slide %s: %s", e.CompositionID, e.SlideID, e.Message)
}

// Validate checks a composition's referential integrity against the library:
// a non-empty sequence, every sequence id registered, and every per-step
// context key naming a step in the sequence. It never panics and returns all
// problems found.
func Validate(comp Composition, lib *slide.Library) []ValidationError {
	var errs []ValidationError
	if len(comp.SlideSequence) == 0 {
		errs = append(errs, ValidationError{
			CompositionID: comp.ID,
			Message:       "slide sequence must not be empty",
		})
	}
	inSequence := make(map[string]struct{}, len(comp.SlideSequence))
	for _, id := range comp.SlideSequence {
		inSequence[id] = struct{}{}
		if !lib.Has(id) {
			errs = append(errs, ValidationError{
				CompositionID: comp.ID,
				SlideID:       id,
				Message:       fmt.Sprintf("unknown slide id %q", id),
			})
		}
	}
	for id := range comp.SlideContexts {
		if _, ok := inSequence[id]; !ok {
			errs = append(errs, ValidationError{
				CompositionID: comp.ID,
				SlideID:       id,
				Message:       fmt.Sprintf("slide context key %q is not in the slide sequence", id),
			})
		}
	}
	return errs
}

// Error is the typed composition failure. A non-empty Validation list means
// the composition was structurally invalid; otherwise Err wraps the registry
// or builder failure for one slide. Callers treat a failed composition as
// "workflow unavailable" and continue the batch.
type Error struct {
	CompositionID string
	SlideID       string
	Validation    []ValidationError
	Err           error
}

func (e *Error) Error() string {
	if len(e.Validation) > 0 {
		msgs := make([]string, len(e.Validation))
		for i, v := range e.Validation {
			msgs[i] = v.Message
		}
		return fmt.Sprintf("compose: composition %s invalid: %s", e.CompositionID, strings.Join(msgs, "; "))
	}
	if e.SlideID != "" {
		return fmt.Sprintf("compose: composition %s slide %s: %v", e.CompositionID, e.SlideID, e.Err)
	}
	return fmt.Sprintf("compose: composition %s: %v", e.CompositionID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
