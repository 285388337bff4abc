package session

import (
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/slide"
)

// runActions executes a branch's side effects in order. Unknown action
// kinds are logged and skipped; navigation actions that would leave the step
// list short-circuit the remainder.
func (r *Runner) runActions(actions []slide.Action) {
	for _, action := range actions {
		if r.closed {
			return
		}
		switch action.Kind {
		case slide.KindAdvance:
			r.advance()
		case slide.KindRetreat:
			r.retreat()
		case slide.KindGoto:
			if action.Target < 0 || action.Target >= len(r.steps) || !r.available(action.Target) {
				r.log.Warn("session: goto target unavailable",
					zap.Int("target", action.Target),
					zap.Int("steps", len(r.steps)))
				continue
			}
			r.enterStep(action.Target)
		case slide.KindCompleteStep:
			r.completeCurrent()
		case slide.KindShowArtifact:
			r.artifactVisible = true
		case slide.KindHideArtifact:
			r.artifactVisible = false
		case slide.KindClose:
			r.finish(false, false)
		case slide.KindCloseCompleted:
			r.finish(true, false)
		case slide.KindNextAccount:
			r.finish(true, true)
		case slide.KindResetTranscript:
			r.transcript = nil
		default:
			r.log.Warn("session: unknown action token",
				zap.String("step", r.steps[r.current].Definition.ID),
				zap.String("token", action.Raw))
		}
	}
}

// completeCurrent records the current step as done and notifies the
// persistence hook with the captured variables.
func (r *Runner) completeCurrent() {
	index := r.current
	if r.has(r.completed, index) {
		return
	}
	r.completed[index] = struct{}{}
	if r.cb.OnStepComplete != nil {
		r.cb.OnStepComplete(r.steps[index].Definition.ID, r.Vars())
	}
}
