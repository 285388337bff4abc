package slide

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates the side effects a branch can run. The set is closed:
// tokens outside it parse to KindUnknown, which the session logs and ignores
// so forward-compatible authoring never strands a live dialogue.
type ActionKind string

const (
	KindAdvance         ActionKind = "advance"
	KindRetreat         ActionKind = "retreat"
	KindGoto            ActionKind = "goto"
	KindCompleteStep    ActionKind = "complete-step"
	KindShowArtifact    ActionKind = "show-artifact"
	KindHideArtifact    ActionKind = "hide-artifact"
	KindClose           ActionKind = "close"
	KindCloseCompleted  ActionKind = "close-completed"
	KindNextAccount     ActionKind = "next-account"
	KindResetTranscript ActionKind = "reset-transcript"
	KindUnknown         ActionKind = "unknown"
)

// Action is one side effect in a branch's ordered action list.
type Action struct {
	Kind ActionKind
	// Target is the explicit step index for goto actions.
	Target int
	// Raw preserves the original token for unknown actions so the log names
	// what was authored.
	Raw string
}

// ParseAction converts an authored action token into a typed action.
// Recognized shapes are the kind constants plus "goto:<index>".
func ParseAction(token string) Action {
	trimmed := strings.TrimSpace(token)
	if rest, ok := strings.CutPrefix(trimmed, string(KindGoto)+":"); ok {
		index, err := strconv.Atoi(rest)
		if err == nil && index >= 0 {
			return Action{Kind: KindGoto, Target: index}
		}
		return Action{Kind: KindUnknown, Raw: trimmed}
	}
	switch ActionKind(trimmed) {
	case KindAdvance, KindRetreat, KindCompleteStep, KindShowArtifact,
		KindHideArtifact, KindClose, KindCloseCompleted, KindNextAccount,
		KindResetTranscript:
		return Action{Kind: ActionKind(trimmed)}
	}
	return Action{Kind: KindUnknown, Raw: trimmed}
}

// ParseActions converts a token list, preserving order.
func ParseActions(tokens []string) []Action {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]Action, len(tokens))
	for i, token := range tokens {
		out[i] = ParseAction(token)
	}
	return out
}

func (a Action) String() string {
	switch a.Kind {
	case KindGoto:
		return fmt.Sprintf("goto:%d", a.Target)
	case KindUnknown:
		return a.Raw
	}
	return string(a.Kind)
}
