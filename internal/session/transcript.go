package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Sender distinguishes who produced a transcript entry.
type Sender string

const (
	SenderAssistant Sender = "assistant"
	SenderOperator  Sender = "operator"
	SenderSystem    Sender = "system"
)

// Entry is one ordered transcript line.
type Entry struct {
	From Sender `json:"from"`
	Text string `json:"text"`
	// Branch names the dialogue branch that produced an assistant entry.
	Branch string    `json:"branch,omitempty"`
	At     time.Time `json:"at"`
}

// displayValue renders a captured component value for the transcript:
// slices join with commas, maps serialize deterministically, everything else
// formats plainly.
func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = displayValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		// encoding/json sorts map keys, so this is deterministic.
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
