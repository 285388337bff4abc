package registry

import (
	"fmt"
	"strings"
)

// LookupError reports an unknown template or component id at resolution time.
// It carries the offending id and, for templates, the set of known ids so an
// authoring tool can show what was available.
type LookupError struct {
	Kind  string
	ID    string
	Known []string
}

func (e *LookupError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("registry: unknown %s %q", e.Kind, e.ID)
	}
	return fmt.Sprintf("registry: unknown %s %q (known: %s)", e.Kind, e.ID, strings.Join(e.Known, ", "))
}
