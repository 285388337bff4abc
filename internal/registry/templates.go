// Package registry holds the two lookup tables the composer resolves against:
// dialogue-text templates and visual-artifact components. Registries are
// explicit objects constructed at process start and passed by reference, so
// tests can build their own and registration order never matters. Lookups
// fail at composition time, not registration time.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oliveagle/jsonpath"
)

var tokenPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Templates maps template ids to dialogue-text bodies with {dotted.path}
// substitution slots.
type Templates struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewTemplates returns an empty template registry.
func NewTemplates() *Templates {
	return &Templates{entries: map[string]string{}}
}

// Register installs a batch of templates. Re-registration overwrites silently
// (last writer wins) to support hot reload while authoring.
func (t *Templates) Register(templates map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, body := range templates {
		t.entries[id] = body
	}
}

// IDs returns the sorted registered template ids.
func (t *Templates) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render resolves a template id against a context. Unknown ids return a
// *LookupError naming the id and the known ids; unresolved substitution paths
// render as empty strings so degraded output stays non-fatal.
func (t *Templates) Render(id string, ctx map[string]any) (string, error) {
	t.mu.RLock()
	body, ok := t.entries[id]
	t.mu.RUnlock()
	if !ok {
		return "", &LookupError{Kind: "template", ID: id, Known: t.IDs()}
	}
	return RenderString(body, ctx), nil
}

// RenderString substitutes every {path} or {path|filter} token in body using
// dotted-path lookups into ctx. Rendering is deterministic: the same body and
// context always produce byte-identical output.
func RenderString(body string, ctx map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(body, func(token string) string {
		inner := strings.TrimSpace(token[1 : len(token)-1])
		path, filter := inner, ""
		if at := strings.IndexByte(inner, '|'); at >= 0 {
			path = strings.TrimSpace(inner[:at])
			filter = strings.TrimSpace(inner[at+1:])
		}
		value, err := jsonpath.JsonPathLookup(ctx, "$."+path)
		if err != nil || value == nil {
			return ""
		}
		return applyFilter(value, filter)
	})
}

// applyFilter formats a looked-up value through a named helper. Unknown
// filter names fall back to plain formatting rather than failing the render.
func applyFilter(value any, filter string) string {
	switch filter {
	case "currency":
		if n, ok := asFloat(value); ok {
			return "$" + groupThousands(n, 0)
		}
	case "number":
		if n, ok := asFloat(value); ok {
			return groupThousands(n, 0)
		}
	case "percent":
		if n, ok := asFloat(value); ok {
			return strconv.FormatFloat(n, 'f', -1, 64) + "%"
		}
	case "date":
		if ts, ok := value.(time.Time); ok {
			return ts.Format("January 2, 2006")
		}
		if s, ok := value.(string); ok {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				return ts.Format("January 2, 2006")
			}
			if ts, err := time.Parse("2006-01-02", s); err == nil {
				return ts.Format("January 2, 2006")
			}
		}
	}
	return formatValue(value)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	}
	return 0, false
}

// groupThousands renders n with comma separators and the given number of
// decimal places.
func groupThousands(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if at := strings.IndexByte(s, '.'); at >= 0 {
		intPart, frac = s[:at], s[at:]
	}
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
