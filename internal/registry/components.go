package registry

import (
	"sort"
	"sync"
)

// Descriptor describes one visual-artifact component the render layer can
// draw: an internal id, the external type name the renderer expects, and the
// default props merged under any step-supplied props.
type Descriptor struct {
	ID           string         `json:"id"`
	RenderType   string         `json:"render_type"`
	DefaultProps map[string]any `json:"default_props,omitempty"`
}

// renderTypeNames maps internal component ids to the type names the external
// render layer expects. The table is fixed; components registered without an
// explicit RenderType fall back through it.
var renderTypeNames = map[string]string{
	"metric-grid":     "MetricGrid",
	"pricing-table":   "PricingTable",
	"account-summary": "AccountSummary",
	"checklist":       "Checklist",
	"trend-chart":     "TrendChart",
	"risk-matrix":     "RiskMatrix",
	"quote-preview":   "QuotePreview",
}

// Components maps component ids to render descriptors.
type Components struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// NewComponents returns an empty component registry.
func NewComponents() *Components {
	return &Components{entries: map[string]Descriptor{}}
}

// Register installs a component descriptor. Last writer wins, matching the
// template registry's hot-reload behavior.
func (c *Components) Register(id string, desc Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	desc.ID = id
	if desc.RenderType == "" {
		desc.RenderType = renderTypeNames[id]
	}
	c.entries[id] = desc
}

// Resolve looks a component up by id, returning a *LookupError for unknown
// ids so a failed composition can name exactly what was missing.
func (c *Components) Resolve(id string) (Descriptor, error) {
	c.mu.RLock()
	desc, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return Descriptor{}, &LookupError{Kind: "component", ID: id}
	}
	return desc, nil
}

// IDs returns the sorted registered component ids.
func (c *Components) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
