// Package compose turns an authored composition (an ordered slide sequence
// with per-step context overrides) into concrete, renderable steps by
// resolving each slide through the library and the template and component
// registries. Compositions are static: loaded once, never mutated at
// runtime.
package compose

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCompositionDir is the conventional location for authored
// composition files.
const DefaultCompositionDir = "compositions"

// Composition declares one complete guided workflow.
type Composition struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category,omitempty"`
	// SlideSequence lists step ids in execution order; every id must resolve
	// against the slide library.
	SlideSequence []string `yaml:"slide_sequence"`
	// SlideContexts carries per-step authored context overrides, keyed by a
	// step id that must itself appear in SlideSequence.
	SlideContexts map[string]map[string]any `yaml:"slide_contexts,omitempty"`
	Settings      *Settings                 `yaml:"settings,omitempty"`
}

// Settings is the optional per-composition session configuration.
type Settings struct {
	Layout              string          `yaml:"layout,omitempty"`
	DialoguePlaceholder string          `yaml:"dialogue_placeholder,omitempty"`
	OpeningLine         string          `yaml:"opening_line,omitempty"`
	Features            map[string]bool `yaml:"features,omitempty"`
}

// Clone returns a deep copy of the composition.
func (c Composition) Clone() Composition {
	clone := c
	if len(c.SlideSequence) > 0 {
		clone.SlideSequence = make([]string, len(c.SlideSequence))
		copy(clone.SlideSequence, c.SlideSequence)
	}
	if len(c.SlideContexts) > 0 {
		clone.SlideContexts = make(map[string]map[string]any, len(c.SlideContexts))
		for id, ctx := range c.SlideContexts {
			inner := make(map[string]any, len(ctx))
			for k, v := range ctx {
				inner[k] = v
			}
			clone.SlideContexts[id] = inner
		}
	}
	if c.Settings != nil {
		settings := *c.Settings
		if len(c.Settings.Features) > 0 {
			settings.Features = make(map[string]bool, len(c.Settings.Features))
			for k, v := range c.Settings.Features {
				settings.Features[k] = v
			}
		}
		clone.Settings = &settings
	}
	return clone
}

// ParseYAML decodes a composition from YAML bytes.
func ParseYAML(data []byte) (Composition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Composition{}, fmt.Errorf("compose: composition payload is empty")
	}
	var comp Composition
	if err := yaml.Unmarshal(data, &comp); err != nil {
		return Composition{}, fmt.Errorf("compose: decode composition: %w", err)
	}
	if comp.ID == "" {
		return Composition{}, fmt.Errorf("compose: composition id is required")
	}
	return comp, nil
}

// LoadReader reads composition data from an io.Reader.
func LoadReader(r io.Reader) (Composition, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Composition{}, fmt.Errorf("compose: read composition: %w", err)
	}
	return ParseYAML(content)
}

// LoadFile loads one composition from disk.
func LoadFile(path string) (Composition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Composition{}, fmt.Errorf("compose: read %s: %w", path, err)
	}
	comp, parseErr := ParseYAML(content)
	if parseErr != nil {
		return Composition{}, fmt.Errorf("compose: %s: %w", path, parseErr)
	}
	return comp, nil
}

// LoadDir loads every .yaml/.yml composition under dir, keyed by composition
// id, in lexical filename order.
func LoadDir(dir string) (map[string]Composition, error) {
	if dir == "" {
		dir = DefaultCompositionDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("compose: read dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	out := make(map[string]Composition, len(names))
	for _, name := range names {
		comp, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, exists := out[comp.ID]; exists {
			return nil, fmt.Errorf("compose: duplicate composition id %s in %s", comp.ID, name)
		}
		out[comp.ID] = comp
	}
	return out, nil
}
