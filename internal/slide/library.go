package slide

import (
	"fmt"
	"sort"
	"sync"
)

// Builder emits a step definition for a merged context. Builders must be
// pure: the same context always yields the same definition.
type Builder func(Context) (Definition, error)

// Library maintains the catalog of known step builders keyed by step id.
type Library struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{builders: map[string]Builder{}}
}

// Register installs a builder. Returns an error if the id already exists.
func (l *Library) Register(id string, builder Builder) error {
	if id == "" {
		return fmt.Errorf("slide: builder id is required")
	}
	if builder == nil {
		return fmt.Errorf("slide: builder is required for %s", id)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.builders[id]; exists {
		return fmt.Errorf("slide: %s already registered", id)
	}
	l.builders[id] = builder
	return nil
}

// MustRegister panics if registration fails.
func (l *Library) MustRegister(id string, builder Builder) {
	if err := l.Register(id, builder); err != nil {
		panic(err)
	}
}

// Has reports whether a builder exists for the id.
func (l *Library) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.builders[id]
	return ok
}

// Build invokes the builder for id against ctx and validates the emitted
// definition.
func (l *Library) Build(id string, ctx Context) (Definition, error) {
	l.mu.RLock()
	builder, ok := l.builders[id]
	l.mu.RUnlock()
	if !ok {
		return Definition{}, fmt.Errorf("slide: unknown step id %s", id)
	}
	def, err := builder(ctx)
	if err != nil {
		return Definition{}, fmt.Errorf("slide: build %s: %w", id, err)
	}
	if def.ID == "" {
		def.ID = id
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// IDs returns a sorted list of registered step identifiers.
func (l *Library) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.builders))
	for id := range l.builders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
