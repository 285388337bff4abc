package compose

// Default session settings applied when a composition's settings block is
// absent or partial.
const (
	DefaultLayout              = "split"
	DefaultDialoguePlaceholder = "Type a reply..."
)

// Config bundles a composed step list with the derived top-level session
// settings.
type Config struct {
	CompositionID       string          `json:"composition_id"`
	Name                string          `json:"name"`
	Steps               []Step          `json:"steps"`
	Layout              string          `json:"layout"`
	DialoguePlaceholder string          `json:"dialogue_placeholder"`
	OpeningLine         string          `json:"opening_line,omitempty"`
	Features            map[string]bool `json:"features,omitempty"`
}

// BuildConfig composes the steps and derives session settings from the
// composition's settings block, defaulting sensibly where it is silent. When
// a greeting source is installed and no opening line was authored, the
// generated line is substituted as plain text; a generation failure falls
// back to the authored default rather than failing the composition.
func (c *Composer) BuildConfig(comp Composition, runtime Runtime) (Config, error) {
	steps, err := c.Compose(comp, runtime)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		CompositionID:       comp.ID,
		Name:                comp.Name,
		Steps:               steps,
		Layout:              DefaultLayout,
		DialoguePlaceholder: DefaultDialoguePlaceholder,
	}
	if settings := comp.Settings; settings != nil {
		if settings.Layout != "" {
			cfg.Layout = settings.Layout
		}
		if settings.DialoguePlaceholder != "" {
			cfg.DialoguePlaceholder = settings.DialoguePlaceholder
		}
		cfg.OpeningLine = settings.OpeningLine
		if len(settings.Features) > 0 {
			cfg.Features = make(map[string]bool, len(settings.Features))
			for k, v := range settings.Features {
				cfg.Features[k] = v
			}
		}
	}
	if cfg.OpeningLine == "" && c.greetings != nil {
		if line, err := c.greetings.OpeningLine(runtime.context()); err == nil && line != "" {
			cfg.OpeningLine = line
		}
	}
	return cfg, nil
}
