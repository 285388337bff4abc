// Package config models the optional playbook config file and the runtime
// settings derived from flags. The scoring block maps straight onto
// scoring.Params so deployments can retune the queue without a rebuild.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kalens/playbook/internal/scoring"
)

// Config is the resolved runtime configuration.
type Config struct {
	// HTTPAddr is the assignments API listen address.
	HTTPAddr string `yaml:"http_addr"`
	// CompositionsDir holds the authored composition YAML files.
	CompositionsDir string `yaml:"compositions_dir"`
	// SnapshotPath is the default account-signal snapshot consumed by the
	// CLI commands.
	SnapshotPath string `yaml:"snapshot_path"`
	Debug        bool   `yaml:"debug"`
	// Scoring overrides the stock tuning; absent fields keep defaults.
	Scoring *scoring.Params `yaml:"scoring,omitempty"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		CompositionsDir: "compositions",
		SnapshotPath:    "snapshot.yaml",
	}
}

// Load reads a config file over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	// Pre-seed the scoring block so a partial override keeps defaults for
	// the fields it does not mention.
	defaults := scoring.DefaultParams()
	cfg.Scoring = &defaults
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Params resolves the effective scoring tuning.
func (c Config) Params() scoring.Params {
	if c.Scoring != nil {
		return *c.Scoring
	}
	return scoring.DefaultParams()
}
