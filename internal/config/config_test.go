package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalens/playbook/internal/scoring"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.CompositionsDir != "compositions" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Scoring != nil {
		t.Fatal("expected nil scoring block for defaults")
	}
	if cfg.Params().RenewalDaysThreshold != scoring.DefaultParams().RenewalDaysThreshold {
		t.Fatal("Params must fall back to stock tuning")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SnapshotPath != "snapshot.yaml" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadPartialScoringOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.yaml")
	content := strings.TrimSpace(`
http_addr: ":9090"
debug: true
scoring:
  urgency_max: 55
`)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || !cfg.Debug {
		t.Fatalf("top-level overrides not applied: %+v", cfg)
	}
	params := cfg.Params()
	if params.UrgencyMax != 55 {
		t.Fatalf("expected urgency override 55, got %v", params.UrgencyMax)
	}
	// Untouched fields keep the stock values.
	stock := scoring.DefaultParams()
	if params.UrgencyWindowDays != stock.UrgencyWindowDays || params.ARRSaturation != stock.ARRSaturation {
		t.Fatalf("partial override clobbered defaults: %+v", params)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http_addr: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
