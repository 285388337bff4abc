package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const renewalYAML = `
id: renewal-standard
name: Standard Renewal
category: renewal
slide_sequence:
  - greeting
  - review
  - quote
  - summary
slide_contexts:
  quote:
    emphasis: value
settings:
  layout: split
  features:
    artifact_panel: true
`

func writeComposition(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(strings.TrimSpace(body)), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseYAML(t *testing.T) {
	comp, err := ParseYAML([]byte(strings.TrimSpace(renewalYAML)))
	if err != nil {
		t.Fatalf("ParseYAML returned error: %v", err)
	}
	if comp.ID != "renewal-standard" || len(comp.SlideSequence) != 4 {
		t.Fatalf("unexpected composition: %+v", comp)
	}
	if comp.SlideContexts["quote"]["emphasis"] != "value" {
		t.Fatalf("slide context not decoded: %+v", comp.SlideContexts)
	}
	if comp.Settings == nil || !comp.Settings.Features["artifact_panel"] {
		t.Fatalf("settings not decoded: %+v", comp.Settings)
	}
}

func TestParseYAMLRejectsBadInput(t *testing.T) {
	if _, err := ParseYAML([]byte("   ")); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := ParseYAML([]byte("name: No ID\n")); err == nil {
		t.Fatal("expected error for missing id")
	}
	if _, err := ParseYAML([]byte("id: [broken")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeComposition(t, dir, "renewal.yaml", renewalYAML)
	writeComposition(t, dir, "risk.yml", `
id: risk-response
name: Risk Response
slide_sequence:
  - greeting
  - risk-assessment
  - summary
`)
	// Non-YAML files are ignored.
	writeComposition(t, dir, "notes.txt", "not a composition")

	comps, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("expected 2 compositions, got %d", len(comps))
	}
	if _, ok := comps["risk-response"]; !ok {
		t.Fatalf("risk-response missing: %v", comps)
	}
}

func TestLoadDirRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeComposition(t, dir, "a.yaml", renewalYAML)
	writeComposition(t, dir, "b.yaml", renewalYAML)
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	comp, err := ParseYAML([]byte(strings.TrimSpace(renewalYAML)))
	if err != nil {
		t.Fatal(err)
	}
	clone := comp.Clone()
	clone.SlideSequence[0] = "changed"
	clone.SlideContexts["quote"]["emphasis"] = "mutated"
	clone.Settings.Features["artifact_panel"] = false

	if comp.SlideSequence[0] != "greeting" {
		t.Fatal("clone aliased the sequence")
	}
	if comp.SlideContexts["quote"]["emphasis"] != "value" {
		t.Fatal("clone aliased the contexts")
	}
	if !comp.Settings.Features["artifact_panel"] {
		t.Fatal("clone aliased the settings")
	}
}
