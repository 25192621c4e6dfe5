package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRunProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campaign.yaml")
	content := `
seed: 42
iterations: 100
hier: true
hier_config:
  depth: 3
  min_child: 2
  max_child: 3
  root_prefix: true
tools:
  - icarus
  - CompareSim
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadRunProfile(path)
	if err != nil {
		t.Fatalf("LoadRunProfile: %v", err)
	}
	if p.Seed != 42 || p.Iterations != 100 || !p.UseHier {
		t.Fatalf("unexpected top-level fields: %+v", p)
	}
	if p.Hier.Depth != 3 || p.Hier.MinChild != 2 || p.Hier.MaxChild != 3 || !p.Hier.RootPrefix {
		t.Fatalf("unexpected hier config: %+v", p.Hier)
	}
	if len(p.Tools) != 2 || p.Tools[0] != "icarus" || p.Tools[1] != "CompareSim" {
		t.Fatalf("unexpected tools: %v", p.Tools)
	}
}

func TestLoadRunProfileMissingFile(t *testing.T) {
	if _, err := LoadRunProfile("/nonexistent/campaign.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
