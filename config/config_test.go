package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
trainer:
  id: 7
  name: ASH
storage:
  capacity: 128
  evict: true
telemetry:
  addr: "0.0.0.0:9000"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Trainer.ID != 7 || c.Trainer.Name != "ASH" {
		t.Errorf("trainer = %+v, want id=7 name=ASH", c.Trainer)
	}
	if c.Storage.Capacity != 128 || !c.Storage.Evict {
		t.Errorf("storage = %+v", c.Storage)
	}
	if c.Telemetry.Addr != "0.0.0.0:9000" {
		t.Errorf("telemetry addr = %q", c.Telemetry.Addr)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultIsUsable(t *testing.T) {
	c := Default()
	if c.Trainer.Name == "" || c.Storage.Capacity == 0 || c.Telemetry.Addr == "" {
		t.Errorf("Default left a zero value: %+v", c)
	}
}
