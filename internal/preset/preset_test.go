package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	cfg := fluid.DefaultConfig(100, 400, 300)
	seed := uint64(42)
	cfg.Seed = &seed
	cfg.CohesionStrength = 123.5
	cfg.GravityY = 9.8

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path, 100, 400, 300)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Seed == nil || *got.Seed != 42 {
		t.Fatalf("Load() seed = %v, want 42", got.Seed)
	}
	got.Seed, cfg.Seed = nil, nil
	if got != cfg {
		t.Fatalf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"cohesionStrength": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, 50, 200, 200)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := fluid.DefaultConfig(50, 200, 200)
	want.CohesionStrength = 7
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json"), 10, 100, 100); err == nil || !strings.Contains(err.Error(), "read preset") {
		t.Fatalf("Load(missing) error = %v, want read preset error", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, 10, 100, 100); err == nil || !strings.Contains(err.Error(), "parse preset") {
		t.Fatalf("Load(bad) error = %v, want parse preset error", err)
	}
}
