// Package preset stores engine parameters as JSON files.
package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olivierh59500/surface-tension-go/fluid"
)

// Load reads a preset. Fields missing from the file keep the defaults for a
// domain of the given size and particle count.
func Load(path string, count int, width, height float64) (fluid.Config, error) {
	cfg := fluid.DefaultConfig(count, width, height)
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read preset: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON.
func Save(path string, cfg fluid.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
