package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UnitFile is the name of the serialized unit inside its directory.
const UnitFile = "unit.json"

// RunConfig carries the external runner options recorded with each unit.
type RunConfig struct {
	Trajectories int    `json:"trajectories"`
	SaveAll      bool   `json:"save_all"`
	Deviations   bool   `json:"deviations"`
	Comparison   string `json:"comparison"`
}

// Unit is one serialized simulation: the model it runs plus, once the
// external runner has finished, its per-condition comparison outcomes.
// Outcome is nil until the run step has executed.
type Unit struct {
	Index   int               `json:"index"`
	Model   *Model            `json:"model"`
	Config  RunConfig         `json:"config"`
	Outcome map[string]Result `json:"outcome,omitempty"`
}

// Save serializes the unit into dir, creating the directory if needed.
// The external runner later rewrites the same file with Outcome populated.
func (u *Unit) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal unit: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, UnitFile), data, 0o644); err != nil {
		return fmt.Errorf("write unit: %w", err)
	}
	return nil
}

// LoadUnit reads a serialized unit back from dir.
func LoadUnit(dir string) (*Unit, error) {
	data, err := os.ReadFile(filepath.Join(dir, UnitFile))
	if err != nil {
		return nil, fmt.Errorf("read unit: %w", err)
	}
	var u Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse unit: %w", err)
	}
	return &u, nil
}
