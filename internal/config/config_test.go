package config

import (
	"path/filepath"
	"testing"

	"github.com/cookiew/ilqgames/internal/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Scenario == "" {
		t.Error("default scenario should be set")
	}
	if err := cfg.Solver.Validate(); err != nil {
		t.Errorf("default solver params should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "overtaking"
	cfg.Steps = 42
	cfg.Solver.MaxIterations = 7
	cfg.Solver.Merit = solver.MeritMax
	cfg.Solver.TrustRegionDimensions = []int{0, 1, 4, 5}
	cfg.Receding.FinalTime = 3.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Scenario != "overtaking" || loaded.Steps != 42 {
		t.Errorf("scenario/steps mismatch: %+v", loaded)
	}
	if loaded.Solver.MaxIterations != 7 || loaded.Solver.Merit != solver.MeritMax {
		t.Errorf("solver params mismatch: %+v", loaded.Solver)
	}
	if len(loaded.Solver.TrustRegionDimensions) != 4 {
		t.Errorf("trust region dims mismatch: %v", loaded.Solver.TrustRegionDimensions)
	}
	if loaded.Receding.FinalTime != 3.5 {
		t.Errorf("receding config mismatch: %+v", loaded.Receding)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
