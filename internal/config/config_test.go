package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Params.TimeStep <= 0 {
		t.Error("time step should be positive")
	}
	if cfg.Params.StepStretch < 1 {
		t.Error("step stretch should be at least 1")
	}
	if cfg.Params.Integrator != "rk4" {
		t.Errorf("expected default integrator rk4, got %s", cfg.Params.Integrator)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("olympus")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Motor.Propellant.Name != "knsb" {
		t.Errorf("expected knsb, got %s", cfg.Motor.Propellant.Name)
	}
	if cfg.Motor.Nozzle.ThroatDiameter != 0.037 {
		t.Errorf("expected throat 0.037, got %f", cfg.Motor.Nozzle.ThroatDiameter)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Error("expected presets")
	}
}

func TestBuildPresets(t *testing.T) {
	for name, cfg := range Presets {
		t.Run(name, func(t *testing.T) {
			sc, err := cfg.Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if sc.Motor.PropellantMass() <= 0 {
				t.Error("no propellant loaded")
			}
			if sc.Motor.Kn() <= 0 {
				t.Error("zero klemmung")
			}
		})
	}
}

func TestBuildReturnsIndependentScenarios(t *testing.T) {
	cfg := GetPreset("olympus")

	a, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	b, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}

	// Consuming one scenario's grain must not touch the other's.
	a.Motor.Grain.Regress(1)
	if !a.Motor.Grain.BurntOut() {
		t.Fatal("grain should be consumed")
	}
	if b.Motor.Grain.BurntOut() {
		t.Error("scenarios share grain state")
	}
	if a.Recovery == b.Recovery {
		t.Error("scenarios share recovery state")
	}
}

func TestBuildSegmentRepeat(t *testing.T) {
	cfg := GetPreset("olympus")
	sc, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := sc.Motor.Grain.SegmentCount(); got != 7 {
		t.Errorf("segment count = %d, want 7", got)
	}
}

func TestBuildRejectsAmbiguousSegment(t *testing.T) {
	cfg := GetPreset("olympus")
	bad := *cfg
	bad.Motor.Grain = []SegmentConfig{{}}
	if _, err := bad.Build(); err == nil {
		t.Error("expected error for segment without geometry")
	}
}

func TestBuildRejectsUnknownPropellant(t *testing.T) {
	cfg := *GetPreset("olympus")
	cfg.Motor.Propellant = PropellantConfig{Name: "unobtainium"}
	if _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown propellant")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")

	if err := Save(path, GetPreset("olympus")); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Name != "olympus" {
		t.Errorf("name = %q", loaded.Name)
	}
	if loaded.Motor.Chamber.InnerDiameter != 0.1282 {
		t.Errorf("chamber inner diameter = %f", loaded.Motor.Chamber.InnerDiameter)
	}
	if _, err := loaded.Build(); err != nil {
		t.Fatalf("loaded config does not build: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
