package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridexp/internal/settings"
)

const sampleYAML = `
name: sweep
description: two systems, one fault batch
documented: false
horizon: 50
step: 0.05
disturbance_window: 2
error_voltages: [0.75, 1.15]
settings:
  NB_THREADS: 4
  NEWTON_TOLER: [0.01, 0.01, 0.001]
  OMEGA_REF: SYN
solver:
  disc_method: TR
systems:
  - tag: nordic
    file: testdata/nordic.dat
  - tag: ieee39
    file: testdata/ieee39.dat
disturbances:
  - tag: fault
    events:
      - time: 1.0
        directive: FAULT BUS B1 0 0.1
      - time: 0.5
        directive: TRIP LINE L1
observables:
  - category: BUS
    target: B1
  - category: BUS
    target: B1
  - category: SYNC
    target: g2
    quantity: omega
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndBuild(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "sweep" {
		t.Errorf("name: got %s", cfg.Name)
	}

	exp, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// 2 systems x 1 disturbance batch x implicit controller batch x
	// built-in randomization.
	cases := exp.Cases()
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if exp.Horizon() != 50 {
		t.Errorf("horizon: got %v", exp.Horizon())
	}
	if exp.Step() != 0.05 {
		t.Errorf("step: got %v", exp.Step())
	}
	if lo, hi := exp.ErrorVoltages(); lo != 0.75 || hi != 1.15 {
		t.Errorf("error voltages: got (%v, %v)", lo, hi)
	}

	if !strings.Contains(exp.SettingsText(), "0.01 0.01 0.001") {
		t.Error("tuple setting not applied")
	}
	if !strings.Contains(exp.SolverAndHorizonText(), "CONTINUE SOLVER TR") {
		t.Error("solver method not applied")
	}

	// The duplicate BUS B1 request collapses.
	obsText := exp.ObservablesText()
	if strings.Count(obsText, "BUS B1\n") != 1 {
		t.Errorf("observables not deduplicated:\n%s", obsText)
	}

	// Batch is sorted even though the file lists the fault first.
	batch := exp.Disturbances()[0].Batch
	if batch[0].Time() != 0.5 {
		t.Errorf("batch not sorted: first event at %v", batch[0].Time())
	}
}

func TestBuildRejectsUnknownSetting(t *testing.T) {
	text := strings.Replace(sampleYAML, "NB_THREADS", "NB_WORKERS", 1)
	cfg, err := Load(writeConfig(t, text))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, err := cfg.Build(); !errors.Is(err, settings.ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.Name != cfg.Name || len(again.Systems) != len(cfg.Systems) {
		t.Errorf("round trip lost fields: %+v", again)
	}
}
