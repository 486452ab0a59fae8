package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Probe.SequenceLength != 32 || cfg.Gestures.LongPressTicks != 2000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"probe":{"sequenceLength":64,"mismatchThreshold":4}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Probe.SequenceLength != 64 || cfg.Probe.MismatchThreshold != 4 {
		t.Fatalf("probe = %+v", cfg.Probe)
	}
	if cfg.Tick.RateHz != 1000 {
		t.Fatalf("tick rate = %d, want default 1000", cfg.Tick.RateHz)
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tick.RateHz = 0
	cfg.Storage.Backend = "tape"
	cfg.Probe.MismatchThreshold = 100
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{"tick.rateHz", "storage.backend", "mismatchThreshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "nanoKONTROL2", Type: ControllerKnobs, AutoConnect: true})
	cfg.Storage.Backend = "pebble"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.FindController("nanoKONTROL2") == nil {
		t.Fatalf("controller lost")
	}
	if len(got.AutoConnectControllers()) != 2 || got.Storage.Backend != "pebble" {
		t.Fatalf("round trip = %+v", got)
	}
}
