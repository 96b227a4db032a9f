package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Execution.MaxCycles != DefaultConfig().Execution.MaxCycles {
		t.Fatalf("expected default MaxCycles, got %d", cfg.Execution.MaxCycles)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 42
	cfg.Trace.FilterRegs = "x1,x2"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Execution.MaxCycles != 42 {
		t.Fatalf("MaxCycles = %d, want 42", loaded.Execution.MaxCycles)
	}
	if loaded.Trace.FilterRegs != "x1,x2" {
		t.Fatalf("FilterRegs = %q, want %q", loaded.Trace.FilterRegs, "x1,x2")
	}
}
