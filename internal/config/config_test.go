package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesReferenceMachine(t *testing.T) {
	cfg := Default()
	if cfg.BeamSize != 1 {
		t.Errorf("BeamSize = %d, want 1", cfg.BeamSize)
	}
	if cfg.Machine.Parallelism != 8 {
		t.Errorf("Parallelism = %d, want 8", cfg.Machine.Parallelism)
	}
	if cfg.Machine.LastLevelCacheBytes != 16*1024*1024 {
		t.Errorf("LastLevelCacheBytes = %d, want 16 MiB", cfg.Machine.LastLevelCacheBytes)
	}
	if cfg.Machine.Balance != 100 {
		t.Errorf("Balance = %v, want 100", cfg.Machine.Balance)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load of a missing file = %+v, want Default()", cfg)
	}
}

func TestLoadOverlaysTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosched.toml")
	contents := "beam-size = 32\nparallelism = 4\nbalance = 50\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BeamSize != 32 {
		t.Errorf("BeamSize = %d, want 32", cfg.BeamSize)
	}
	if cfg.Machine.Parallelism != 4 {
		t.Errorf("Parallelism = %d, want 4", cfg.Machine.Parallelism)
	}
	if cfg.Machine.Balance != 50 {
		t.Errorf("Balance = %v, want 50", cfg.Machine.Balance)
	}
	// Untouched by the file, should keep the default.
	if cfg.Machine.LastLevelCacheBytes != 16*1024*1024 {
		t.Errorf("LastLevelCacheBytes = %d, want the default", cfg.Machine.LastLevelCacheBytes)
	}
}

func TestEnvVarsOverrideTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosched.toml")
	if err := os.WriteFile(path, []byte("beam-size = 32\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("HL_BEAM_SIZE", "7")
	t.Setenv("HL_AUTO_SCHEDULE_TIME_LIMIT", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BeamSize != 7 {
		t.Errorf("BeamSize = %d, want the env override of 7", cfg.BeamSize)
	}
	if cfg.TimeLimit.Seconds() != 2.5 {
		t.Errorf("TimeLimit = %v, want 2.5s", cfg.TimeLimit)
	}
}

func TestLoadRejectsMalformedEnvBeamSize(t *testing.T) {
	t.Setenv("HL_BEAM_SIZE", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a non-numeric HL_BEAM_SIZE")
	}
}
