package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/boardpose/internal/detector"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() should be valid: %v", err)
	}

	if cfg.Board.Cols != 8 || cfg.Board.Rows != 6 || cfg.Board.CellSize != 0.025 {
		t.Errorf("Board = %+v, want 8x6 with 0.025 cells", cfg.Board)
	}
	if cfg.Intrinsics.Fx != 967.46860897 || cfg.Intrinsics.Cy != 535.37527144 {
		t.Errorf("Intrinsics = %+v", cfg.Intrinsics)
	}
	if cfg.Distortion.K3 != -0.01620528 {
		t.Errorf("Distortion = %+v", cfg.Distortion)
	}
	if cfg.Window != DefaultWindow || cfg.KeyDelayMs != 10 {
		t.Errorf("display = %q/%d", cfg.Window, cfg.KeyDelayMs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty input", mutate: func(c *Config) { c.Input = "" }},
		{name: "empty window", mutate: func(c *Config) { c.Window = "" }},
		{name: "zero key delay", mutate: func(c *Config) { c.KeyDelayMs = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "degenerate board", mutate: func(c *Config) { c.Board = detector.Board{Cols: 1, Rows: 6, CellSize: 0.025} }},
		{name: "zero cell size", mutate: func(c *Config) { c.Board.CellSize = 0 }},
		{name: "zero focal length", mutate: func(c *Config) { c.Intrinsics.Fx = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvWindow:     "Preview",
		EnvKeyDelayMs: " 25 ",
		EnvLogLevel:   "DEBUG",
		EnvLogFile:    "/tmp/boardpose.log",
		EnvRefine:     "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}

	if cfg.Window != "Preview" {
		t.Errorf("Window = %q, want Preview", cfg.Window)
	}
	if cfg.KeyDelayMs != 25 {
		t.Errorf("KeyDelayMs = %d, want 25", cfg.KeyDelayMs)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFile != "/tmp/boardpose.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.RefineCorners {
		t.Error("RefineCorners should be false")
	}

	// Calibration is not affected by the environment.
	if cfg.Intrinsics != Default().Intrinsics {
		t.Error("Intrinsics changed")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "non-numeric delay", key: EnvKeyDelayMs, val: "fast"},
		{name: "non-boolean refine", key: EnvRefine, val: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tt.key {
					return tt.val, true
				}
				return "", false
			}
			cfg := Default()
			if err := cfg.applyEnv(lookup); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte(EnvKeyDelayMs+"=40\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	// godotenv does not override variables that are already set.
	os.Unsetenv(EnvKeyDelayMs)
	t.Cleanup(func() { os.Unsetenv(EnvKeyDelayMs) })

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.KeyDelayMs != 40 {
		t.Errorf("KeyDelayMs = %d, want 40", cfg.KeyDelayMs)
	}
}

func TestLoad_MissingNamedEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoad_DefaultEnvFile(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() without %s error = %v", DefaultEnvFile, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("loaded config invalid: %v", err)
		}
	})

	t.Run("present", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte(EnvKeyDelayMs+"=25\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		chdir(t, dir)
		os.Unsetenv(EnvKeyDelayMs)
		t.Cleanup(func() { os.Unsetenv(EnvKeyDelayMs) })

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.KeyDelayMs != 25 {
			t.Errorf("KeyDelayMs = %d, want 25", cfg.KeyDelayMs)
		}
	})
}

func TestDetectorConfig(t *testing.T) {
	cfg := Default()
	cfg.RefineCorners = false

	dc := cfg.DetectorConfig()
	if dc.Board != cfg.Board {
		t.Errorf("Board = %+v, want %+v", dc.Board, cfg.Board)
	}
	if dc.Refine {
		t.Error("Refine should follow RefineCorners")
	}
	if dc.Flags != detector.DefaultFlags {
		t.Errorf("Flags = %v, want DefaultFlags", dc.Flags)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}
