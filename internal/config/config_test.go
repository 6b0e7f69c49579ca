package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-stego/internal/stego"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stego.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
	if cfg.BitConfig() != (stego.BitConfig{1, 1, 1}) {
		t.Errorf("BitConfig: got %v, want 1,1,1", cfg.BitConfig())
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")

	path := writeConfig(t, "bits: \"2,0,3\"\nseed: hunter2\nlog_level: debug\nmax_pixels: 1000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BitConfig() != (stego.BitConfig{2, 0, 3}) {
		t.Errorf("BitConfig: got %v, want 2,0,3", cfg.BitConfig())
	}
	if cfg.Seed != "hunter2" {
		t.Errorf("Seed: got %q, want hunter2", cfg.Seed)
	}
	if !cfg.Debug() {
		t.Error("Debug should be enabled")
	}
	if cfg.MaxPixels != 1000 || cfg.MinPixels != 16 {
		t.Errorf("limits: got %d-%d, want 16-1000", cfg.MinPixels, cfg.MaxPixels)
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")
	t.Setenv(EnvConfigPath, writeConfig(t, "seed: from-file\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != "from-file" {
		t.Errorf("Seed: got %q, want from-file", cfg.Seed)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "seed: from-file\nlog_level: info\n")
	t.Setenv(EnvSeed, "from-env")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMaxPixels, "5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != "from-env" {
		t.Errorf("Seed: got %q, want from-env", cfg.Seed)
	}
	if !cfg.Debug() {
		t.Error("env log level should win")
	}
	if cfg.MaxPixels != 5000 {
		t.Errorf("MaxPixels: got %d, want 5000", cfg.MaxPixels)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

// captureLog redirects the standard logger for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestLoad_MissingFileQuietUnlessDebug(t *testing.T) {
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")
	absent := filepath.Join(t.TempDir(), "absent.yaml")

	t.Setenv(EnvLogLevel, "")
	buf := captureLog(t)
	if _, err := Load(absent); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("info level should not log a missing file, got %q", buf.String())
	}

	t.Setenv(EnvLogLevel, "debug")
	if _, err := Load(absent); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("not found")) {
		t.Errorf("debug level should log a missing file, got %q", buf.String())
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "")

	tests := []struct {
		name string
		body string
	}{
		{"zero bits", "bits: \"0,0,0\"\n"},
		{"too many bits", "bits: \"9,0,0\"\n"},
		{"bad level", "log_level: loud\n"},
		{"unknown key", "colour: red\n"},
		{"not yaml", "bits: [\n"},
		{"inverted limits", "min_pixels: 100\nmax_pixels: 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestLoad_InvalidEnvMaxPixels(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvMaxPixels, "lots")
	t.Setenv(EnvConfigPath, "")

	if _, err := Load(""); err == nil {
		t.Error("Load should fail for a non-numeric max pixel override")
	}
}
