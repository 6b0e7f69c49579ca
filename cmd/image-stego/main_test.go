package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-stego/internal/config"
	"github.com/ironsheep/image-stego/internal/imaging"
	"github.com/ironsheep/image-stego/internal/stego"
)

// clearEnv isolates a test from configuration in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvConfigPath, config.EnvLogLevel, config.EnvSeed, config.EnvMaxPixels} {
		t.Setenv(k, "")
	}
}

func writeCover(t *testing.T, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 9), uint8(y * 13), uint8(x ^ y), 255})
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := imaging.SaveImage(path, img); err != nil {
		t.Fatalf("failed to write cover: %v", err)
	}
	return path
}

func TestParseArgs(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name  string
		args  []string
		file  string
		bits  stego.BitConfig
		msg   string
		seed  string
		brute bool
	}{
		{"comma bits", []string{"cover.png", "-l", "0,1,2"}, "cover.png", stego.BitConfig{0, 1, 2}, "", "", false},
		{"separate bits", []string{"cover.png", "-l", "0", "1", "2", "-m", "secret"}, "cover.png", stego.BitConfig{0, 1, 2}, "secret", "", false},
		{"file last", []string{"-l", "3", "0", "1", "-s", "k", "cover.BMP"}, "cover.BMP", stego.BitConfig{3, 0, 1}, "", "k", false},
		{"brute", []string{"stego.png", "-b", "-s", "seed"}, "stego.png", stego.BitConfig{}, "", "seed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}
			if opts.file != tt.file || opts.bits != tt.bits || opts.message != tt.msg || opts.seed != tt.seed || opts.brute != tt.brute {
				t.Errorf("got %+v", opts)
			}
		})
	}
}

func TestParseArgs_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"-l", "1,1,1"}},
		{"bad extension", []string{"cover.jpg", "-l", "1,1,1"}},
		{"no lsb", []string{"cover.png", "-l", "0,0,0"}},
		{"lsb out of range", []string{"cover.png", "-l", "9,0,0"}},
		{"missing lsb", []string{"cover.png", "-m", "hi"}},
		{"non ascii", []string{"cover.png", "-l", "1,1,1", "-m", "naïve"}},
		{"brute with message", []string{"cover.png", "-b", "-m", "hi"}},
		{"extra args", []string{"cover.png", "-l", "1,1,1", "other"}},
		{"unknown flag", []string{"cover.png", "-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args)
			var usage usageError
			if !errors.As(err, &usage) {
				t.Errorf("got %v, want usage error", err)
			}
		})
	}
}

func TestParseArgs_SeedFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvSeed, "env-seed")

	opts, err := parseArgs([]string{"cover.png", "-l", "1,1,1"})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if opts.seed != "env-seed" {
		t.Errorf("seed: got %q, want env-seed", opts.seed)
	}

	// An explicit empty -s overrides the environment.
	opts, err = parseArgs([]string{"cover.png", "-l", "1,1,1", "-s", ""})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if opts.seed != "" {
		t.Errorf("seed: got %q, want empty", opts.seed)
	}
}

func TestRun_RoundTrip(t *testing.T) {
	clearEnv(t)

	for _, name := range []string{"cover.png", "cover.bmp"} {
		t.Run(name, func(t *testing.T) {
			cover := writeCover(t, name, 32, 24)

			var encoded bytes.Buffer
			if err := run([]string{cover, "-l", "1,2,0", "-m", "attack at dawn", "-s", "x"}, &encoded); err != nil {
				t.Fatalf("embed failed: %v", err)
			}
			stegoPath := filepath.Join(t.TempDir(), "stego"+filepath.Ext(name))
			if err := os.WriteFile(stegoPath, encoded.Bytes(), 0o644); err != nil {
				t.Fatalf("failed to write stego image: %v", err)
			}

			var out bytes.Buffer
			if err := run([]string{stegoPath, "-l", "1", "2", "0", "-s", "x"}, &out); err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			if out.String() != "attack at dawn" {
				t.Errorf("got %q, want %q", out.String(), "attack at dawn")
			}

			out.Reset()
			if err := run([]string{stegoPath, "-b", "-s", "x"}, &out); err != nil {
				t.Fatalf("brute extract failed: %v", err)
			}
			if out.String() != "attack at dawn" {
				t.Errorf("brute: got %q, want %q", out.String(), "attack at dawn")
			}
		})
	}
}

func TestRun_PNGMagic(t *testing.T) {
	clearEnv(t)
	cover := writeCover(t, "cover.png", 16, 16)

	var encoded bytes.Buffer
	if err := run([]string{cover, "-l", "1,1,1", "-m", "x"}, &encoded); err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(encoded.Bytes())); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	clearEnv(t)
	cover := writeCover(t, "cover.png", 8, 8)
	tiny := writeCover(t, "tiny.png", 3, 3)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"overflow", []string{cover, "-l", "1,0,0", "-m", "0123456789"}, "character overflow 9"},
		{"suffix", []string{cover, "-l", "8,8,8", "-m", "x" + stego.Terminator}, "message contains the suffix " + stego.Terminator},
		{"not found", []string{cover, "-l", "1,1,1", "-s", "nothing here"}, "no embedded message found"},
		{"too small", []string{tiny, "-l", "1,1,1"}, "need more pixels 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := describe(err); got != tt.want {
				t.Errorf("describe: got %q, want %q", got, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("stdout should be empty on failure, got %d bytes", out.Len())
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&stego.CharacterOverflowError{N: 4}, "character overflow 4"},
		{fmt.Errorf("wrapped: %w", stego.ErrNoMessageFound), "no embedded message found"},
		{fmt.Errorf("%w: *image.Gray", imaging.ErrUnsupportedMode), "invalid image mode"},
		{stego.ErrNonASCII, "not ascii compatible"},
		{errors.New("disk on fire"), "disk on fire"},
	}

	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
