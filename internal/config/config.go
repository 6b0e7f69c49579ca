// Package config loads image-stego defaults from an optional YAML file and
// the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ironsheep/image-stego/internal/stego"
)

// Environment variables recognised by Load.
const (
	EnvConfigPath = "IMAGE_STEGO_CONFIG"
	EnvLogLevel   = "IMAGE_STEGO_LOG_LEVEL"
	EnvSeed       = "IMAGE_STEGO_SEED"
	EnvMaxPixels  = "IMAGE_STEGO_MAX_PIXELS"
)

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	// Bits is the default per-channel bit configuration as "R,G,B".
	Bits string `yaml:"bits"`

	// Seed is the default pixel-order seed. Empty means sequential order.
	Seed string `yaml:"seed"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`

	// MinPixels and MaxPixels bound the images that will be decoded.
	MinPixels int `yaml:"min_pixels"`
	MaxPixels int `yaml:"max_pixels"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Bits:      "1,1,1",
		LogLevel:  "info",
		MinPixels: 16,
		MaxPixels: 89_478_485,
	}
}

// Load reads the YAML file at path, or at $IMAGE_STEGO_CONFIG when path is
// empty, then applies environment overrides. A missing file is not an error
// and is only reported at debug level.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	missing := false
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			missing = true
		case err != nil:
			return Config{}, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
		default:
			if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		cfg.Seed = v
	}
	if v := os.Getenv(EnvMaxPixels); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvMaxPixels, v, err)
		}
		cfg.MaxPixels = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if missing && cfg.Debug() {
		log.Printf("Configuration file '%s' not found. Using defaults.", path)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := stego.ParseBitConfig(c.Bits); err != nil {
		return fmt.Errorf("invalid bits %q: %w", c.Bits, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "info", "debug":
	default:
		return fmt.Errorf("invalid log_level %q (want info or debug)", c.LogLevel)
	}
	if c.MinPixels < 0 || c.MaxPixels < 0 {
		return fmt.Errorf("pixel limits must not be negative")
	}
	if c.MaxPixels > 0 && c.MinPixels > c.MaxPixels {
		return fmt.Errorf("min_pixels %d exceeds max_pixels %d", c.MinPixels, c.MaxPixels)
	}
	return nil
}

// BitConfig returns the parsed Bits value. Only valid after Validate.
func (c Config) BitConfig() stego.BitConfig {
	cfg, _ := stego.ParseBitConfig(c.Bits)
	return cfg
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
