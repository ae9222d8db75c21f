// Package config loads the assembler configuration from a TOML file, with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Config represents the assembler configuration
type Config struct {
	// Assembler settings
	Assembler struct {
		WarnUnusedLabels bool   `toml:"warn_unused_labels"`
		WarnUnusedMacros bool   `toml:"warn_unused_macros"`
		DefaultExtension string `toml:"default_extension"`
	} `toml:"assembler"`

	// Display settings
	Display struct {
		ColorOutput  bool `toml:"color_output"`
		BytesPerLine int  `toml:"bytes_per_line"`
	} `toml:"display"`

	// API server settings
	Server struct {
		Port          int `toml:"port"`
		MaxSourceSize int `toml:"max_source_size"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.WarnUnusedLabels = true
	cfg.Assembler.WarnUnusedMacros = true
	cfg.Assembler.DefaultExtension = ".rom"

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16

	cfg.Server.Port = 8080
	cfg.Server.MaxSourceSize = 1 << 20 // 1MB

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\uxnasm\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "uxnasm")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/uxnasm/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "uxnasm")

	default:
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the configuration file, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = GetConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// applyEnvironment overrides configuration values from UXNASM_* variables.
func (c *Config) applyEnvironment() {
	if env.Has("UXNASM_WARN_UNUSED_LABELS") {
		c.Assembler.WarnUnusedLabels = env.Bool("UXNASM_WARN_UNUSED_LABELS")
	}
	if env.Has("UXNASM_WARN_UNUSED_MACROS") {
		c.Assembler.WarnUnusedMacros = env.Bool("UXNASM_WARN_UNUSED_MACROS")
	}
	if env.Has("UXNASM_COLOR") {
		c.Display.ColorOutput = env.Bool("UXNASM_COLOR")
	}
	c.Display.BytesPerLine = env.Int("UXNASM_BYTES_PER_LINE", c.Display.BytesPerLine)
	c.Server.Port = env.Int("UXNASM_PORT", c.Server.Port)
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
