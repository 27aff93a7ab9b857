// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when --config is
// not given.
const EnvironmentVariable = "QRCLIP_CONFIG"

// Config is the master configuration for qrclip.
type Config struct {
	// Clipboard selects and tunes the clipboard backend.
	Clipboard ClipboardConfig `yaml:"clipboard"`

	// Render configures code images.
	Render RenderConfig `yaml:"render"`

	// Preferences locates the preferences file.
	Preferences PreferencesConfig `yaml:"preferences"`
}

// ClipboardConfig configures clipboard access.
type ClipboardConfig struct {
	// Backend is one of auto, wayland, xclip, xsel, tmux.
	// Default: auto
	Backend string `yaml:"backend"`

	// PollInterval is how often the clipboard is sampled for changes.
	// Default: 500ms
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout bounds each clipboard tool invocation.
	// Default: 2s
	Timeout time.Duration `yaml:"timeout"`
}

// RenderConfig configures code images.
type RenderConfig struct {
	// Border is the quiet zone width in modules.
	// Default: 2
	Border int `yaml:"border"`

	// SaveScale is the pixels per module for saved and copied PNGs.
	// Default: 5
	SaveScale int `yaml:"save_scale"`
}

// PreferencesConfig locates the preferences file.
type PreferencesConfig struct {
	// File is the preferences JSON path. Empty means qrclip.json in
	// the user configuration directory.
	File string `yaml:"file"`
}

// Backends lists the accepted clipboard.backend values.
var Backends = []string{"auto", "wayland", "xclip", "xsel", "tmux"}

// Default returns the default configuration, also used as the base
// that a configuration file is merged into.
func Default() *Config {
	return &Config{
		Clipboard: ClipboardConfig{
			Backend:      "auto",
			PollInterval: 500 * time.Millisecond,
			Timeout:      2 * time.Second,
		},
		Render: RenderConfig{
			Border:    2,
			SaveScale: 5,
		},
	}
}

// Load loads the file named by QRCLIP_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields absent
// from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Preferences.File = expandVars(c.Preferences.File, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(Backends, c.Clipboard.Backend) {
		errs = append(errs, fmt.Errorf("clipboard.backend must be one of: %v", Backends))
	}
	if c.Clipboard.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("clipboard.poll_interval must be positive"))
	}
	if c.Clipboard.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("clipboard.timeout must be positive"))
	}
	if c.Render.Border < 0 {
		errs = append(errs, fmt.Errorf("render.border must not be negative"))
	}
	if c.Render.SaveScale < 1 {
		errs = append(errs, fmt.Errorf("render.save_scale must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
