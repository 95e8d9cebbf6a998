package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const TOMLConfigFileName = "config.toml"

// TOMLColors is the [colors] table. Unset keys keep the JSON value.
type TOMLColors struct {
	Foreground          string `toml:"foreground,omitempty"`
	Background          string `toml:"background,omitempty"`
	HighlightForeground string `toml:"highlight_foreground,omitempty"`
	HighlightBackground string `toml:"highlight_background,omitempty"`
}

// TOMLConfig is the hand-edited overlay for config.json.
type TOMLConfig struct {
	AutoTagOnRegister *bool       `toml:"auto_tag_on_register,omitempty"`
	AutoYes           *bool       `toml:"auto_yes,omitempty"`
	TelemetryEnabled  *bool       `toml:"telemetry_enabled,omitempty"`
	DataDir           string      `toml:"data_dir,omitempty"`
	Colors            *TOMLColors `toml:"colors,omitempty"`
}

// LoadTOMLConfig reads the overlay at path. A missing file is not an error and
// yields nil.
func LoadTOMLConfig(path string) (*TOMLConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadTOMLConfigFrom(path)
}

// LoadTOMLConfigFrom reads and decodes the TOML file at path.
func LoadTOMLConfigFrom(path string) (*TOMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read toml config: %w", err)
	}
	var tc TOMLConfig
	if _, err := toml.Decode(string(data), &tc); err != nil {
		return nil, fmt.Errorf("parse toml config %s: %w", path, err)
	}
	return &tc, nil
}

// SaveTOMLConfigTo encodes tc into path, creating the directory if needed.
func SaveTOMLConfigTo(tc *TOMLConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tc); err != nil {
		return fmt.Errorf("encode toml config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Apply overlays the keys set in tc onto cfg.
func (tc *TOMLConfig) Apply(cfg *Config) {
	if tc.AutoTagOnRegister != nil {
		cfg.AutoTagOnRegister = *tc.AutoTagOnRegister
	}
	if tc.AutoYes != nil {
		cfg.AutoYes = *tc.AutoYes
	}
	if tc.TelemetryEnabled != nil {
		cfg.TelemetryEnabled = tc.TelemetryEnabled
	}
	if tc.DataDir != "" {
		cfg.DataDir = tc.DataDir
	}
	if c := tc.Colors; c != nil {
		if c.Foreground != "" {
			cfg.Colors.Foreground = c.Foreground
		}
		if c.Background != "" {
			cfg.Colors.Background = c.Background
		}
		if c.HighlightForeground != "" {
			cfg.Colors.HighlightForeground = c.HighlightForeground
		}
		if c.HighlightBackground != "" {
			cfg.Colors.HighlightBackground = c.HighlightBackground
		}
	}
}
