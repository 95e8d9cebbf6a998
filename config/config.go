package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kastheco/hisect/log"
)

const (
	ConfigFileName = "config.json"
	appDirName     = "hisect"
)

var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[0-9]{1,3})$`)

// GetConfigDir returns the path to the application's configuration directory.
// Honors $XDG_CONFIG_HOME, else ~/.config/hisect/.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// Colors is the palette used to paint marker rows.
type Colors struct {
	Foreground          string `json:"foreground" toml:"foreground"`
	Background          string `json:"background" toml:"background"`
	HighlightForeground string `json:"highlight_foreground" toml:"highlight_foreground"`
	HighlightBackground string `json:"highlight_background" toml:"highlight_background"`
}

// DefaultColors is white on black, highlighted white on yellow.
func DefaultColors() Colors {
	return Colors{
		Foreground:          "#FFFFFF",
		Background:          "#000000",
		HighlightForeground: "#FFFFFF",
		HighlightBackground: "#FFFF00",
	}
}

// Validate reports the first color that is neither a hex code nor an ANSI index.
func (c Colors) Validate() error {
	for name, v := range map[string]string{
		"foreground":           c.Foreground,
		"background":           c.Background,
		"highlight_foreground": c.HighlightForeground,
		"highlight_background": c.HighlightBackground,
	} {
		if !colorRegex.MatchString(v) {
			return fmt.Errorf("invalid %s color %q", name, v)
		}
	}
	return nil
}

// Config represents the application configuration
type Config struct {
	// AutoTagOnRegister tags every newly registered marker as editor-only.
	AutoTagOnRegister bool `json:"auto_tag_on_register"`
	// AutoYes accepts every confirmation prompt (refresh, clear) without asking.
	AutoYes bool `json:"auto_yes"`
	// Colors is the marker row palette.
	Colors Colors `json:"colors"`
	// TelemetryEnabled controls whether crash reporting via Sentry is active.
	// Defaults to true when not set.
	TelemetryEnabled *bool `json:"telemetry_enabled,omitempty"`
	// DataDir holds the document and audit databases. Defaults to the config dir.
	DataDir string `json:"data_dir,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Colors: DefaultColors(),
	}
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// ResetColors restores the default palette.
func (c *Config) ResetColors() {
	c.Colors = DefaultColors()
}

// DataPath returns the directory for databases, creating nothing.
func (c *Config) DataPath() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return GetConfigDir()
}

// DocumentsDBPath is the SQLite file holding stored outlines.
func (c *Config) DocumentsDBPath() (string, error) {
	dir, err := c.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "documents.db"), nil
}

// AuditDBPath is the SQLite file holding the reconciliation audit trail.
func (c *Config) AuditDBPath() (string, error) {
	dir, err := c.DataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.db"), nil
}

func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}
	return LoadConfigFrom(configDir)
}

// LoadConfigFrom reads config.json from dir, writing defaults on first run, and
// overlays config.toml when present.
func LoadConfigFrom(configDir string) *Config {
	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfigTo(defaultCfg, configDir); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			applyTOML(defaultCfg, configDir)
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}

	applyTOML(config, configDir)

	if err := config.Colors.Validate(); err != nil {
		log.WarningLog.Printf("%v, using default colors", err)
		config.ResetColors()
	}
	return config
}

// applyTOML overlays config.toml; TOML wins for every key it sets.
func applyTOML(config *Config, configDir string) {
	tc, err := LoadTOMLConfig(filepath.Join(configDir, TOMLConfigFileName))
	if err != nil {
		log.WarningLog.Printf("failed to load TOML config: %v", err)
		return
	}
	if tc != nil {
		tc.Apply(config)
	}
}

// saveConfigTo saves the configuration to dir
func saveConfigTo(config *Config, configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveConfig writes config.json into the config directory.
func SaveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	return saveConfigTo(config, configDir)
}

// SaveConfigTo writes config.json into dir.
func SaveConfigTo(config *Config, configDir string) error {
	return saveConfigTo(config, configDir)
}
