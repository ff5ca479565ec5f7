// Package app composes the domain and adapter layers into the lint
// operations the CLI exposes: project configuration, file discovery, the
// cached lint run, and the watch session.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/corey/nglint/internal/domain/rules"
)

// ConfigFileName is the per-project configuration file, read from the
// project root.
const ConfigFileName = ".nglint.yml"

// Config holds project lint settings. Zero values fall back to defaults,
// so a partial config file overrides only what it names.
type Config struct {
	// Include/Exclude are doublestar globs over slash-separated paths
	// relative to the project root.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// ComponentPrefix is the expected selector prefix for components.
	ComponentPrefix string `yaml:"component_prefix,omitempty"`

	// MaxMethodLines is the long-method threshold.
	MaxMethodLines int `yaml:"max_method_lines,omitempty"`

	// FailOn is the minimum severity that makes a run fail: "info",
	// "warning", or "error".
	FailOn string `yaml:"fail_on,omitempty"`

	// Format selects the default report format: "text", "json", "github".
	Format string `yaml:"format,omitempty"`

	// Rules maps rule IDs to severity overrides, or "off" to disable.
	Rules map[string]string `yaml:"rules,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Include:         []string{"**/*"},
		Exclude:         nil,
		ComponentPrefix: "app",
		MaxMethodLines:  75,
		FailOn:          "warning",
		Format:          "text",
	}
}

// LoadConfig reads .nglint.yml from the project root, merged over defaults.
// A missing file is not an error: defaults apply.
func LoadConfig(projectRoot string) (Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(projectRoot, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}

	if len(file.Include) > 0 {
		cfg.Include = file.Include
	}
	if len(file.Exclude) > 0 {
		cfg.Exclude = file.Exclude
	}
	if file.ComponentPrefix != "" {
		cfg.ComponentPrefix = file.ComponentPrefix
	}
	if file.MaxMethodLines > 0 {
		cfg.MaxMethodLines = file.MaxMethodLines
	}
	if file.FailOn != "" {
		cfg.FailOn = file.FailOn
	}
	if file.Format != "" {
		cfg.Format = file.Format
	}
	cfg.Rules = file.Rules

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// Validate checks glob patterns and enum fields.
func (c *Config) Validate() error {
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	if rules.SeverityFromName(c.FailOn) < 0 {
		return fmt.Errorf("invalid fail_on %q (want info, warning, or error)", c.FailOn)
	}
	switch c.Format {
	case "text", "json", "github":
	default:
		return fmt.Errorf("invalid format %q (want text, json, or github)", c.Format)
	}
	return nil
}
