package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the optional CLI settings file. Core packages never read it.
type Settings struct {
	// Format of the exported model: "json" or "yaml".
	Format string `yaml:"format,omitempty"`

	// Indent is the number of spaces used by the exporter.
	Indent int `yaml:"indent,omitempty"`

	// Color controls diagnostics coloring: "auto", "always" or "never".
	Color string `yaml:"color,omitempty"`

	// History is the REPL history file. Empty disables history.
	History string `yaml:"history,omitempty"`

	// MaxCallDepth bounds nested user-function calls, 0 for no bound.
	MaxCallDepth *int `yaml:"maxCallDepth,omitempty"`

	Trace bool `yaml:"trace,omitempty"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadSettings reads path. A missing file is not an error when optional
// is set; the defaults are returned instead.
func LoadSettings(path string, optional bool) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

func ParseSettings(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) setDefaults() {
	if s.Format == "" {
		s.Format = "json"
	}
	if s.Indent == 0 {
		s.Indent = 2
	}
	if s.Color == "" {
		s.Color = "auto"
	}
	if s.MaxCallDepth == nil {
		depth := MaxCallDepth
		s.MaxCallDepth = &depth
	}
}

func (s *Settings) validate(path string) error {
	switch s.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("%s: format must be json or yaml, got %q", path, s.Format)
	}
	switch s.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be auto, always or never, got %q", path, s.Color)
	}
	if s.Indent < 0 || s.Indent > 8 {
		return fmt.Errorf("%s: indent must be between 0 and 8, got %d", path, s.Indent)
	}
	if *s.MaxCallDepth < 0 {
		return fmt.Errorf("%s: maxCallDepth must be >= 0, got %d", path, *s.MaxCallDepth)
	}
	return nil
}

// CallDepth returns the configured call depth bound.
func (s *Settings) CallDepth() int {
	if s.MaxCallDepth == nil {
		return MaxCallDepth
	}
	return *s.MaxCallDepth
}
