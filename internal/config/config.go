// Package config loads the compiler's optional jackc.yaml file. Its
// absence is not an error: every field defaults to the behavior spec.md
// describes as the compiler's default (write .vm alongside the source,
// colored diagnostics, non-verbose).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls ambient driver behavior. None of its fields change
// compiled VM output -- only where it is written and how much the driver
// narrates about writing it.
type Config struct {
	// OutputDir, if non-empty, is where .vm files are written instead of
	// alongside their .jack source.
	OutputDir string `yaml:"outputDir"`
	// Verbose echoes each compiled file and its emitted instruction count.
	Verbose bool `yaml:"verbose"`
	// ColorDiagnostics toggles ANSI coloring of driver output.
	ColorDiagnostics bool `yaml:"colorDiagnostics"`
}

// Default returns the configuration a bare `jackc <path>` invocation uses.
func Default() Config {
	return Config{ColorDiagnostics: true}
}

// Load reads and parses a jackc.yaml file at path. A missing file is not
// an error: Load returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
