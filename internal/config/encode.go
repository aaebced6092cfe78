// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE renders the config in the config-file syntax.
	FormatCUE Format = "cue"
	// FormatYAML renders the config as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML renders the config as TOML.
	FormatTOML Format = "toml"
)

type (
	// Format selects the output syntax of Encode.
	Format string

	// fileView is the serialized shape of Config: durations as strings,
	// keys matching the config file.
	fileView struct {
		Interpreter  string     `yaml:"interpreter" toml:"interpreter"`
		ScriptName   string     `yaml:"script_name" toml:"script_name"`
		InstallDir   string     `yaml:"install_dir,omitempty" toml:"install_dir,omitempty"`
		Timeout      string     `yaml:"timeout" toml:"timeout"`
		StrictStderr bool       `yaml:"strict_stderr" toml:"strict_stderr"`
		UI           uiFileView `yaml:"ui" toml:"ui"`
	}

	uiFileView struct {
		ColorScheme string `yaml:"color_scheme" toml:"color_scheme"`
		Verbose     bool   `yaml:"verbose" toml:"verbose"`
	}
)

// Formats lists the accepted Encode formats.
func Formats() []Format {
	return []Format{FormatCUE, FormatYAML, FormatTOML}
}

// Encode renders cfg in the requested format.
func Encode(cfg *Config, format Format) ([]byte, error) {
	view := fileView{
		Interpreter:  cfg.Interpreter.String(),
		ScriptName:   cfg.ScriptName.String(),
		InstallDir:   cfg.InstallDir,
		Timeout:      cfg.Timeout.String(),
		StrictStderr: cfg.StrictStderr,
		UI: uiFileView{
			ColorScheme: cfg.UI.ColorScheme.String(),
			Verbose:     cfg.UI.Verbose,
		},
	}

	switch format {
	case FormatCUE, "":
		return []byte(GenerateCUE(cfg)), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return nil, fmt.Errorf("failed to encode config as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode config as yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		out, err := toml.Marshal(view)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config as toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (valid: cue, yaml, toml)", format)
	}
}
