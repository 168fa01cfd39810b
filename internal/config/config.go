// Package config manages the per-user application directory and the global
// config file, a TOML file owned by the user that supplies alternate defaults
// for the command line interface.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	dirName  = ".neurotic"
	fileName = "neurotic-config.txt"
)

// Defaults are the built-in values used by the command line interface when
// neither a flag nor the global config file overrides them.
type Defaults struct {
	File         string `toml:"file"`
	Dataset      string `toml:"dataset"`
	Debug        bool   `toml:"debug"`
	Lazy         bool   `toml:"lazy"`
	ThickTraces  bool   `toml:"thick_traces"`
	ShowDatetime bool   `toml:"show_datetime"`
	UIScale      string `toml:"ui_scale"`
	Theme        string `toml:"theme"`
}

type GlobalConfig struct {
	Defaults Defaults `toml:"defaults"`
}

func builtin() GlobalConfig {
	return GlobalConfig{
		Defaults: Defaults{
			Lazy:    true,
			UIScale: "medium",
			Theme:   "light",
		},
	}
}

// Dir returns the per-user application directory, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app directory: %w", err)
	}
	return dir, nil
}

// Path returns the location of the global config file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

// Load reads the global config file under dir, writing a commented-out
// template first if the file does not exist yet. Values present in the file
// replace the built-in defaults; everything else keeps its built-in value.
func Load(dir string) (GlobalConfig, error) {
	cfg := builtin()
	path := Path(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeTemplate(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	// Decode over the built-ins so absent keys keep their defaults.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return builtin(), fmt.Errorf("failed to read global config %s: %w", path, err)
	}
	return cfg, nil
}

// writeTemplate serializes the built-in config and comments out every
// key=value line, leaving section headers and blank lines intact, so the
// template documents the available settings without changing any of them.
func writeTemplate(path string, cfg GlobalConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config template: %w", err)
	}

	var out strings.Builder
	out.WriteString("# neurotic global config\n")
	out.WriteString("# Uncomment lines below to change the defaults used by the CLI.\n\n")
	for _, line := range strings.Split(buf.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			out.WriteString(line)
		} else {
			out.WriteString("# " + line)
		}
		out.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(out.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}
