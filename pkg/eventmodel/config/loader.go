package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decoders maps a settings file extension to its parser.
var decoders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// FromFile reads a settings file. The extension picks the format:
// .yaml and .yml are YAML, .json is JSON.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parse, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("settings file %s: unsupported extension %q", path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read settings file: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML decodes a YAML settings document.
func FromYAML(data []byte) (Config, error) {
	return decode(data, "yaml", yaml.Unmarshal)
}

// FromJSON decodes a JSON settings document.
func FromJSON(data []byte) (Config, error) {
	return decode(data, "json", json.Unmarshal)
}

func decode(data []byte, format string, unmarshal func([]byte, any) error) (Config, error) {
	var doc map[string]any
	if err := unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return New(doc), nil
}
