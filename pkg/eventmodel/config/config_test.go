package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies Config creation from maps.
func TestNew(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"with values", map[string]any{"key": "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.NotNil(t, cfg.Raw())
		})
	}
}

// TestString verifies string extraction with defaults.
func TestString(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal string
		want       string
	}{
		{"key exists", map[string]any{"root_name": "hub"}, "root_name", "root", "hub"},
		{"key missing", map[string]any{"other": "value"}, "root_name", "root", "root"},
		{"empty string", map[string]any{"root_name": ""}, "root_name", "root", ""},
		{"wrong type int", map[string]any{"root_name": 123}, "root_name", "root", "root"},
		{"nil map", nil, "root_name", "root", "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.String(tt.key, tt.defaultVal))
		})
	}
}

// TestBool verifies boolean extraction with defaults.
func TestBool(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal bool
		want       bool
	}{
		{"true value", map[string]any{"metrics": true}, "metrics", false, true},
		{"false value", map[string]any{"metrics": false}, "metrics", true, false},
		{"key missing", map[string]any{"other": true}, "metrics", true, true},
		{"wrong type string", map[string]any{"metrics": "true"}, "metrics", false, false},
		{"nil map", nil, "metrics", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Bool(tt.key, tt.defaultVal))
		})
	}
}

// TestInt verifies integer extraction with type coercion.
func TestInt(t *testing.T) {
	tests := []struct {
		name       string
		data       map[string]any
		key        string
		defaultVal int
		want       int
	}{
		{"int value", map[string]any{"max_depth": 42}, "max_depth", 0, 42},
		{"int64 value", map[string]any{"max_depth": int64(100)}, "max_depth", 0, 100},
		{"float64 whole", map[string]any{"max_depth": 50.0}, "max_depth", 0, 50},
		{"float64 fractional", map[string]any{"max_depth": 50.5}, "max_depth", 99, 99},
		{"wrong type string", map[string]any{"max_depth": "42"}, "max_depth", 99, 99},
		{"key missing", nil, "max_depth", 99, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(tt.data)
			assert.Equal(t, tt.want, cfg.Int(tt.key, tt.defaultVal))
		})
	}
}

func TestFromYAML_Malformed(t *testing.T) {
	_, err := config.FromYAML([]byte("max_depth: [1"))
	assert.ErrorContains(t, err, "parse yaml")
}

// TestFromFile verifies format detection by extension.
func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "eventmodel.YAML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("max_depth: 12\nmetrics: true\n"), 0o644))

	jsonPath := filepath.Join(tmpDir, "eventmodel.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"max_depth": 12, "metrics": true}`), 0o644))

	txtPath := filepath.Join(tmpDir, "eventmodel.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("content"), 0o644))

	for _, path := range []string{yamlPath, jsonPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cfg, err := config.FromFile(path)
			require.NoError(t, err)
			assert.Equal(t, 12, cfg.Int("max_depth", 0))
			assert.True(t, cfg.Bool("metrics", false))
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := config.FromFile(txtPath)
		assert.ErrorContains(t, err, "unsupported extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(tmpDir, "missing.yaml"))
		assert.ErrorContains(t, err, "read settings file")
	})

	t.Run("malformed file names the path", func(t *testing.T) {
		bad := filepath.Join(tmpDir, "broken.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
		_, err := config.FromFile(bad)
		assert.ErrorContains(t, err, bad)
		assert.ErrorContains(t, err, "parse json")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := config.FromJSON([]byte("{"))
		assert.ErrorContains(t, err, "parse json")
	})
}
