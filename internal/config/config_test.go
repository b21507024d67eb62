package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputDir: build\nverbose: true\ncolorDiagnostics: false\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{OutputDir: "build", Verbose: true, ColorDiagnostics: false}, cfg)
}

func TestDefault_ColorDiagnosticsOnByDefault(t *testing.T) {
	assert.True(t, Default().ColorDiagnostics)
	assert.False(t, Default().Verbose)
	assert.Empty(t, Default().OutputDir)
}
