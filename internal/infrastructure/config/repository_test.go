package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/infrastructure/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	repo := config.NewRepository()

	cfg, err := repo.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultConfig(), cfg)
}

func TestLoad_ParsesAndExpandsEnv(t *testing.T) {
	t.Setenv("ZIPCOMPRESSOR_TEST_GS", "/opt/gs/bin/gs")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
compression:
  level: high
  algorithm: ghostscript
  document_extensions: [".pdf", ".ai"]
engine:
  binary: ${ZIPCOMPRESSOR_TEST_GS}
processing:
  parallel_workers: 3
  timeout_seconds: 30
output:
  prefix: small_
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.NewRepository().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "high", cfg.Compression.Level)
	assert.Equal(t, []string{".pdf", ".ai"}, cfg.Compression.DocumentExtensions)
	assert.Equal(t, "/opt/gs/bin/gs", cfg.Engine.Binary)
	assert.Equal(t, 3, cfg.Processing.ParallelWorkers)
	assert.Equal(t, 30, cfg.Processing.TimeoutSeconds)
	assert.Equal(t, "small_", cfg.Output.Prefix)
	// Незаданные поля остаются по умолчанию
	assert.Equal(t, 10000, cfg.Processing.MaxEntries)
	assert.Equal(t, "info", cfg.Output.LogLevel)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression:\n  algorithm: zopfli\n"), 0644))

	_, err := config.NewRepository().Load(path)
	assert.ErrorIs(t, err, entities.ErrInvalidEngine)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression: [oops"), 0644))

	_, err := config.NewRepository().Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	repo := config.NewRepository()

	original := entities.DefaultConfig()
	original.Compression.Algorithm = entities.EnginePDFCPU
	original.Scanner.SourceDirectory = "/data/in"
	require.NoError(t, repo.Save(path, original))

	loaded, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
