package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: local
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, 8192, cfg.Sweep.NrBlocks)
	assert.Equal(t, 10000, cfg.Sweep.HitsPerGeneration)
	assert.Equal(t, 100, cfg.Sweep.NrGenerations)
	assert.Equal(t, 64, cfg.Sweep.DefaultLevels)
	assert.Equal(t, "smqctl", cfg.Telemetry.ServiceName)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
sweep:
  output_dir: "/tmp/sweep"
  nr_blocks: 4096
  default_levels: 32
  gzip: true
storage:
  type: local
  local_path: /tmp/storage
serve:
  addr: ":9090"
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sweep", cfg.Sweep.OutputDir)
	assert.Equal(t, 4096, cfg.Sweep.NrBlocks)
	assert.Equal(t, 32, cfg.Sweep.DefaultLevels)
	assert.True(t, cfg.Sweep.Gzip)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
}

func TestLoad_InvalidStorageType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: s3
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	_, err = Load(configFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestLoad_COSWithCredentials(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
storage:
  type: cos
  bucket: test-bucket
  region: ap-guangzhou
  secret_id: test-id
  secret_key: test-key
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestValidate_InvalidNrBlocks(t *testing.T) {
	cfg := &Config{
		Sweep: SweepConfig{
			NrBlocks:          0,
			DefaultLevels:     64,
			HitsPerGeneration: 10000,
			NrGenerations:     100,
		},
		Storage: StorageConfig{Type: "local"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nr_blocks must be at least 1")
}

func TestValidate_InvalidLevelCount(t *testing.T) {
	cfg := &Config{
		Sweep: SweepConfig{
			NrBlocks:          8192,
			DefaultLevels:     0,
			HitsPerGeneration: 10000,
			NrGenerations:     100,
		},
		Storage: StorageConfig{Type: "local"},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default_levels must be at least 1")
}

func TestEnsureOutputDir(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "sweep", "out")

	cfg := &Config{
		Sweep: SweepConfig{OutputDir: outputDir},
	}

	err := cfg.EnsureOutputDir()
	require.NoError(t, err)

	_, err = os.Stat(outputDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoadFromReader(t *testing.T) {
	content := []byte(`
sweep:
  nr_blocks: 1024
storage:
  type: local
`)
	cfg, err := LoadFromReader("yaml", content)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Sweep.NrBlocks)
}
