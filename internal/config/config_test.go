package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/projectdiscovery/sentix/common/dataset"
	"github.com/projectdiscovery/sentix/common/vectorizer"
)

func TestDefault(t *testing.T) {
	t.Setenv(EnvDataset, "")

	cfg := Default()
	require.Equal(t, DefaultListen, cfg.Server.Listen)
	require.Zero(t, cfg.Server.CacheSize)
	require.Empty(t, cfg.Dataset.Path)
	require.Equal(t, dataset.DefaultTextColumn, cfg.Dataset.TextColumn)
	require.Equal(t, dataset.DefaultLabelColumn, cfg.Dataset.LabelColumn)
	require.Equal(t, dataset.DefaultTestRatio, cfg.Dataset.TestRatio)
	require.Equal(t, int64(dataset.DefaultSeed), cfg.Dataset.Seed)
	require.Equal(t, vectorizer.DefaultMaxFeatures, cfg.Model.MaxFeatures)
	require.Equal(t, vectorizer.NormL2, cfg.Model.Norm)
	require.Equal(t, DefaultThreads, cfg.Model.Threads)
	require.False(t, cfg.Model.Evaluate)
	require.Nil(t, cfg.Validate())
}

func TestDatasetFromEnv(t *testing.T) {
	t.Setenv(EnvDataset, "/data/imdb.csv")
	require.Equal(t, "/data/imdb.csv", Default().Dataset.Path)

	cfg := &Config{Dataset: Dataset{Path: "explicit.csv"}}
	cfg.ApplyDefaults()
	require.Equal(t, "explicit.csv", cfg.Dataset.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Listen = "nope"
	cfg.Server.CacheSize = -1
	cfg.Dataset.TestRatio = 1
	cfg.Model.MaxFeatures = -3
	cfg.Model.Alpha = -1
	cfg.Model.Norm = "l1"

	err := cfg.Validate()
	require.NotNil(t, err)
	require.Len(t, multierr.Errors(err), 6)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv(EnvDataset, "")
	path := filepath.Join(t.TempDir(), "sentix.yaml")
	data := `server:
  listen: 0.0.0.0:8080
  cache-size: 128
dataset:
  path: reviews.csv
  text-column: body
model:
  max-features: 100
  stem: true
  evaluate: true
`
	require.Nil(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfigFromFile(path)
	require.Nil(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	require.Equal(t, 128, cfg.Server.CacheSize)
	require.Equal(t, "reviews.csv", cfg.Dataset.Path)
	require.Equal(t, "body", cfg.Dataset.TextColumn)
	require.Equal(t, dataset.DefaultLabelColumn, cfg.Dataset.LabelColumn)
	require.Equal(t, 100, cfg.Model.MaxFeatures)
	require.True(t, cfg.Model.Stem)
	require.True(t, cfg.Model.Evaluate)

	t.Run("invalid yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.Nil(t, os.WriteFile(bad, []byte("server: ["), 0644))
		_, err := LoadConfigFromFile(bad)
		require.NotNil(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.Nil(t, os.WriteFile(bad, []byte("model:\n  norm: l1\n"), 0644))
		_, err := LoadConfigFromFile(bad)
		require.NotNil(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NotNil(t, err)
	})
}
