package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, "http://localhost:9001", cfg.Preprocessor.BaseURI)
	assert.Equal(t, 1000, cfg.Cache.LocalMaxEntries)
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("HTTP_PORT", "9999")
	defer os.Unsetenv("HTTP_PORT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTP.Port)
}

func TestLoad_InvalidPortFailsValidation(t *testing.T) {
	os.Setenv("HTTP_PORT", "70000")
	defer os.Unsetenv("HTTP_PORT")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ClusterSeedNodesSplit(t *testing.T) {
	os.Setenv("CLUSTER_SEED_NODES", "a:7946,b:7946")
	defer os.Unsetenv("CLUSTER_SEED_NODES")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:7946", "b:7946"}, cfg.Cluster.SeedNodes)
}
