package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, path, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSearchesUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	data := `{"network": "mainnet", "listenAddr": ":9100"}`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".chainsentinel.json"), []byte(data), 0o644))

	cfg, path, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".chainsentinel.json"), path)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.PollIntervalSec, "unset fields keep defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHAINSENTINEL_NETWORK", "devnet")
	t.Setenv("CHAINSENTINEL_ADDR", ":7000")
	t.Setenv("CHAINSENTINEL_POLL_INTERVAL", "11")
	t.Setenv("CHAINSENTINEL_DEBUG", "true")

	cfg, _, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "devnet", cfg.Network)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 11, cfg.PollIntervalSec)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chainsentinel.json"), []byte("{nope"), 0o644))
	_, _, err := Load(dir)
	assert.Error(t, err)
}
