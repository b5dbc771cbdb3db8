package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":8080\"\nbucket: rolls\npresign_ttl_seconds: 3600\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "rolls", cfg.Bucket)
	assert.Equal(t, time.Hour, cfg.PresignTTL())
}

func TestLoadEnvOverrides(t *testing.T) {

	t.Setenv("GALLERY_ADDR", ":9090")
	t.Setenv("GALLERY_BUCKET", "env-bucket")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "env-bucket", cfg.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.PresignTTL())
}

func TestLoadRequiresBucket(t *testing.T) {

	t.Setenv("GALLERY_BUCKET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}
