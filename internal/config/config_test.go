package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9998, cfg.Port)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, ":9998", cfg.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORYBOOK_PORT", "8080")
	t.Setenv("STORYBOOK_DATA_DIR", "/var/lib/storybooks")
	t.Setenv("STORYBOOK_MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/var/lib/storybooks", cfg.DataDir)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("STORYBOOK_PORT", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("non-positive upload limit", func(t *testing.T) {
		t.Setenv("STORYBOOK_MAX_UPLOAD_BYTES", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
