package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConsoleDefaults(t *testing.T) {
	t.Setenv("CONSOLE_PORT", "")
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("EXPORT_LOCALE", "")

	cfg, err := LoadConsole()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:4000", cfg.StoreURL)
	assert.Equal(t, 30*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "en-US", cfg.Locale.String())
}

func TestLoadConsoleOverrides(t *testing.T) {
	t.Setenv("STORE_URL", "http://store:9000")
	t.Setenv("STORE_TIMEOUT", "5s")
	t.Setenv("EXPORT_LOCALE", "de-DE")

	cfg, err := LoadConsole()
	require.NoError(t, err)
	assert.Equal(t, "http://store:9000", cfg.StoreURL)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "de-DE", cfg.Locale.String())

	t.Setenv("STORE_TIMEOUT", "soon")
	_, err = LoadConsole()
	assert.Error(t, err)
}

func TestLoadStoreBlobDriver(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("BLOB_DRIVER", "")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, BlobDriverFS, cfg.BlobDriver)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)

	t.Setenv("BLOB_DRIVER", BlobDriverMinio)
	t.Setenv("MINIO_ENDPOINT", "")
	_, err = LoadStore()
	assert.Error(t, err)

	t.Setenv("BLOB_DRIVER", "tape")
	_, err = LoadStore()
	assert.Error(t, err)
}
