package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTP.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "notesapp", cfg.MongoDB.Database)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("NOTES_STORE_DRIVER", "memory")
	t.Setenv("NOTES_LOG_FORMAT", "json")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Setenv("NOTES_HTTP_PORT", "9000")
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTP.Port)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongodb:\n  database: other\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.MongoDB.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "5000", cfg.HTTP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("NOTES_STORE_DRIVER", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
