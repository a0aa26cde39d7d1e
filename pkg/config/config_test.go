package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/shuku")
	t.Setenv("LIBRARY_ROOT_DIR", "/library")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/shuku", cfg.DatabaseURL)
	assert.Equal(t, "/library", cfg.LibraryRootDir)
	assert.Equal(t, 3080, cfg.ServerPort)
}

func TestNewServerPortOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/shuku")
	t.Setenv("LIBRARY_ROOT_DIR", "/library")
	t.Setenv("SERVER_PORT", "4000")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.ServerPort)
}

func TestNewMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LIBRARY_ROOT_DIR", "/library")

	_, err := New()
	assert.Error(t, err)
}

func TestNewMissingLibraryRootDir(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/shuku")
	t.Setenv("LIBRARY_ROOT_DIR", "")

	_, err := New()
	assert.Error(t, err)
}
