package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DatabaseDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.StartingPoints)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "dataurl", cfg.MediaDriver)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigmat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
database_driver: postgres
token_ttl: 48h
starting_points: 25
cors_origins: ["https://sigmat.app"]
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STARTING_POINTS", "40")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 40, cfg.StartingPoints)
	assert.Equal(t, []string{"https://sigmat.app"}, cfg.CORSOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}
