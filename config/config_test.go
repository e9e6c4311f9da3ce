package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, 1, c.Workers)
	assert.Equal(t, 5, c.Extraction.ValidityErosion)
	assert.Equal(t, 2, c.Extraction.TerminationWindow)
	assert.Equal(t, 1, c.Extraction.BifurcationWindow)
	assert.Equal(t, 800, c.Extraction.RenderSize)
	assert.Equal(t, 50, c.Fusion.DistanceThreshold)
	assert.Equal(t, 0.9, c.Decision.FingerThreshold)
	assert.Equal(t, 0.9, c.Decision.KnuckleThreshold)
	assert.Equal(t, ":9090", c.Server.Address)
	assert.Equal(t, "auto", c.Logging.Format)
	assert.NoError(t, c.Validate())
}

func TestLoadDefaultConfigUsesAllCPUs(t *testing.T) {
	prev := Config
	t.Cleanup(func() { Config = prev })

	LoadDefaultConfig()
	assert.Equal(t, runtime.NumCPU(), Config.Workers)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.toml")
	body := `
workers = 4

[decision]
finger_threshold = 0.85

[store]
path = "/var/lib/fk/refs.db"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 0.85, c.Decision.FingerThreshold)
	assert.Equal(t, 0.9, c.Decision.KnuckleThreshold)
	assert.Equal(t, "/var/lib/fk/refs.db", c.Store.Path)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.toml")
	require.NoError(t, os.WriteFile(path, []byte("wrokers = 2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrokers")
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.toml")
	require.NoError(t, os.WriteFile(path, []byte("[decision]\nknuckle_threshold = 1.5\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
