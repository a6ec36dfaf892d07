package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocean/internal/core"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 256, c.Ocean.MeshSize)
	assert.Equal(t, 128, c.LOD.GridSize)
	assert.Equal(t, Vec2{X: 3, Z: 1}, c.Ocean.WindSpeed)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: cpu\nocean:\n  mesh_size: 64\n  wind_speed: {x: 10, z: 0}\nlod:\n  wireframe: true\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cpu", c.Device)
	assert.Equal(t, 64, c.Ocean.MeshSize)
	assert.Equal(t, 10.0, c.Ocean.WindSpeed.X)
	assert.Equal(t, 9.81, c.Ocean.Gravity, "unset keys keep their defaults")
	assert.True(t, c.LOD.Wireframe)
	assert.Equal(t, 16, c.LOD.Addition)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.yaml")
	c := Default()
	c.Seed = 99
	c.Stream.Addr = ":9000"
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"ocean.mesh_size": func(c *Config) { c.Ocean.MeshSize = 100 },
		"ocean.distance":  func(c *Config) { c.Ocean.Distance.Z = 0 },
		"lod.grid_size":   func(c *Config) { c.LOD.GridSize = 0 },
		"device":          func(c *Config) { c.Device = "vulkan" },
		"ocean.downsample": func(c *Config) {
			c.Ocean.Downsample = 512
		},
	}
	for field, mutate := range cases {
		c := Default()
		mutate(c)
		var cfg *core.ConfigError
		require.True(t, errors.As(c.Validate(), &cfg), field)
		assert.Equal(t, field, cfg.Field)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
