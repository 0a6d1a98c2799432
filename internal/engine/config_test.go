package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:5005", cfg.Vision.Addr)
	assert.Equal(t, 30, cfg.TickRate)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
tick_rate = 60
arm_speed = 0.1

[vision]
addr = "10.0.0.5:6000"

[stream]
every = 6
quality = 50

[spawn]
red_chance = 0.8
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, "10.0.0.5:6000", cfg.Vision.Addr)
	assert.Equal(t, int64(6), cfg.Stream.Every)
	assert.Equal(t, 50, cfg.Stream.Quality)
	assert.InDelta(t, 0.8, float64(cfg.Spawn.RedChance), 1e-6)

	// Неуказанные секции остаются дефолтными
	assert.Equal(t, int64(90), cfg.Spawn.Interval)
	assert.Equal(t, 1000, cfg.Vision.RetryDelayMS)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[stream]
quality = 200
`), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "quality")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestVisionClientConfigConversion(t *testing.T) {
	cfg := NewConfig()
	vc := cfg.VisionClientConfig()
	assert.Equal(t, cfg.Vision.Addr, vc.Addr)
	assert.Equal(t, int64(1000), vc.RetryDelay.Milliseconds())
}
