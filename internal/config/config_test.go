package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/starflight/internal/game"
	"github.com/spacehole-rogue/starflight/internal/render"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tau_ceti", cfg.System)
	assert.Equal(t, game.DefaultParams(), cfg.Params)
	assert.Equal(t, render.DefaultParams(), cfg.Render)
	assert.Equal(t, 100, cfg.Window.Cols)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "127.0.0.1:6060", cfg.Telemetry.Addr)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "starflight.yaml")
	data := `
logLevel: debug
flight:
  turnRate: 2.5
autonav:
  logInterval: 250ms
  runInDot: 0.9
dock:
  restitution: 0.8
render:
  fov: 70
  sprite:
    flashDuration: 1s
telemetry:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2.5, cfg.Flight.TurnRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Autonav.LogInterval)
	assert.Equal(t, 0.9, cfg.Autonav.RunInDot)
	assert.Equal(t, 0.8, cfg.Dock.Restitution)
	assert.Equal(t, 70.0, cfg.Render.FOV)
	assert.Equal(t, time.Second, cfg.Render.Sprite.FlashDuration)
	assert.True(t, cfg.Telemetry.Enabled)

	// Untouched keys keep their defaults.
	assert.Equal(t, game.DefaultParams().Flight.AccelPerRating, cfg.Flight.AccelPerRating)
	assert.Equal(t, game.DefaultParams().Autonav.ApproachRadiusFactor, cfg.Autonav.ApproachRadiusFactor)
	assert.Equal(t, render.DefaultParams().CellAspect, cfg.Render.CellAspect)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, game.DefaultParams(), cfg.Params)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"flight": {`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("STARFLIGHT_FLIGHT_MAXDT", "0.05")
	t.Setenv("STARFLIGHT_SYSTEM", "sol")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Flight.MaxDt)
	assert.Equal(t, "sol", cfg.System)
}
