// Package config loads the flight core's tunables with viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/spacehole-rogue/starflight/internal/game"
	"github.com/spacehole-rogue/starflight/internal/render"
)

// EnvPrefix namespaces environment overrides, e.g. STARFLIGHT_FLIGHT_TURNRATE.
const EnvPrefix = "STARFLIGHT"

// TelemetryConfig holds the metrics/pprof debug server settings.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// AudioConfig holds the cue tone settings.
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"` // 0..1
}

// WindowConfig sizes the cockpit grid.
type WindowConfig struct {
	Cols  int `mapstructure:"cols"`
	Rows  int `mapstructure:"rows"`
	CellW int `mapstructure:"cellW"`
	CellH int `mapstructure:"cellH"`
}

// Config is the full runtime configuration.
type Config struct {
	game.Params `mapstructure:",squash"`

	LogLevel  string          `mapstructure:"logLevel"`
	System    string          `mapstructure:"system"`
	Render    render.Params   `mapstructure:"render"`
	Window    WindowConfig    `mapstructure:"window"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Audio     AudioConfig     `mapstructure:"audio"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("system", "tau_ceti")

	g := game.DefaultParams()
	viper.SetDefault("flight.accelPerRating", g.Flight.AccelPerRating)
	viper.SetDefault("flight.maxSpeedPerRating", g.Flight.MaxSpeedPerRating)
	viper.SetDefault("flight.brakeMultiplier", g.Flight.BrakeMultiplier)
	viper.SetDefault("flight.boostAccelMultiplier", g.Flight.BoostAccelMultiplier)
	viper.SetDefault("flight.boostSpeedMultiplier", g.Flight.BoostSpeedMultiplier)
	viper.SetDefault("flight.boostFuelPerSecond", g.Flight.BoostFuelPerSecond)
	viper.SetDefault("flight.boostCooldown", g.Flight.BoostCooldown)
	viper.SetDefault("flight.cooldownBrakeMultiplier", g.Flight.CooldownBrakeMultiplier)
	viper.SetDefault("flight.turnRate", g.Flight.TurnRate)
	viper.SetDefault("flight.gameTimeRatio", g.Flight.GameTimeRatio)
	viper.SetDefault("flight.maxDt", g.Flight.MaxDt)

	viper.SetDefault("autonav.stopSafety", g.Autonav.StopSafety)
	viper.SetDefault("autonav.boostAlignment", g.Autonav.BoostAlignment)
	viper.SetDefault("autonav.misalignedAlignment", g.Autonav.MisalignedAlignment)
	viper.SetDefault("autonav.misalignedSpeed", g.Autonav.MisalignedSpeed)
	viper.SetDefault("autonav.steerGain", g.Autonav.SteerGain)
	viper.SetDefault("autonav.deadZone", g.Autonav.DeadZone)
	viper.SetDefault("autonav.arrivalTolerance", g.Autonav.ArrivalTolerance)
	viper.SetDefault("autonav.starHeatRadiusFactor", g.Autonav.StarHeatRadiusFactor)
	viper.SetDefault("autonav.starStandoffMargin", g.Autonav.StarStandoffMargin)
	viper.SetDefault("autonav.dockStandoffFraction", g.Autonav.DockStandoffFraction)
	viper.SetDefault("autonav.shipStandoffFactor", g.Autonav.ShipStandoffFactor)
	viper.SetDefault("autonav.logInterval", g.Autonav.LogInterval)
	viper.SetDefault("autonav.approachRadiusFactor", g.Autonav.ApproachRadiusFactor)
	viper.SetDefault("autonav.approachStep", g.Autonav.ApproachStep)
	viper.SetDefault("autonav.approachSpeed", g.Autonav.ApproachSpeed)
	viper.SetDefault("autonav.runInDot", g.Autonav.RunInDot)
	viper.SetDefault("autonav.driftBrake", g.Autonav.DriftBrake)
	viper.SetDefault("autonav.thrustAlignment", g.Autonav.ThrustAlignment)

	viper.SetDefault("dock.collisionRadiusFactor", g.Dock.CollisionRadiusFactor)
	viper.SetDefault("dock.stationDockFactor", g.Dock.StationDockFactor)
	viper.SetDefault("dock.planetDockFactor", g.Dock.PlanetDockFactor)
	viper.SetDefault("dock.entranceConeDot", g.Dock.EntranceConeDot)
	viper.SetDefault("dock.minCollisionSpeed", g.Dock.MinCollisionSpeed)
	viper.SetDefault("dock.restitution", g.Dock.Restitution)
	viper.SetDefault("dock.damagePerSpeed", g.Dock.DamagePerSpeed)
	viper.SetDefault("dock.damageCooldown", g.Dock.DamageCooldown)

	r := render.DefaultParams()
	viper.SetDefault("render.fov", r.FOV)
	viper.SetDefault("render.cellAspect", r.CellAspect)
	viper.SetDefault("render.ditherEpsilon", r.DitherEpsilon)
	viper.SetDefault("render.hudMargin", r.HUDMargin)
	viper.SetDefault("render.sprite.flashDuration", r.Sprite.FlashDuration)
	viper.SetDefault("render.sprite.flashBlink", r.Sprite.FlashBlink)
	viper.SetDefault("render.sprite.minScreenSpeed", r.Sprite.MinScreenSpeed)

	viper.SetDefault("window.cols", 100)
	viper.SetDefault("window.rows", 45)
	viper.SetDefault("window.cellW", 12)
	viper.SetDefault("window.cellH", 16)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.addr", "127.0.0.1:6060")

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.volume", 0.3)
}

// Load reads the config file at path (YAML, JSON or TOML by extension) over
// the defaults. An empty path or a missing file yields the defaults;
// STARFLIGHT_* environment variables override both.
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
