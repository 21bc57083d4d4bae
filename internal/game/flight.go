package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// minShipSize keeps a zero-size drive from dividing by zero.
const minShipSize = 0.1

// FlightParams tune the flight model. Distances are AU, times are seconds.
type FlightParams struct {
	AccelPerRating          float64 `mapstructure:"accelPerRating"`    // AU/s² per engine rating per size
	MaxSpeedPerRating       float64 `mapstructure:"maxSpeedPerRating"` // AU/s per engine rating
	BrakeMultiplier         float64 `mapstructure:"brakeMultiplier"`
	BoostAccelMultiplier    float64 `mapstructure:"boostAccelMultiplier"`
	BoostSpeedMultiplier    float64 `mapstructure:"boostSpeedMultiplier"`
	BoostFuelPerSecond      float64 `mapstructure:"boostFuelPerSecond"`
	BoostCooldown           float64 `mapstructure:"boostCooldown"`
	CooldownBrakeMultiplier float64 `mapstructure:"cooldownBrakeMultiplier"`
	TurnRate                float64 `mapstructure:"turnRate"` // rad/s at full deflection
	GameTimeRatio           float64 `mapstructure:"gameTimeRatio"`
	MaxDt                   float64 `mapstructure:"maxDt"`
}

// BaseAccel is the drive's normal thrust.
func (p FlightParams) BaseAccel(d world.Drive) float64 {
	return p.AccelPerRating * d.EngineRating / math.Max(d.Size, minShipSize)
}

// MaxSpeed is the normal-regime speed cap.
func (p FlightParams) MaxSpeed(d world.Drive) float64 {
	return p.MaxSpeedPerRating * d.EngineRating
}

// BoostMaxSpeed is the boosting-regime speed cap.
func (p FlightParams) BoostMaxSpeed(d world.Drive) float64 {
	return p.MaxSpeed(d) * p.BoostSpeedMultiplier
}

// BrakeAccel is the deceleration available in the current regime.
func (p FlightParams) BrakeAccel(d world.Drive, fs FlightState) float64 {
	a := p.BaseAccel(d) * p.BrakeMultiplier
	if fs.Regime() == RegimeCooldown {
		a *= p.CooldownBrakeMultiplier
	}
	return a
}

// SpeedCap is the speed limit of the current regime. During cooldown it
// decays linearly from the boost cap to the normal cap.
func (p FlightParams) SpeedCap(d world.Drive, fs FlightState) float64 {
	normal := p.MaxSpeed(d)
	switch fs.Regime() {
	case RegimeBoosting:
		return p.BoostMaxSpeed(d)
	case RegimeCooldown:
		if p.BoostCooldown <= 0 {
			return normal
		}
		frac := math.Min(1, fs.BoostCooldownRemaining/p.BoostCooldown)
		return normal + (p.BoostMaxSpeed(d)-normal)*frac
	default:
		return normal
	}
}

// Regime is the player's flight mode.
type Regime uint8

const (
	RegimeNormal Regime = iota
	RegimeBoosting
	RegimeCooldown
)

func (r Regime) String() string {
	switch r {
	case RegimeBoosting:
		return "boost"
	case RegimeCooldown:
		return "cooldown"
	default:
		return "normal"
	}
}

// FlightState is the per-player flight mode, owned by the simulation.
type FlightState struct {
	BoostActive            bool
	BoostCooldownRemaining float64
	GameTime               float64
	LastDamageAt           time.Time
}

// Regime derives the flight mode from the boost flags.
func (fs FlightState) Regime() Regime {
	switch {
	case fs.BoostActive:
		return RegimeBoosting
	case fs.BoostCooldownRemaining > 0:
		return RegimeCooldown
	default:
		return RegimeNormal
	}
}

// ShipState borrows the player ship's components for one tick.
type ShipState struct {
	Entity    ecs.Entity
	Radius    float64
	Transform *world.Transform
	Motion    *world.Motion
	Drive     *world.Drive
	Hull      *world.Hull
}

// Speed returns the ship's speed in AU/s.
func (s ShipState) Speed() float64 { return s.Motion.Velocity.Len() }

// Step advances the player's flight by dt seconds: regime transitions,
// rotation, thrust or braking, the speed cap, then position and game time.
func Step(ship ShipState, fs *FlightState, c Controls, p FlightParams, dt float64) Regime {
	if dt <= 0 {
		return fs.Regime()
	}
	d := ship.Drive

	// A cooldown that starts this tick keeps its full length.
	if fs.BoostCooldownRemaining > 0 {
		fs.BoostCooldownRemaining = math.Max(0, fs.BoostCooldownRemaining-dt)
	}
	switch {
	case fs.BoostActive && (!c.Boost || d.Fuel <= 0):
		fs.BoostActive = false
		fs.BoostCooldownRemaining = p.BoostCooldown
	case !fs.BoostActive && c.Boost && d.Fuel > 0 && fs.BoostCooldownRemaining <= 0:
		fs.BoostActive = true
	}

	ship.Transform.Rotation = Turn(ship.Transform.Rotation, c, p.TurnRate, dt)
	forward := Forward(ship.Transform.Rotation)
	v := ship.Motion.Velocity
	accel := p.BaseAccel(*d)

	regime := fs.Regime()
	switch regime {
	case RegimeBoosting:
		v = v.Add(forward.Mul(accel * p.BoostAccelMultiplier * dt))
		d.Fuel = math.Max(0, d.Fuel-p.BoostFuelPerSecond*dt)
	case RegimeCooldown:
		if c.Brake {
			v = brake(v.Sub(c.MatchVelocity), p.BrakeAccel(*d, *fs)*dt).Add(c.MatchVelocity)
		}
	default:
		if c.Accelerate {
			v = v.Add(forward.Mul(accel * dt))
		}
		if c.Brake {
			v = brake(v.Sub(c.MatchVelocity), p.BrakeAccel(*d, *fs)*dt).Add(c.MatchVelocity)
		}
	}

	v = clampSpeed(v, p.SpeedCap(*d, *fs))
	ship.Motion.Velocity = v
	ship.Transform.Position = ship.Transform.Position.Add(v.Mul(dt))
	fs.GameTime += dt * p.GameTimeRatio
	return regime
}

// brake reduces speed by dv without reversing direction.
func brake(v mgl64.Vec3, dv float64) mgl64.Vec3 {
	speed := v.Len()
	if speed <= dv || speed == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul((speed - dv) / speed)
}

func clampSpeed(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	speed := v.Len()
	if speed <= limit || speed == 0 {
		return v
	}
	return v.Mul(math.Max(limit, 0) / speed)
}
