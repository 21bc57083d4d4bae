package game

import "time"

// Params gathers every tunable of the flight core.
type Params struct {
	Flight  FlightParams  `mapstructure:"flight"`
	Autonav AutonavParams `mapstructure:"autonav"`
	Dock    DockParams    `mapstructure:"dock"`
}

// DefaultParams returns the tuning the demo systems are built for.
func DefaultParams() Params {
	return Params{
		Flight: FlightParams{
			AccelPerRating:          0.01,
			MaxSpeedPerRating:       0.02,
			BrakeMultiplier:         1.0,
			BoostAccelMultiplier:    6,
			BoostSpeedMultiplier:    5,
			BoostFuelPerSecond:      5,
			BoostCooldown:           3,
			CooldownBrakeMultiplier: 2,
			TurnRate:                1.5,
			GameTimeRatio:           60,
			MaxDt:                   0.1,
		},
		Autonav: AutonavParams{
			StopSafety:           1.15,
			BoostAlignment:       0.6,
			MisalignedAlignment:  0.2,
			MisalignedSpeed:      0.2,
			SteerGain:            1,
			DeadZone:             0.002,
			ArrivalTolerance:     0.0005,
			StarHeatRadiusFactor: 4,
			StarStandoffMargin:   1.5,
			DockStandoffFraction: 0.5,
			ShipStandoffFactor:   20,
			LogInterval:          time.Second,
			ApproachRadiusFactor: 3,
			ApproachStep:         0.6,
			ApproachSpeed:        0.15,
			RunInDot:             0.85,
			DriftBrake:           0.25,
			ThrustAlignment:      0.9,
		},
		Dock: DockParams{
			CollisionRadiusFactor: 1.0,
			StationDockFactor:     0.6,
			PlanetDockFactor:      1.2,
			EntranceConeDot:       0.7,
			MinCollisionSpeed:     0.0005,
			Restitution:           0.5,
			DamagePerSpeed:        2000,
			DamageCooldown:        time.Second,
		},
	}
}
