package game

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/starflight/internal/world"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestUniverse() (*world.Universe, *Sim) {
	u := world.NewUniverse()
	u.SpawnPlayer(
		world.Body{Name: "Nomad", Radius: 0.0005},
		world.Transform{Rotation: mgl64.QuatIdent()},
		world.Motion{},
		world.Hull{Hull: 100, MaxHull: 100},
		world.Drive{Fuel: 100, FuelCapacity: 100, EngineRating: 1, Size: 1},
	)
	return u, NewSim(u, DefaultParams())
}

func TestEngageComputesBoostBreakpoint(t *testing.T) {
	p := DefaultParams()
	d := world.Drive{EngineRating: 1, Size: 1, Fuel: 10}
	var a AutonavState

	a.Engage(world.TargetPoint("beacon", mgl64.Vec3{0, 0, 5}, false), d, p)
	require.True(t, a.Active)

	vb := p.Flight.BoostMaxSpeed(d)
	brake := p.Flight.BaseAccel(d) * p.Flight.BrakeMultiplier
	assert.InDelta(t, vb*vb/(2*brake)*p.Autonav.StopSafety, a.BoostBreakpoint, 1e-12)
}

func pointLeg(x, y, z float64) Leg {
	return Leg{Aim: mgl64.Vec3{x, y, z}, Final: true}
}

func TestGuideBoostsWhenFarAndAligned(t *testing.T) {
	p := DefaultParams()
	ship := testShip()

	g := Guide(pointLeg(0, 0, 10), 1, ship, FlightState{}, p, 0.05)
	assert.InDelta(t, 1, g.Alignment, 1e-12)
	assert.False(t, g.Braking)
	assert.True(t, g.Controls.Boost)
	assert.True(t, g.Controls.Accelerate)
	assert.Equal(t, p.Flight.BoostMaxSpeed(*ship.Drive), g.Desired)
	assert.Zero(t, g.Controls.Yaw)
	assert.Zero(t, g.Controls.Pitch)
}

func TestGuideNoBoostInsideBreakpointOrWithoutFuel(t *testing.T) {
	p := DefaultParams()
	ship := testShip()

	g := Guide(pointLeg(0, 0, 0.5), 1, ship, FlightState{}, p, 0.05)
	assert.False(t, g.Controls.Boost, "inside breakpoint")

	ship.Drive.Fuel = 0
	g = Guide(pointLeg(0, 0, 10), 1, ship, FlightState{}, p, 0.05)
	assert.False(t, g.Controls.Boost, "empty tank")
	assert.Equal(t, p.Flight.MaxSpeed(*ship.Drive), g.Desired)
}

func TestGuideTurnsTowardTargetBehind(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Motion.Velocity = mgl64.Vec3{0, 0, 0.01}

	g := Guide(pointLeg(-0.1, 0, -10), 1, ship, FlightState{}, p, 0.05)
	assert.Less(t, g.Alignment, 0.0)
	assert.False(t, g.Controls.Boost)
	assert.False(t, g.Controls.Accelerate)
	assert.LessOrEqual(t, g.Desired, p.Autonav.MisalignedSpeed*p.Flight.MaxSpeed(*ship.Drive))
	assert.True(t, g.Controls.Brake, "shed speed while facing away")
	assert.Equal(t, -1.0, g.Controls.Yaw)
}

func TestGuideBrakesOnStoppingCurve(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Motion.Velocity = mgl64.Vec3{0, 0, 0.02}

	// Stopping distance from 0.02 AU/s at 0.01 AU/s² is 0.02 AU.
	g := Guide(pointLeg(0, 0, 0.015), 1, ship, FlightState{}, p, 0.05)
	assert.True(t, g.Braking)
	assert.True(t, g.Controls.Brake)
	assert.False(t, g.Controls.Accelerate)
}

func TestGuideLeansAgainstDrift(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Motion.Velocity = mgl64.Vec3{0.002, 0, 0.005}

	g := Guide(pointLeg(0, 0, 1), 1, ship, FlightState{}, p, 0.05)
	assert.Negative(t, g.Controls.Yaw, "turn against the sideways drift")
	assert.True(t, g.Controls.Accelerate, "still inside the thrust cone")
	assert.False(t, g.Controls.Brake)
}

func TestGuideSpeedsAreRelativeToTarget(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Motion.Velocity = mgl64.Vec3{0, 0, 0.0016}
	leg := pointLeg(0, 0, 0.001)
	leg.Velocity = mgl64.Vec3{0, 0, 0.0016}

	g := Guide(leg, 1, ship, FlightState{}, p, 0.05)
	assert.False(t, g.Controls.Brake, "already matched")
	assert.Equal(t, leg.Velocity, g.Controls.MatchVelocity)
}

func TestGuideSlowZoneCapsDesiredSpeed(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Motion.Velocity = mgl64.Vec3{0, 0, 0.02}
	leg := pointLeg(0, 0, 1)
	leg.SlowSpeed = 0.003

	g := Guide(leg, 100, ship, FlightState{}, p, 0.05)
	assert.InDelta(t, 0.003, g.Desired, 1e-12)
	assert.True(t, g.Braking)
	assert.True(t, g.Controls.Brake)
}

func TestStationLegRoutesToEntrance(t *testing.T) {
	p := DefaultParams()
	const radius = 0.01
	sphere := radius * p.Dock.CollisionRadiusFactor * p.Autonav.ApproachRadiusFactor
	final := Leg{Aim: mgl64.Vec3{}, Standoff: 0.003, Final: true}
	entrance := mgl64.Vec3{0, 0, 1}

	cases := []struct {
		name string
		ship mgl64.Vec3
	}{
		{"astern", mgl64.Vec3{0, 0, -0.5}},
		{"abeam", mgl64.Vec3{0.3, 0.1, 0}},
		{"close behind", mgl64.Vec3{0.002, 0, -0.012}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			leg := StationLeg(tc.ship, mgl64.QuatIdent(), radius, final, p, 0.02)
			require.False(t, leg.Final)
			assert.Zero(t, leg.Standoff)
			assert.InDelta(t, sphere, leg.Aim.Len(), 1e-12, "aim rides the approach sphere")

			// The aim point is nearer the entrance axis than the ship.
			shipCos := entrance.Dot(tc.ship.Normalize())
			assert.Greater(t, entrance.Dot(leg.Aim.Normalize()), shipCos)
			assert.InDelta(t, p.Autonav.ApproachSpeed*0.02, leg.SlowSpeed, 1e-12)
		})
	}
}

func TestStationLegFinalInsideRunInCone(t *testing.T) {
	p := DefaultParams()
	final := Leg{Aim: mgl64.Vec3{1, 0, 0}, Standoff: 0.003, Final: true}
	rot := world.Orientation(90, 0) // entrance faces +X

	leg := StationLeg(mgl64.Vec3{1.4, 0.05, 0}, rot, 0.01, final, p, 0.02)
	assert.True(t, leg.Final)
	assert.Equal(t, final.Aim, leg.Aim)
	assert.Equal(t, 0.003, leg.Standoff)
	assert.InDelta(t, 0.4031-0.03, leg.SlowAt, 1e-4)
}

func TestAutonavFliesToPointAndArrives(t *testing.T) {
	_, s := newTestUniverse()
	target := world.TargetPoint("beacon", mgl64.Vec3{0.2, 0.1, 3}, false)
	s.Target = &target
	require.True(t, s.EngageAutonav())

	ship, ok := s.PlayerShip()
	require.True(t, ok)
	fp := s.Params.Flight
	now := epoch
	boosted := false
	var res TickResult
	for i := 0; i < 20000 && s.Autonav.Active; i++ {
		now = now.Add(50 * time.Millisecond)
		before := s.Flight.Regime()
		res = s.Tick(Keys{}, now, 0.05)
		g := s.Autonav.Last

		assert.LessOrEqual(t, ship.Speed(), fp.SpeedCap(*ship.Drive, s.Flight)+1e-12)
		assert.LessOrEqual(t, g.Desired, fp.BoostMaxSpeed(*ship.Drive)+1e-12)
		if !g.Controls.Boost && before == RegimeNormal {
			assert.LessOrEqual(t, g.Desired, fp.MaxSpeed(*ship.Drive)+1e-12)
		}
		boosted = boosted || s.Flight.BoostActive
	}

	require.False(t, s.Autonav.Active)
	assert.Equal(t, ReasonArrived, s.Autonav.Reason)
	assert.Equal(t, ReasonArrived, res.Disengaged)
	assert.True(t, boosted, "a 3 AU trip should boost")
	assert.InDelta(t, 0, ship.Transform.Position.Sub(target.Point).Len(), s.Params.Autonav.ArrivalTolerance+1e-3)
	assert.Less(t, ship.Speed(), 0.01)
}

func TestAutonavManualOverride(t *testing.T) {
	_, s := newTestUniverse()
	target := world.TargetPoint("beacon", mgl64.Vec3{0, 0, 3}, false)
	s.Target = &target
	require.True(t, s.EngageAutonav())

	s.Tick(Keys{}, epoch, 0.05)
	require.True(t, s.Autonav.Active)

	s.Tick(Keys{Fire: true}, epoch, 0.05)
	assert.True(t, s.Autonav.Active, "firing is not a flight input")

	res := s.Tick(Keys{YawLeft: true}, epoch, 0.05)
	assert.False(t, s.Autonav.Active)
	assert.Equal(t, ReasonManualOverride, res.Disengaged)
	assert.Equal(t, -1.0, res.Controls.Yaw, "the pilot's input applies on the same tick")
}

func TestAutonavTargetLost(t *testing.T) {
	u, s := newTestUniverse()
	wreck := u.SpawnShip(
		world.Body{Name: "Wreck", Radius: 0.0005},
		world.Transform{Position: mgl64.Vec3{0, 0, 1}, Rotation: mgl64.QuatIdent()},
		world.Motion{},
		world.Hull{Hull: 1, MaxHull: 1},
	)
	require.True(t, s.SetTarget(wreck))
	require.True(t, s.EngageAutonav())

	u.Remove(wreck)
	res := s.Tick(Keys{}, epoch, 0.05)
	assert.Equal(t, ReasonTargetLost, res.Disengaged)
	assert.False(t, s.Autonav.Active)
}

func TestSteerDeadZoneAndClamp(t *testing.T) {
	ap := DefaultParams().Autonav
	assert.Zero(t, steer(ap.DeadZone/2, ap, 1.5, 0.05))
	assert.Equal(t, 1.0, steer(math.Pi, ap, 1.5, 0.05))
	assert.Equal(t, -1.0, steer(-1, ap, 1.5, 0.05))
	assert.InDelta(t, 0.5, steer(0.0375, ap, 1.5, 0.05), 1e-12)
}
