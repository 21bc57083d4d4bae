package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/starflight/internal/world"
)

func testStation() Station {
	return Station{Name: "Highport", Rotation: mgl64.QuatIdent(), Radius: 0.01}
}

func TestReflect(t *testing.T) {
	v := mgl64.Vec3{0.3, -0.4, 0.2}
	n := mgl64.Vec3{0, 1, 0}

	assert.True(t, Reflect(Reflect(v, n, 1), n, 1).ApproxEqualThreshold(v, 1e-12))

	r := Reflect(v, n, 0.5)
	assert.InDelta(t, 0.3, r.X(), 1e-12)
	assert.InDelta(t, 0.2, r.Z(), 1e-12)
	assert.InDelta(t, 0.2, r.Y(), 1e-12)
}

func TestDockThroughEntrance(t *testing.T) {
	p := DefaultParams()
	st := testStation()
	ship := testShip()
	ship.Transform.Position = mgl64.Vec3{0, 0, 0.02}
	ship.Motion.Velocity = mgl64.Vec3{0, 0, -0.01}
	var fs FlightState

	dockAt := st.Radius * p.Dock.StationDockFactor
	prev := ship.Transform.Position.Len()
	var ev Event
	for i := 0; i < 100; i++ {
		Step(ship, &fs, Controls{}, p.Flight, 0.1)
		ev = ResolveStation(ship, &fs, st, p.Dock, CollisionFlash, epoch)
		if ev.Kind != EventNone {
			break
		}
		prev = ship.Transform.Position.Len()
	}

	require.Equal(t, EventDock, ev.Kind)
	assert.Equal(t, "Highport", ev.Name)
	assert.Equal(t, world.KindStation, ev.BodyKind)
	assert.LessOrEqual(t, ship.Transform.Position.Len(), dockAt)
	assert.Greater(t, prev, dockAt, "docks on the first tick inside the dock radius")
	assert.Equal(t, 100.0, ship.Hull.Hull)
}

func TestEntranceConeIsOpen(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Transform.Position = mgl64.Vec3{0, 0, 0.008}
	ship.Motion.Velocity = mgl64.Vec3{0, 0, -0.01}
	var fs FlightState

	ev := ResolveStation(ship, &fs, testStation(), p.Dock, CollisionFlash, epoch)
	assert.Equal(t, EventNone, ev.Kind)
	assert.Equal(t, mgl64.Vec3{0, 0, -0.01}, ship.Motion.Velocity)
}

func TestSideImpactBouncesAndDamages(t *testing.T) {
	p := DefaultParams()
	st := testStation()
	ship := testShip()
	ship.Transform.Position = mgl64.Vec3{0.009, 0, 0}
	ship.Motion.Velocity = mgl64.Vec3{-0.01, 0, 0}
	var fs FlightState

	ev := ResolveStation(ship, &fs, st, p.Dock, CollisionFlash, epoch)
	require.Equal(t, EventCollision, ev.Kind)
	assert.InDelta(t, 0.01, ev.ImpactSpeed, 1e-12)
	assert.InDelta(t, 20, ev.Damage, 1e-9)
	assert.True(t, ship.Motion.Velocity.ApproxEqualThreshold(mgl64.Vec3{0.005, 0, 0}, 1e-12))
	assert.True(t, ship.Transform.Position.ApproxEqualThreshold(mgl64.Vec3{0.01, 0, 0}, 1e-12))
	assert.InDelta(t, 80, ship.Hull.Hull, 1e-9)
	assert.Equal(t, epoch, ship.Hull.Flash.Start)
	assert.Equal(t, CollisionFlash, ship.Hull.Flash.Color)

	// A second hit inside the damage cooldown still bounces but is free.
	ship.Transform.Position = mgl64.Vec3{0.009, 0, 0}
	ship.Motion.Velocity = mgl64.Vec3{-0.01, 0, 0}
	ev = ResolveStation(ship, &fs, st, p.Dock, CollisionFlash, epoch.Add(500*time.Millisecond))
	assert.Equal(t, EventCollision, ev.Kind)
	assert.Zero(t, ev.Damage)
	assert.InDelta(t, 80, ship.Hull.Hull, 1e-9)

	ship.Transform.Position = mgl64.Vec3{0.009, 0, 0}
	ship.Motion.Velocity = mgl64.Vec3{-0.01, 0, 0}
	ev = ResolveStation(ship, &fs, st, p.Dock, CollisionFlash, epoch.Add(2*time.Second))
	assert.InDelta(t, 20, ev.Damage, 1e-9)
	assert.InDelta(t, 60, ship.Hull.Hull, 1e-9)
}

func TestSlowContactSlides(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Transform.Position = mgl64.Vec3{0.009, 0, 0}
	ship.Motion.Velocity = mgl64.Vec3{-0.0001, 0.003, 0}
	var fs FlightState

	ev := ResolveStation(ship, &fs, testStation(), p.Dock, CollisionFlash, epoch)
	assert.Equal(t, EventContact, ev.Kind)
	assert.Zero(t, ev.Damage)
	assert.True(t, ship.Motion.Velocity.ApproxEqualThreshold(mgl64.Vec3{0, 0.003, 0}, 1e-12))
	assert.Equal(t, mgl64.Vec3{0.009, 0, 0}, ship.Transform.Position)
	assert.Equal(t, 100.0, ship.Hull.Hull)
}

func TestSeparatingShipIsIgnored(t *testing.T) {
	p := DefaultParams()
	ship := testShip()
	ship.Transform.Position = mgl64.Vec3{0.009, 0, 0}
	ship.Motion.Velocity = mgl64.Vec3{0.01, 0, 0}
	var fs FlightState

	ev := ResolveStation(ship, &fs, testStation(), p.Dock, CollisionFlash, epoch)
	assert.Equal(t, EventNone, ev.Kind)
	assert.Equal(t, mgl64.Vec3{0.01, 0, 0}, ship.Motion.Velocity)
}

func TestResolveDocksAtPlanet(t *testing.T) {
	p := DefaultParams()
	u := world.NewUniverse()
	planet := u.SpawnPlanet(world.Body{Name: "Verdance", Radius: 0.015}, world.Orbit{Distance: 1})
	player := u.SpawnPlayer(
		world.Body{Name: "Nomad", Radius: 0.0005},
		world.Transform{Position: mgl64.Vec3{1, 0, 0.015}, Rotation: mgl64.QuatIdent()},
		world.Motion{Velocity: mgl64.Vec3{0, 0, -0.001}},
		world.Hull{Hull: 100, MaxHull: 100},
		world.Drive{EngineRating: 1, Size: 1},
	)
	ship := ShipState{
		Entity:    player,
		Transform: u.Transform(player),
		Motion:    u.Motion(player),
		Drive:     u.Drive(player),
		Hull:      u.Hull(player),
	}
	var fs FlightState

	ev := Resolve(u, ship, &fs, p.Dock, CollisionFlash, epoch)
	assert.Equal(t, EventDock, ev.Kind)
	assert.Equal(t, planet, ev.Entity)
	assert.Equal(t, world.KindPlanet, ev.BodyKind)

	ship.Motion.Velocity = mgl64.Vec3{0, 0, 0.001}
	ev = Resolve(u, ship, &fs, p.Dock, CollisionFlash, epoch)
	assert.Equal(t, EventNone, ev.Kind, "a ship leaving the planet is not recaptured")
}
