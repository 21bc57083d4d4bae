package world

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnTestPlayer(u *Universe) {
	u.SpawnPlayer(
		Body{Name: "Nomad", Radius: 0.0005},
		Transform{Rotation: mgl64.QuatIdent()},
		Motion{Velocity: mgl64.Vec3{1, 0, 0}},
		Hull{Hull: 100, MaxHull: 100},
		Drive{Fuel: 50, FuelCapacity: 100, EngineRating: 1, Size: 1},
	)
}

func TestOrbitPositionAt(t *testing.T) {
	o := Orbit{Center: mgl64.Vec3{1, 0, 0}, Distance: 2, Period: 100}

	assert.True(t, o.PositionAt(0).ApproxEqualThreshold(mgl64.Vec3{3, 0, 0}, 1e-12))
	assert.True(t, o.PositionAt(25).ApproxEqualThreshold(mgl64.Vec3{1, 0, 2}, 1e-12))
	assert.True(t, o.PositionAt(125).ApproxEqualThreshold(o.PositionAt(25), 1e-9), "periodic")

	o.Inclination = math.Pi / 2
	assert.True(t, o.PositionAt(25).ApproxEqualThreshold(mgl64.Vec3{1, 2, 0}, 1e-12))

	fixed := Orbit{Distance: 1, Phase: math.Pi}
	assert.True(t, fixed.PositionAt(1e6).ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12))
}

func TestUniverseGettersAreNilSafe(t *testing.T) {
	u := NewUniverse()
	star := u.SpawnStar(Body{Name: "Sol", Radius: 0.005}, mgl64.Vec3{})

	assert.Equal(t, KindStar, u.Body(star).Kind)
	assert.NotNil(t, u.Transform(star))
	assert.Nil(t, u.Motion(star))
	assert.Nil(t, u.Hull(star))
	assert.Nil(t, u.Drive(star))
	assert.Equal(t, mgl64.Vec3{}, u.Velocity(star))

	_, ok := u.Player()
	assert.False(t, ok)

	u.Remove(star)
	assert.Nil(t, u.Body(star))
	assert.Empty(t, u.Entities())
	u.Remove(star)
}

func TestUniverseRemovePlayer(t *testing.T) {
	u := NewUniverse()
	spawnTestPlayer(u)
	player, ok := u.Player()
	require.True(t, ok)

	u.Remove(player)
	_, ok = u.Player()
	assert.False(t, ok)
}

func TestAdvanceOrbits(t *testing.T) {
	u := NewUniverse()
	p := u.SpawnPlanet(Body{Name: "Terra", Radius: 0.001}, Orbit{Distance: 1, Period: 4})
	assert.True(t, u.Transform(p).Position.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12))

	u.AdvanceOrbits(1, 1)
	assert.True(t, u.Transform(p).Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-12))
}

func TestOrbitingStationFollowsItsOrbit(t *testing.T) {
	u := NewUniverse()
	o := Orbit{Distance: 1, Period: 4}
	p := u.SpawnPlanet(Body{Name: "Terra", Radius: 0.001}, o)
	o.Offset = mgl64.Vec3{0, 0, -0.1}
	st := u.SpawnOrbitingStation(Body{Name: "Terra Port", Radius: 0.0002}, mgl64.QuatIdent(), o)
	assert.Equal(t, KindStation, u.Body(st).Kind)

	for _, gt := range []float64{0.5, 1, 3.25} {
		u.AdvanceOrbits(gt, 10)
		offset := u.Transform(st).Position.Sub(u.Transform(p).Position)
		assert.True(t, offset.ApproxEqualThreshold(mgl64.Vec3{0, 0, -0.1}, 1e-12), "game time %v", gt)
	}

	// At game time 1 the orbit heads along -X at 2*pi/4 AU per game second.
	u.AdvanceOrbits(1, 10)
	assert.True(t, u.Velocity(st).ApproxEqualThreshold(mgl64.Vec3{-math.Pi / 2 * 10, 0, 0}, 1e-9))

	// Drift leaves orbiting bodies alone.
	before := u.Transform(st).Position
	u.Drift(1)
	assert.Equal(t, before, u.Transform(st).Position)
}

func TestDriftSkipsPlayer(t *testing.T) {
	u := NewUniverse()
	spawnTestPlayer(u)
	ship := u.SpawnShip(Body{Name: "Ox", Radius: 0.001},
		Transform{Rotation: mgl64.QuatIdent()},
		Motion{Velocity: mgl64.Vec3{0, 0.5, 0}},
		Hull{Hull: 10, MaxHull: 10})

	u.Drift(2)
	player, _ := u.Player()
	assert.Equal(t, mgl64.Vec3{}, u.Transform(player).Position)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, u.Transform(ship).Position)
}

func TestExpireFlashes(t *testing.T) {
	u := NewUniverse()
	spawnTestPlayer(u)
	player, _ := u.Player()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	u.Hull(player).Flash = Flash{Start: start}

	u.ExpireFlashes(start.Add(100*time.Millisecond), time.Second)
	assert.False(t, u.Hull(player).Flash.Start.IsZero())

	u.ExpireFlashes(start.Add(time.Second), time.Second)
	assert.True(t, u.Hull(player).Flash.Start.IsZero())
}

func TestTargetResolve(t *testing.T) {
	u := NewUniverse()
	st := u.SpawnStation(Body{Name: "Kestrel", Radius: 0.006},
		Transform{Position: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.QuatIdent()}, mgl64.Vec3{})

	tgt, ok := TargetEntity(u, st)
	require.True(t, ok)
	assert.Equal(t, KindStation, tgt.Kind)
	assert.Equal(t, 0.006, tgt.Radius)
	pos, ok := tgt.Resolve(u)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, pos)

	u.Remove(st)
	_, ok = tgt.Resolve(u)
	assert.False(t, ok)
	_, ok = TargetEntity(u, st)
	assert.False(t, ok)

	pt := TargetPoint("gate", mgl64.Vec3{9, 9, 9}, true)
	pos, ok = pt.Resolve(u)
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{9, 9, 9}, pos)
}

func TestKindsAndFlags(t *testing.T) {
	k, err := ParseKind("Station")
	require.NoError(t, err)
	assert.Equal(t, KindStation, k)
	assert.Equal(t, "station", k.String())
	_, err = ParseKind("moon")
	assert.Error(t, err)

	var f Faction
	require.NoError(t, f.UnmarshalJSON([]byte(`"escort"`)))
	assert.Equal(t, FactionEscort, f)

	flags := FlagRinged | FlagHostile
	assert.True(t, flags.Has(FlagRinged))
	assert.False(t, flags.Has(FlagEscort))

	assert.InDelta(t, 0.5, Drive{Fuel: 50, FuelCapacity: 100}.FuelFraction(), 1e-12)
	assert.Zero(t, Drive{Fuel: 50}.FuelFraction())
}
