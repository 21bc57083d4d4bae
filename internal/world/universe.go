package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

// Universe is the entity store for one star system. Bodies are ark entities;
// iteration order is spawn order so per-tick results are deterministic.
type Universe struct {
	ECS *ecs.World

	bodies     *ecs.Map[Body]
	transforms *ecs.Map[Transform]
	motions    *ecs.Map[Motion]
	hulls      *ecs.Map[Hull]
	orbits     *ecs.Map[Orbit]
	drives     *ecs.Map[Drive]

	fixedMap   *ecs.Map2[Body, Transform]
	planetMap  *ecs.Map3[Body, Transform, Orbit]
	hullMap    *ecs.Map4[Body, Transform, Motion, Hull]
	orbiterMap *ecs.Map5[Body, Transform, Motion, Hull, Orbit]
	playerMap  *ecs.Map5[Body, Transform, Motion, Hull, Drive]

	entities  []ecs.Entity
	player    ecs.Entity
	hasPlayer bool
}

// NewUniverse creates an empty system.
func NewUniverse() *Universe {
	w := ecs.NewWorld(256)
	return &Universe{
		ECS:        w,
		bodies:     ecs.NewMap[Body](w),
		transforms: ecs.NewMap[Transform](w),
		motions:    ecs.NewMap[Motion](w),
		hulls:      ecs.NewMap[Hull](w),
		orbits:     ecs.NewMap[Orbit](w),
		drives:     ecs.NewMap[Drive](w),
		fixedMap:   ecs.NewMap2[Body, Transform](w),
		planetMap:  ecs.NewMap3[Body, Transform, Orbit](w),
		hullMap:    ecs.NewMap4[Body, Transform, Motion, Hull](w),
		orbiterMap: ecs.NewMap5[Body, Transform, Motion, Hull, Orbit](w),
		playerMap:  ecs.NewMap5[Body, Transform, Motion, Hull, Drive](w),
	}
}

func (u *Universe) track(e ecs.Entity) ecs.Entity {
	u.entities = append(u.entities, e)
	return e
}

// SpawnStar adds a fixed star.
func (u *Universe) SpawnStar(b Body, pos mgl64.Vec3) ecs.Entity {
	b.Kind = KindStar
	return u.track(u.fixedMap.NewEntity(&b, &Transform{Position: pos, Rotation: mgl64.QuatIdent()}))
}

// SpawnPlanet adds a planet on a circular orbit, placed at game time 0.
func (u *Universe) SpawnPlanet(b Body, o Orbit) ecs.Entity {
	b.Kind = KindPlanet
	t := Transform{Position: o.PositionAt(0), Rotation: mgl64.QuatIdent()}
	return u.track(u.planetMap.NewEntity(&b, &t, &o))
}

// SpawnStation adds a station. Stations drift with vel and carry a hull so
// they can flash when struck.
func (u *Universe) SpawnStation(b Body, t Transform, vel mgl64.Vec3) ecs.Entity {
	b.Kind = KindStation
	return u.track(u.hullMap.NewEntity(&b, &t, &Motion{Velocity: vel}, &Hull{Hull: 1, MaxHull: 1}))
}

// SpawnOrbitingStation adds a station that follows o, typically its
// planet's orbit with an offset.
func (u *Universe) SpawnOrbitingStation(b Body, rot mgl64.Quat, o Orbit) ecs.Entity {
	b.Kind = KindStation
	t := Transform{Position: o.PositionAt(0), Rotation: rot}
	return u.track(u.orbiterMap.NewEntity(&b, &t, &Motion{}, &Hull{Hull: 1, MaxHull: 1}, &o))
}

// SpawnShip adds a non-player ship.
func (u *Universe) SpawnShip(b Body, t Transform, m Motion, h Hull) ecs.Entity {
	b.Kind = KindShip
	return u.track(u.hullMap.NewEntity(&b, &t, &m, &h))
}

// SpawnPlayer adds the player's ship. A second call replaces the player handle.
func (u *Universe) SpawnPlayer(b Body, t Transform, m Motion, h Hull, d Drive) ecs.Entity {
	b.Kind = KindShip
	b.Faction = FactionPlayer
	e := u.track(u.playerMap.NewEntity(&b, &t, &m, &h, &d))
	u.player, u.hasPlayer = e, true
	return e
}

// Player returns the player's entity.
func (u *Universe) Player() (ecs.Entity, bool) {
	return u.player, u.hasPlayer && u.ECS.Alive(u.player)
}

// Entities returns every tracked entity in spawn order.
func (u *Universe) Entities() []ecs.Entity { return u.entities }

// Alive reports whether e still exists.
func (u *Universe) Alive(e ecs.Entity) bool { return !e.IsZero() && u.ECS.Alive(e) }

// Remove destroys an entity and stops tracking it.
func (u *Universe) Remove(e ecs.Entity) {
	if !u.Alive(e) {
		return
	}
	u.ECS.RemoveEntity(e)
	for i, x := range u.entities {
		if x == e {
			u.entities = append(u.entities[:i], u.entities[i+1:]...)
			break
		}
	}
	if e == u.player {
		u.hasPlayer = false
	}
}

// Body returns e's identity, or nil.
func (u *Universe) Body(e ecs.Entity) *Body {
	if !u.Alive(e) || !u.bodies.Has(e) {
		return nil
	}
	return u.bodies.Get(e)
}

// Transform returns e's pose, or nil.
func (u *Universe) Transform(e ecs.Entity) *Transform {
	if !u.Alive(e) || !u.transforms.Has(e) {
		return nil
	}
	return u.transforms.Get(e)
}

// Motion returns e's velocity, or nil for bodies that do not move freely.
func (u *Universe) Motion(e ecs.Entity) *Motion {
	if !u.Alive(e) || !u.motions.Has(e) {
		return nil
	}
	return u.motions.Get(e)
}

// Hull returns e's damage state, or nil.
func (u *Universe) Hull(e ecs.Entity) *Hull {
	if !u.Alive(e) || !u.hulls.Has(e) {
		return nil
	}
	return u.hulls.Get(e)
}

// Orbit returns e's orbit, or nil.
func (u *Universe) Orbit(e ecs.Entity) *Orbit {
	if !u.Alive(e) || !u.orbits.Has(e) {
		return nil
	}
	return u.orbits.Get(e)
}

// Drive returns e's propulsion, or nil.
func (u *Universe) Drive(e ecs.Entity) *Drive {
	if !u.Alive(e) || !u.drives.Has(e) {
		return nil
	}
	return u.drives.Get(e)
}

// Velocity returns e's velocity, zero for bodies without motion.
func (u *Universe) Velocity(e ecs.Entity) mgl64.Vec3 {
	if m := u.Motion(e); m != nil {
		return m.Velocity
	}
	return mgl64.Vec3{}
}

// FindByName returns the first entity whose body has the given name.
func (u *Universe) FindByName(name string) (ecs.Entity, bool) {
	for _, e := range u.entities {
		if b := u.Body(e); b != nil && b.Name == name {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// AdvanceOrbits moves orbiting bodies to their positions at gameTime.
// Bodies with motion also take the orbital velocity, scaled by timeRatio
// game seconds per real second.
func (u *Universe) AdvanceOrbits(gameTime, timeRatio float64) {
	for _, e := range u.entities {
		o := u.Orbit(e)
		if o == nil {
			continue
		}
		u.Transform(e).Position = o.PositionAt(gameTime)
		if m := u.Motion(e); m != nil {
			m.Velocity = o.VelocityAt(gameTime).Mul(timeRatio)
		}
	}
}

// Drift integrates every freely moving body except the player by dt
// seconds. Orbiting bodies are left to AdvanceOrbits.
func (u *Universe) Drift(dt float64) {
	for _, e := range u.entities {
		if u.hasPlayer && e == u.player {
			continue
		}
		m := u.Motion(e)
		if m == nil || u.orbits.Has(e) {
			continue
		}
		t := u.Transform(e)
		t.Position = t.Position.Add(m.Velocity.Mul(dt))
	}
}

// ExpireFlashes clears damage flashes older than d.
func (u *Universe) ExpireFlashes(now time.Time, d time.Duration) {
	for _, e := range u.entities {
		h := u.Hull(e)
		if h == nil || h.Flash.Start.IsZero() {
			continue
		}
		if !h.Flash.Active(now, d) {
			h.Flash = Flash{}
		}
	}
}
