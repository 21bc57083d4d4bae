package game

import (
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// DockParams tune docking and collision response.
type DockParams struct {
	CollisionRadiusFactor float64       `mapstructure:"collisionRadiusFactor"`
	StationDockFactor     float64       `mapstructure:"stationDockFactor"`
	PlanetDockFactor      float64       `mapstructure:"planetDockFactor"`
	EntranceConeDot       float64       `mapstructure:"entranceConeDot"`
	MinCollisionSpeed     float64       `mapstructure:"minCollisionSpeed"` // AU/s; slower contacts only slide
	Restitution           float64       `mapstructure:"restitution"`
	DamagePerSpeed        float64       `mapstructure:"damagePerSpeed"` // hull per AU/s of impact
	DamageCooldown        time.Duration `mapstructure:"damageCooldown"`
}

// EventKind classifies what the resolver found.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventDock
	EventCollision
	EventContact // a slow touch; the ship slides along the hull
)

func (k EventKind) String() string {
	switch k {
	case EventDock:
		return "dock"
	case EventCollision:
		return "collision"
	case EventContact:
		return "contact"
	default:
		return "none"
	}
}

// Event is the resolver's outcome for one tick.
type Event struct {
	Kind        EventKind
	Entity      ecs.Entity
	Name        string
	BodyKind    world.Kind
	ImpactSpeed float64
	Damage      float64
}

// Reflect bounces v off a surface with unit normal n, keeping the tangential
// part and scaling the normal part by restitution e.
func Reflect(v, n mgl64.Vec3, e float64) mgl64.Vec3 {
	vn := n.Mul(v.Dot(n))
	return v.Sub(vn).Sub(vn.Mul(e))
}

// Station is the resolver's view of a station.
type Station struct {
	Entity   ecs.Entity
	Name     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Rotation mgl64.Quat
	Radius   float64
}

// Resolve checks the player against every station and planet in spawn order
// and applies the first hit. It never moves anything but the player.
func Resolve(u *world.Universe, ship ShipState, fs *FlightState, p DockParams, flashColor color.RGBA, now time.Time) Event {
	for _, e := range u.Entities() {
		if e == ship.Entity {
			continue
		}
		b := u.Body(e)
		t := u.Transform(e)
		if b == nil || t == nil {
			continue
		}
		switch b.Kind {
		case world.KindStation:
			st := Station{Entity: e, Name: b.Name, Position: t.Position, Velocity: u.Velocity(e), Rotation: t.Rotation, Radius: b.Radius}
			if ev := ResolveStation(ship, fs, st, p, flashColor, now); ev.Kind != EventNone {
				return ev
			}
		case world.KindPlanet:
			offset := ship.Transform.Position.Sub(t.Position)
			if offset.Len() > b.Radius*p.PlanetDockFactor {
				continue
			}
			// Only a closing ship docks, so a moored ship can fly out.
			if approach := -ship.Motion.Velocity.Sub(u.Velocity(e)).Dot(offset); approach > 0 {
				return Event{Kind: EventDock, Entity: e, Name: b.Name, BodyKind: world.KindPlanet}
			}
		}
	}
	return Event{}
}

// ResolveStation docks, slides or bounces the ship against one station.
//
// Inside the entrance cone the hull is open: the ship docks once it is
// within the dock radius and closing, and otherwise passes freely. Outside
// the cone a closing ship slower than MinCollisionSpeed loses its normal
// velocity; faster, it is reflected, pushed back to the shell and damaged
// unless it was damaged within DamageCooldown.
func ResolveStation(ship ShipState, fs *FlightState, st Station, p DockParams, flashColor color.RGBA, now time.Time) Event {
	offset := ship.Transform.Position.Sub(st.Position)
	dist := offset.Len()
	shell := st.Radius * p.CollisionRadiusFactor
	if dist > shell {
		return Event{}
	}

	entrance := st.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	n := entrance
	if dist > 0 {
		n = offset.Mul(1 / dist)
	}
	rel := ship.Motion.Velocity.Sub(st.Velocity)
	approach := -rel.Dot(n)
	ev := Event{Entity: st.Entity, Name: st.Name, BodyKind: world.KindStation, ImpactSpeed: approach}

	if entrance.Dot(n) >= p.EntranceConeDot {
		if dist <= st.Radius*p.StationDockFactor && approach > 0 {
			ev.Kind = EventDock
			return ev
		}
		return Event{}
	}
	if approach <= 0 {
		return Event{}
	}

	if approach < p.MinCollisionSpeed {
		ship.Motion.Velocity = ship.Motion.Velocity.Sub(n.Mul(rel.Dot(n)))
		ev.Kind = EventContact
		return ev
	}

	ship.Motion.Velocity = Reflect(rel, n, p.Restitution).Add(st.Velocity)
	ship.Transform.Position = st.Position.Add(n.Mul(shell))
	ev.Kind = EventCollision

	if fs.LastDamageAt.IsZero() || now.Sub(fs.LastDamageAt) >= p.DamageCooldown {
		ev.Damage = approach * p.DamagePerSpeed
		if ship.Hull != nil {
			ship.Hull.Hull = max(0, ship.Hull.Hull-ev.Damage)
			ship.Hull.Flash = world.Flash{Start: now, Color: flashColor}
		}
		fs.LastDamageAt = now
	}
	return ev
}
