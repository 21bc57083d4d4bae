package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SystemLayout is the JSON-serializable definition of a star system.
// Distances are AU, angles are degrees, periods are game seconds.
type SystemLayout struct {
	Name     string       `json:"name"`
	Star     StarDef      `json:"star"`
	Planets  []PlanetDef  `json:"planets"`
	Stations []StationDef `json:"stations"`
	Ships    []ShipDef    `json:"ships"`
	Player   PlayerDef    `json:"player"`
}

// StarDef defines the system primary, fixed at the origin.
type StarDef struct {
	Name   string  `json:"name"`
	Radius float64 `json:"radius"`
	Color  uint8   `json:"color"`
}

// PlanetDef defines a planet on a circular orbit around the star.
type PlanetDef struct {
	Name        string  `json:"name"`
	Radius      float64 `json:"radius"`
	Color       uint8   `json:"color"`
	Ringed      bool    `json:"ringed"`
	Distance    float64 `json:"distance"`
	Period      float64 `json:"period"`
	Phase       float64 `json:"phase"`
	Inclination float64 `json:"inclination"`
}

// StationDef defines a station. With Planet set, Position is an offset from
// the planet and the station follows it around its orbit.
type StationDef struct {
	Name     string     `json:"name"`
	Radius   float64    `json:"radius"`
	Planet   string     `json:"planet,omitempty"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	Scale    [3]float64 `json:"scale,omitempty"`
}

// ShipDef defines a non-player ship.
type ShipDef struct {
	Name     string     `json:"name"`
	Faction  Faction    `json:"faction"`
	Radius   float64    `json:"radius"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	Yaw      float64    `json:"yaw"`
	Hull     float64    `json:"hull"`
}

// PlayerDef defines the player's ship.
type PlayerDef struct {
	Name         string     `json:"name"`
	Radius       float64    `json:"radius"`
	Position     [3]float64 `json:"position"`
	Yaw          float64    `json:"yaw"`
	Pitch        float64    `json:"pitch"`
	Hull         float64    `json:"hull"`
	Fuel         float64    `json:"fuel"`
	FuelCapacity float64    `json:"fuelCapacity"`
	EngineRating float64    `json:"engineRating"`
	Size         float64    `json:"size"`
}

// ErrInvalidLayout wraps every validation failure.
var ErrInvalidLayout = errors.New("invalid system layout")

// LoadSystemLayout parses and validates a SystemLayout from JSON bytes.
func LoadSystemLayout(data []byte) (*SystemLayout, error) {
	var layout SystemLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse system layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// Validate checks radii, names and drive values.
func (l *SystemLayout) Validate() error {
	if l.Star.Radius <= 0 {
		return fmt.Errorf("%w: star %q radius must be positive", ErrInvalidLayout, l.Star.Name)
	}
	planets := make(map[string]bool, len(l.Planets))
	for _, p := range l.Planets {
		if p.Radius <= 0 || p.Distance <= 0 {
			return fmt.Errorf("%w: planet %q needs positive radius and distance", ErrInvalidLayout, p.Name)
		}
		planets[p.Name] = true
	}
	for _, s := range l.Stations {
		if s.Radius <= 0 {
			return fmt.Errorf("%w: station %q radius must be positive", ErrInvalidLayout, s.Name)
		}
		if s.Planet != "" && !planets[s.Planet] {
			return fmt.Errorf("%w: station %q orbits unknown planet %q", ErrInvalidLayout, s.Name, s.Planet)
		}
	}
	for _, s := range l.Ships {
		if s.Radius <= 0 {
			return fmt.Errorf("%w: ship %q radius must be positive", ErrInvalidLayout, s.Name)
		}
	}
	if l.Player.EngineRating <= 0 || l.Player.Size <= 0 {
		return fmt.Errorf("%w: player needs positive engine rating and size", ErrInvalidLayout)
	}
	return nil
}

// Spawn populates u with the layout's bodies. The player's ship is available
// from u.Player afterwards.
func (l *SystemLayout) Spawn(u *Universe) {
	u.SpawnStar(Body{Name: l.Star.Name, Radius: l.Star.Radius, Color: l.Star.Color}, mgl64.Vec3{})

	planetOrbit := make(map[string]Orbit, len(l.Planets))
	for _, p := range l.Planets {
		b := Body{Name: p.Name, Radius: p.Radius, Color: p.Color}
		if p.Ringed {
			b.Flags |= FlagRinged
		}
		o := Orbit{
			Distance:    p.Distance,
			Period:      p.Period,
			Phase:       mgl64.DegToRad(p.Phase),
			Inclination: mgl64.DegToRad(p.Inclination),
		}
		u.SpawnPlanet(b, o)
		planetOrbit[p.Name] = o
	}

	for _, s := range l.Stations {
		b := Body{Name: s.Name, Radius: s.Radius, Scale: vec(s.Scale)}
		rot := Orientation(s.Yaw, s.Pitch)
		if s.Planet != "" {
			o := planetOrbit[s.Planet]
			o.Offset = vec(s.Position)
			u.SpawnOrbitingStation(b, rot, o)
			continue
		}
		u.SpawnStation(b, Transform{Position: vec(s.Position), Rotation: rot}, mgl64.Vec3{})
	}

	for _, s := range l.Ships {
		b := Body{Name: s.Name, Radius: s.Radius, Faction: s.Faction}
		switch s.Faction {
		case FactionEscort:
			b.Flags |= FlagEscort
		case FactionHostile:
			b.Flags |= FlagHostile
		}
		hull := s.Hull
		if hull <= 0 {
			hull = 100
		}
		u.SpawnShip(b,
			Transform{Position: vec(s.Position), Rotation: Orientation(s.Yaw, 0)},
			Motion{Velocity: vec(s.Velocity)},
			Hull{Hull: hull, MaxHull: hull},
		)
	}

	p := l.Player
	hull := p.Hull
	if hull <= 0 {
		hull = 100
	}
	u.SpawnPlayer(
		Body{Name: p.Name, Radius: p.Radius},
		Transform{Position: vec(p.Position), Rotation: Orientation(p.Yaw, p.Pitch)},
		Motion{},
		Hull{Hull: hull, MaxHull: hull},
		Drive{Fuel: p.Fuel, FuelCapacity: math.Max(p.FuelCapacity, p.Fuel), EngineRating: p.EngineRating, Size: p.Size},
	)
}

// Orientation builds a rotation from yaw (right of +Z, about +Y) and pitch
// (up from the horizon), both in degrees.
func Orientation(yawDeg, pitchDeg float64) mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(yawDeg), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(-mgl64.DegToRad(pitchDeg), mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

func vec(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }
