package world

import (
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the identity of anything in a star system. Radius is in AU.
type Body struct {
	Kind    Kind
	Name    string
	Radius  float64
	Faction Faction
	Flags   Flags
	Color   uint8 // palette index
	Scale   mgl64.Vec3
}

// Transform is a world-space pose. Orientation maps local to world; local +Z
// is forward.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Forward returns the pose's world-space forward direction.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

// Motion is a world-space velocity in AU per second.
type Motion struct {
	Velocity mgl64.Vec3
}

// Flash is a transient damage tint. A zero Start means no flash.
type Flash struct {
	Start time.Time
	Color color.RGBA
}

// Active reports whether the flash is still showing at now.
func (f Flash) Active(now time.Time, d time.Duration) bool {
	return !f.Start.IsZero() && now.Sub(f.Start) < d
}

// Hull is the damage state of a ship or station.
type Hull struct {
	Hull    float64
	MaxHull float64
	Shields float64
	Flash   Flash
}

// Destroyed reports whether the hull has been reduced to zero.
func (h Hull) Destroyed() bool { return h.Hull <= 0 }

// Drive holds a ship's propulsion characteristics. Size is the hull class
// that divides thrust.
type Drive struct {
	Fuel         float64
	FuelCapacity float64
	EngineRating float64
	Size         float64
}

// FuelFraction returns fuel as a fraction of capacity in [0,1].
func (d Drive) FuelFraction() float64 {
	if d.FuelCapacity <= 0 {
		return 0
	}
	return min(1, max(0, d.Fuel/d.FuelCapacity))
}
