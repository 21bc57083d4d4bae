package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit is a circular orbit around Center. Period is in game seconds;
// Phase and Inclination are radians. Offset rides along with the orbit,
// which lets a station keep station on its planet.
type Orbit struct {
	Center      mgl64.Vec3
	Distance    float64
	Period      float64
	Phase       float64
	Inclination float64
	Offset      mgl64.Vec3
}

func (o Orbit) angle(gameTime float64) float64 {
	theta := o.Phase
	if o.Period > 0 {
		theta += 2 * math.Pi * math.Mod(gameTime/o.Period, 1)
	}
	return theta
}

// PositionAt returns the orbital position at the given game time. A
// non-positive period keeps the body fixed at its phase angle.
func (o Orbit) PositionAt(gameTime float64) mgl64.Vec3 {
	theta := o.angle(gameTime)
	x := math.Cos(theta) * o.Distance
	along := math.Sin(theta) * o.Distance
	return o.Center.Add(o.Offset).Add(mgl64.Vec3{
		x,
		along * math.Sin(o.Inclination),
		along * math.Cos(o.Inclination),
	})
}

// VelocityAt is the orbital velocity in AU per game second.
func (o Orbit) VelocityAt(gameTime float64) mgl64.Vec3 {
	if o.Period <= 0 {
		return mgl64.Vec3{}
	}
	theta := o.angle(gameTime)
	w := 2 * math.Pi / o.Period * o.Distance
	dx := -math.Sin(theta) * w
	dAlong := math.Cos(theta) * w
	return mgl64.Vec3{dx, dAlong * math.Sin(o.Inclination), dAlong * math.Cos(o.Inclination)}
}
