package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Keys is the raw held-key state for one tick.
type Keys struct {
	Accelerate bool
	Brake      bool
	Boost      bool
	YawLeft    bool
	YawRight   bool
	PitchUp    bool
	PitchDown  bool
	RollLeft   bool
	RollRight  bool
	Fire       bool
}

// Controls are the flight inputs for one tick. Axes are in [-1, 1]:
// positive yaw turns right, positive pitch noses up, positive roll banks right.
type Controls struct {
	Accelerate bool
	Brake      bool
	Boost      bool
	Yaw        float64
	Pitch      float64
	Roll       float64
	Fire       bool

	// MatchVelocity is the frame braking works in. Manual braking uses
	// the zero vector; autonav brakes toward its target's velocity.
	MatchVelocity mgl64.Vec3
}

func axis(neg, pos bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	}
	return 0
}

// ControlsFromKeys converts held keys into flight controls.
func ControlsFromKeys(k Keys) Controls {
	return Controls{
		Accelerate: k.Accelerate,
		Brake:      k.Brake,
		Boost:      k.Boost,
		Yaw:        axis(k.YawLeft, k.YawRight),
		Pitch:      axis(k.PitchDown, k.PitchUp),
		Roll:       axis(k.RollLeft, k.RollRight),
		Fire:       k.Fire,
	}
}

// Manual reports whether the pilot is touching any flight control.
// Fire alone does not count.
func (c Controls) Manual() bool {
	return c.Accelerate || c.Brake || c.Boost || c.Yaw != 0 || c.Pitch != 0 || c.Roll != 0
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Turn applies one tick of yaw, pitch and roll in the ship's local frame.
// rate is radians per second at full deflection.
func Turn(rot mgl64.Quat, c Controls, rate, dt float64) mgl64.Quat {
	step := rate * dt
	if step == 0 || (c.Yaw == 0 && c.Pitch == 0 && c.Roll == 0) {
		return rot
	}
	// Local +X is right, +Y up, +Z forward. Nosing up rotates forward toward
	// +Y, which is a negative turn about +X; banking right is negative about +Z.
	yaw := mgl64.QuatRotate(clampAxis(c.Yaw)*step, axisY)
	pitch := mgl64.QuatRotate(-clampAxis(c.Pitch)*step, axisX)
	roll := mgl64.QuatRotate(-clampAxis(c.Roll)*step, axisZ)
	return rot.Mul(yaw).Mul(pitch).Mul(roll).Normalize()
}

// Forward returns local +Z rotated into world space.
func Forward(rot mgl64.Quat) mgl64.Vec3 {
	return rot.Rotate(axisZ)
}
