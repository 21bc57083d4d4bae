package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

// NavigationTarget is either a live entity or a fixed point. Its position is
// resolved every tick and may become unavailable.
type NavigationTarget struct {
	Name         string
	Kind         Kind
	Radius       float64
	Entity       ecs.Entity
	HasEntity    bool
	Point        mgl64.Vec3
	Interstellar bool
}

// TargetEntity builds a target that follows e.
func TargetEntity(u *Universe, e ecs.Entity) (NavigationTarget, bool) {
	b := u.Body(e)
	if b == nil {
		return NavigationTarget{}, false
	}
	return NavigationTarget{
		Name:      b.Name,
		Kind:      b.Kind,
		Radius:    b.Radius,
		Entity:    e,
		HasEntity: true,
	}, true
}

// TargetPoint builds a fixed-point target. Interstellar targets have no
// standoff distance.
func TargetPoint(name string, p mgl64.Vec3, interstellar bool) NavigationTarget {
	return NavigationTarget{Name: name, Point: p, Interstellar: interstellar}
}

// Resolve returns the target's current world position. It reports false when
// the target entity no longer exists.
func (t NavigationTarget) Resolve(u *Universe) (mgl64.Vec3, bool) {
	if !t.HasEntity {
		return t.Point, true
	}
	tr := u.Transform(t.Entity)
	if tr == nil {
		return mgl64.Vec3{}, false
	}
	return tr.Position, true
}
