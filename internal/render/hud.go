package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IndicatorKind says how a target is shown.
type IndicatorKind uint8

const (
	IndicatorNone  IndicatorKind = iota
	IndicatorLabel               // target projects onto the viewport
	IndicatorArrow               // target is off-screen or behind; arrow on the edge
)

// Indicator places a target marker on the grid.
type Indicator struct {
	Kind     IndicatorKind
	X, Y     int
	Glyph    byte
	Distance float64
	Behind   bool
}

// GlyphTargetMarker marks an on-screen target.
const GlyphTargetMarker byte = '+'

// Indicate computes the marker for a world-space target. Off-screen targets
// get a directional arrow clamped to the viewport edge, inset by margin cells.
func Indicate(cam Camera, vp Viewport, target mgl64.Vec3, margin int) Indicator {
	if vp.Cols <= 0 || vp.Rows <= 0 {
		return Indicator{}
	}
	c := cam.ToCamera(target)
	ind := Indicator{Distance: c.Len(), Behind: c.Z() <= 0}

	if sp, ok := Project(c, vp); ok && vp.Contains(sp.X, sp.Y) {
		ind.Kind = IndicatorLabel
		ind.X, ind.Y = sp.Cell()
		ind.Glyph = GlyphTargetMarker
		return ind
	}

	// Screen-space direction, +y down, corrected for cell aspect.
	dx := c.X()
	dy := -c.Y() / vp.aspect()
	if math.Abs(dx) < 1e-12 && math.Abs(dy) < 1e-12 {
		dy = 1
	}
	margin = clampInt(margin, 0, min(vp.Cols, vp.Rows)/2)
	cx := float64(vp.Cols-1) / 2
	cy := float64(vp.Rows-1) / 2
	hw := cx - float64(margin)
	hh := cy - float64(margin)
	s := math.Inf(1)
	if dx != 0 {
		s = math.Min(s, hw/math.Abs(dx))
	}
	if dy != 0 {
		s = math.Min(s, hh/math.Abs(dy))
	}
	ind.Kind = IndicatorArrow
	ind.X = clampInt(int(math.Round(cx+dx*s)), margin, vp.Cols-1-margin)
	ind.Y = clampInt(int(math.Round(cy+dy*s)), margin, vp.Rows-1-margin)
	ind.Glyph = DirectionGlyph(dx, -dy)
	return ind
}

// DrawIndicator overlays the marker and, for on-screen targets, the label
// to its right (or left when it would run off the grid).
func DrawIndicator(buf *DepthBuffer, vp Viewport, ind Indicator, label string, fg color.RGBA) {
	switch ind.Kind {
	case IndicatorLabel:
		buf.Overlay(ind.X, ind.Y, ind.Glyph, fg)
		x := ind.X + 2
		if x+len(label) > vp.Cols {
			x = ind.X - 1 - len(label)
		}
		buf.WriteString(x, ind.Y, label, fg)
	case IndicatorArrow:
		buf.Overlay(ind.X, ind.Y, ind.Glyph, fg)
	}
}

// Heading returns the compass heading and pitch of a rotation in degrees.
// Heading 0 is world +Z, increasing toward +X, in [0, 360).
func Heading(rot mgl64.Quat) (heading, pitch float64) {
	f := rot.Rotate(mgl64.Vec3{0, 0, 1})
	heading = mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
	if heading < 0 {
		heading += 360
	}
	pitch = mgl64.RadToDeg(math.Atan2(f.Y(), math.Hypot(f.X(), f.Z())))
	return heading, pitch
}

// AimRay unprojects a pointer cell into a world-space ray from the camera.
func AimRay(cam Camera, vp Viewport, cellX, cellY int) (origin, dir mgl64.Vec3) {
	d := vp.Ray(float64(cellX)+0.5, float64(cellY)+0.5).Normalize()
	return cam.Position, cam.DirToWorld(d)
}

// AimCandidate is a pickable body.
type AimCandidate struct {
	Position mgl64.Vec3
	Radius   float64
}

// ResolveAim returns the world point under the pointer: the nearest candidate
// whose projection lies within pickCells of the pointer (or whose sphere the
// ray hits), else the point farDistance along the ray. The index is -1 when
// nothing was picked.
func ResolveAim(cam Camera, vp Viewport, cellX, cellY int, candidates []AimCandidate, pickCells, farDistance float64) (mgl64.Vec3, int) {
	origin, dir := AimRay(cam, vp, cellX, cellY)
	px, py := float64(cellX)+0.5, float64(cellY)+0.5

	best, bestDist := -1, math.Inf(1)
	for i, c := range candidates {
		rel := c.Position.Sub(origin)
		along := rel.Dot(dir)
		if along <= 0 {
			continue
		}
		hit := rel.Sub(dir.Mul(along)).Len() <= c.Radius
		if !hit {
			sp, ok := Project(cam.ToCamera(c.Position), vp)
			hit = ok && math.Hypot(sp.X-px, (sp.Y-py)*vp.aspect()) <= pickCells
		}
		if hit && along < bestDist {
			best, bestDist = i, along
		}
	}
	if best >= 0 {
		return candidates[best].Position, best
	}
	return origin.Add(dir.Mul(farDistance)), -1
}
