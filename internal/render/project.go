package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NearPlane is the nearest camera-space depth in AU. Closer points are clamped to it.
const NearPlane = 1e-6

const (
	defaultFOV        = 90.0
	defaultCellAspect = 2.0
)

// Viewport describes the character grid the 3D view is projected onto.
// FOV is horizontal, in degrees. CellAspect is cell height over cell width.
type Viewport struct {
	Cols       int
	Rows       int
	FOV        float64
	CellAspect float64
}

func (vp Viewport) aspect() float64 {
	if vp.CellAspect <= 0 {
		return defaultCellAspect
	}
	return vp.CellAspect
}

func (vp Viewport) tanHalfFOV() float64 {
	fov := vp.FOV
	if fov <= 0 || fov >= 180 {
		fov = defaultFOV
	}
	return math.Tan(mgl64.DegToRad(fov) / 2)
}

func (vp Viewport) halfW() float64 { return float64(vp.Cols) / 2 }
func (vp Viewport) halfH() float64 { return float64(vp.Rows) / 2 }

// Contains reports whether a continuous screen position lies on the grid.
func (vp Viewport) Contains(x, y float64) bool {
	return x >= 0 && x < float64(vp.Cols) && y >= 0 && y < float64(vp.Rows)
}

// ContainsCell reports whether an integer cell lies on the grid.
func (vp Viewport) ContainsCell(x, y int) bool {
	return x >= 0 && x < vp.Cols && y >= 0 && y < vp.Rows
}

// CellsPerUnit is the horizontal number of cells one unit of x/z spans.
func (vp Viewport) CellsPerUnit() float64 {
	return vp.halfW() / vp.tanHalfFOV()
}

// Ray returns the camera-space direction (with z = 1) through a continuous
// screen position. Ray is the exact inverse of Project at unit depth.
func (vp Viewport) Ray(sx, sy float64) mgl64.Vec3 {
	k := vp.CellsPerUnit()
	return mgl64.Vec3{
		(sx - vp.halfW()) / k,
		-(sy - vp.halfH()) * vp.aspect() / k,
		1,
	}
}

// ScreenPoint is a projected position in continuous cell coordinates.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// Cell returns the integer cell containing the point.
func (p ScreenPoint) Cell() (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// Project maps a camera-space point (+X right, +Y up, +Z forward) to the grid.
// Points at or behind the camera have no projection; points closer than
// NearPlane are treated as lying on it.
func Project(p mgl64.Vec3, vp Viewport) (ScreenPoint, bool) {
	z := p.Z()
	if z <= 0 || math.IsNaN(z) {
		return ScreenPoint{}, false
	}
	if z < NearPlane {
		z = NearPlane
	}
	k := vp.CellsPerUnit()
	return ScreenPoint{
		X:     vp.halfW() + p.X()/z*k,
		Y:     vp.halfH() - p.Y()/z*k/vp.aspect(),
		Depth: z,
	}, true
}

// Camera is a pose in world space. Camera space is the world rotated into
// the camera's frame with the camera at the origin.
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// ToCamera transforms a world-space point into camera space.
func (c Camera) ToCamera(world mgl64.Vec3) mgl64.Vec3 {
	return c.Rotation.Conjugate().Rotate(world.Sub(c.Position))
}

// DirToCamera rotates a world-space direction into camera space.
func (c Camera) DirToCamera(dir mgl64.Vec3) mgl64.Vec3 {
	return c.Rotation.Conjugate().Rotate(dir)
}

// DirToWorld rotates a camera-space direction into world space.
func (c Camera) DirToWorld(dir mgl64.Vec3) mgl64.Vec3 {
	return c.Rotation.Rotate(dir)
}

// clipNearSegment clips a camera-space segment to z >= NearPlane.
func clipNearSegment(a, b mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	za, zb := a.Z(), b.Z()
	if za < NearPlane && zb < NearPlane {
		return a, b, false
	}
	if za < NearPlane {
		a = intersectNear(a, b)
	} else if zb < NearPlane {
		b = intersectNear(b, a)
	}
	return a, b, true
}

// intersectNear returns the point on segment (behind, front) lying on the near plane.
func intersectNear(behind, front mgl64.Vec3) mgl64.Vec3 {
	t := (NearPlane - behind.Z()) / (front.Z() - behind.Z())
	p := behind.Add(front.Sub(behind).Mul(t))
	p[2] = NearPlane
	return p
}
