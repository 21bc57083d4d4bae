package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// planarTolerance scales the degenerate-normal test to the polygon's size.
const planarTolerance = 1e-9

// facePlane is a convex or concave planar polygon with a 2D basis in its plane,
// used for point-in-polygon tests of ray hits.
type facePlane struct {
	origin mgl64.Vec3
	normal mgl64.Vec3
	u, w   mgl64.Vec3
	pts    [][2]float64
}

// newellNormal returns the area-weighted normal of a polygon. Its direction
// follows the right-hand rule over the vertex order.
func newellNormal(verts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i, cur := range verts {
		next := verts[(i+1)%len(verts)]
		n[0] += (cur.Y() - next.Y()) * (cur.Z() + next.Z())
		n[1] += (cur.Z() - next.Z()) * (cur.X() + next.X())
		n[2] += (cur.X() - next.X()) * (cur.Y() + next.Y())
	}
	return n
}

func newFacePlane(verts []mgl64.Vec3) (facePlane, bool) {
	if len(verts) < 3 {
		return facePlane{}, false
	}
	var scale float64
	for i, v := range verts {
		e := verts[(i+1)%len(verts)].Sub(v)
		scale += e.Dot(e)
	}
	n := newellNormal(verts)
	if scale == 0 || n.Len() < planarTolerance*scale {
		return facePlane{}, false
	}
	n = n.Normalize()

	var u mgl64.Vec3
	for _, v := range verts[1:] {
		if d := v.Sub(verts[0]); d.Len() > 0 {
			u = d.Normalize()
			break
		}
	}
	w := n.Cross(u)

	fp := facePlane{origin: verts[0], normal: n, u: u, w: w, pts: make([][2]float64, len(verts))}
	for i, v := range verts {
		fp.pts[i] = fp.flatten(v)
	}
	return fp, true
}

func (fp facePlane) flatten(p mgl64.Vec3) [2]float64 {
	d := p.Sub(fp.origin)
	return [2]float64{d.Dot(fp.u), d.Dot(fp.w)}
}

// intersect returns the depth at which a camera ray with z = 1 meets the plane.
func (fp facePlane) intersect(dir mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	denom := fp.normal.Dot(dir)
	if math.Abs(denom) < 1e-12*dir.Len() {
		return mgl64.Vec3{}, 0, false
	}
	s := fp.normal.Dot(fp.origin) / denom
	if s < NearPlane {
		return mgl64.Vec3{}, 0, false
	}
	return dir.Mul(s), s, true
}

// contains is an even-odd crossing test in the plane's 2D basis.
func (fp facePlane) contains(p mgl64.Vec3) bool {
	q := fp.flatten(p)
	inside := false
	n := len(fp.pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := fp.pts[i], fp.pts[j]
		if (a[1] > q[1]) != (b[1] > q[1]) {
			x := a[0] + (q[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
			if q[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// clipNearPolygon is Sutherland-Hodgman against z = NearPlane.
func clipNearPolygon(verts []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(verts)+2)
	for i, cur := range verts {
		prev := verts[(i+len(verts)-1)%len(verts)]
		curIn := cur.Z() >= NearPlane
		prevIn := prev.Z() >= NearPlane
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersectNear(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersectNear(cur, prev))
		}
	}
	return out
}

// FillPolygon fills a planar camera-space polygon. Each candidate cell casts
// a ray through its centre, intersects the polygon's plane and keeps the hit
// when it falls inside the polygon, so depth is exact per cell. bias is
// added to every depth. Returns the number of cells written.
func FillPolygon(buf *DepthBuffer, vp Viewport, verts []mgl64.Vec3, glyph byte, fg color.RGBA, bias float64) int {
	poly := clipNearPolygon(verts)
	if len(poly) < 3 {
		return 0
	}
	plane, ok := newFacePlane(poly)
	if !ok {
		return 0
	}

	pts := make([]ScreenPoint, len(poly))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	anyOnScreen := false
	for i, v := range poly {
		sp, _ := Project(v, vp)
		pts[i] = sp
		anyOnScreen = anyOnScreen || vp.Contains(sp.X, sp.Y)
		minX, maxX = math.Min(minX, sp.X), math.Max(maxX, sp.X)
		minY, maxY = math.Min(minY, sp.Y), math.Max(maxY, sp.Y)
	}

	x0 := clampInt(int(math.Floor(minX))-1, 0, vp.Cols-1)
	x1 := clampInt(int(math.Ceil(maxX))+1, 0, vp.Cols-1)
	y0 := clampInt(int(math.Floor(minY))-1, 0, vp.Rows-1)
	y1 := clampInt(int(math.Ceil(maxY))+1, 0, vp.Rows-1)
	if !anyOnScreen && edgesCrossViewport(pts, vp) {
		x0, x1, y0, y1 = 0, vp.Cols-1, 0, vp.Rows-1
	}

	written := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			hit, depth, ok := plane.intersect(vp.Ray(float64(x)+0.5, float64(y)+0.5))
			if !ok || !plane.contains(hit) {
				continue
			}
			if buf.Plot(x, y, depth+bias, glyph, fg) {
				written++
			}
		}
	}
	return written
}

// edgesCrossViewport reports whether any projected polygon edge passes
// through the viewport rectangle.
func edgesCrossViewport(pts []ScreenPoint, vp Viewport) bool {
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		if _, _, ok := clipToRect(a.X, a.Y, b.X, b.Y, 0, 0, float64(vp.Cols), float64(vp.Rows)); ok {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
