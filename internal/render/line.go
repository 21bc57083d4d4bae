package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellPos is an integer grid position.
type CellPos struct {
	X, Y int
}

// LineCells returns the cells of the Bresenham line from (x0,y0) to (x1,y1),
// both endpoints included, in order.
func LineCells(x0, y0, x1, y1 int) []CellPos {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	cells := make([]CellPos, 0, max(dx, -dy)+1)
	err := dx + dy
	for {
		cells = append(cells, CellPos{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// EdgeGlyph picks the line glyph for a screen-space direction (y down).
func EdgeGlyph(dx, dy float64) byte {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay <= ax*0.4142:
		return '-'
	case ax <= ay*0.4142:
		return '|'
	case (dx > 0) != (dy > 0):
		return '/'
	default:
		return '\\'
	}
}

// DrawSegment rasterizes a camera-space segment into buf with depth testing.
// Depth is interpolated linearly in 1/z along the screen line. A zero glyph
// selects one from the segment's screen slope. bias is added to every depth.
func DrawSegment(buf *DepthBuffer, vp Viewport, a, b mgl64.Vec3, glyph byte, fg color.RGBA, bias float64) int {
	a, b, ok := clipNearSegment(a, b)
	if !ok {
		return 0
	}
	pa, _ := Project(a, vp)
	pb, _ := Project(b, vp)

	// Restrict the walk to the viewport so far-off endpoints stay cheap.
	t0, t1, ok := clipToRect(pa.X, pa.Y, pb.X, pb.Y, -1, -1, float64(vp.Cols)+1, float64(vp.Rows)+1)
	if !ok {
		return 0
	}
	lerp := func(t float64) (float64, float64) {
		return pa.X + (pb.X-pa.X)*t, pa.Y + (pb.Y-pa.Y)*t
	}
	x0, y0 := lerp(t0)
	x1, y1 := lerp(t1)

	if glyph == GlyphNone {
		glyph = EdgeGlyph(pb.X-pa.X, pb.Y-pa.Y)
	}

	invA, invB := 1/pa.Depth, 1/pb.Depth
	cells := LineCells(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)))
	written := 0
	for i, c := range cells {
		if !vp.ContainsCell(c.X, c.Y) {
			continue
		}
		t := t0
		if len(cells) > 1 {
			t = t0 + (t1-t0)*float64(i)/float64(len(cells)-1)
		}
		depth := 1 / (invA + (invB-invA)*t)
		if buf.Plot(c.X, c.Y, depth+bias, glyph, fg) {
			written++
		}
	}
	return written
}

// clipToRect is Liang-Barsky clipping of a 2D segment. It returns the
// parametric range of the segment that lies inside the rectangle.
func clipToRect(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}
	if clip(-dx, x0-minX) && clip(dx, maxX-x0) && clip(-dy, y0-minY) && clip(dy, maxY-y0) {
		return t0, t1, true
	}
	return 0, 0, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
