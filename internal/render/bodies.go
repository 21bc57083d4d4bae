package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body drawing constants.
const (
	RingRadiusFactor = 1.9 // ring radius as a multiple of planet radius
	ringSegments     = 48
	StarGlowFactor   = 2.2 // glow radius as a multiple of star radius
)

// shadeRamp maps normalised squared distance from a disc centre to a glyph.
// The outermost band is the dither glyph so nearer solids win at the rim.
var shadeRamp = []struct {
	limit float64
	glyph byte
}{
	{0.35, GlyphSolid},
	{0.60, GlyphDark},
	{0.85, GlyphMedium},
	{1.00, GlyphDither},
}

func rampGlyph(d2 float64) byte {
	for _, r := range shadeRamp {
		if d2 <= r.limit {
			return r.glyph
		}
	}
	return GlyphNone
}

// disc is a sphere's projected footprint.
type disc struct {
	center ScreenPoint
	rx, ry float64 // radii in cells
	z      float64 // camera-space centre depth
	radius float64
}

func projectDisc(vp Viewport, c mgl64.Vec3, radius float64) (disc, bool) {
	if c.Z() <= radius || c.Z() <= NearPlane {
		return disc{}, false
	}
	sp, ok := Project(c, vp)
	if !ok {
		return disc{}, false
	}
	rx := radius / c.Z() * vp.CellsPerUnit()
	return disc{center: sp, rx: rx, ry: rx / vp.aspect(), z: c.Z(), radius: radius}, true
}

// fill plots the disc scaled by extent, choosing glyph and colour per cell.
func (d disc) fill(buf *DepthBuffer, vp Viewport, extent float64, shade func(d2 float64) (byte, color.RGBA, float64)) int {
	rx, ry := d.rx*extent, d.ry*extent
	x0 := clampInt(int(math.Floor(d.center.X-rx)), 0, vp.Cols-1)
	x1 := clampInt(int(math.Ceil(d.center.X+rx)), 0, vp.Cols-1)
	y0 := clampInt(int(math.Floor(d.center.Y-ry)), 0, vp.Rows-1)
	y1 := clampInt(int(math.Ceil(d.center.Y+ry)), 0, vp.Rows-1)

	written := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - d.center.X) / rx
			dy := (float64(y) + 0.5 - d.center.Y) / ry
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			glyph, fg, depth := shade(d2)
			if glyph == GlyphNone {
				continue
			}
			if buf.Plot(x, y, depth, glyph, fg) {
				written++
			}
		}
	}
	return written
}

// surfaceDepth approximates the depth of the sphere's front surface at a
// normalised squared disc distance.
func (d disc) surfaceDepth(d2 float64) float64 {
	return d.z - d.radius*math.Sqrt(math.Max(0, 1-d2))
}

// DrawPlanet renders a shaded planet disc, its dithered rim and, when
// ringed, an ellipse traced from the planet's equatorial plane.
func DrawPlanet(buf *DepthBuffer, vp Viewport, cam Camera, center mgl64.Vec3, radius float64, ringed bool, base color.RGBA) int {
	c := cam.ToCamera(center)
	written := 0
	if ringed {
		written += drawRing(buf, vp, cam, center, radius*RingRadiusFactor, Darken(base, 0.2))
	}
	d, ok := projectDisc(vp, c, radius)
	if !ok {
		return written
	}
	if d.rx < 0.5 {
		x, y := d.center.Cell()
		if buf.Plot(x, y, d.z, 'o', base) {
			written++
		}
		return written
	}
	written += d.fill(buf, vp, 1, func(d2 float64) (byte, color.RGBA, float64) {
		return rampGlyph(d2), Lerp(base, Darken(base, 0.6), d2), d.surfaceDepth(d2)
	})
	return written
}

func drawRing(buf *DepthBuffer, vp Viewport, cam Camera, center mgl64.Vec3, ringRadius float64, fg color.RGBA) int {
	written := 0
	prev := cam.ToCamera(center.Add(mgl64.Vec3{ringRadius, 0, 0}))
	for i := 1; i <= ringSegments; i++ {
		a := 2 * math.Pi * float64(i) / ringSegments
		p := cam.ToCamera(center.Add(mgl64.Vec3{ringRadius * math.Cos(a), 0, ringRadius * math.Sin(a)}))
		written += DrawSegment(buf, vp, prev, p, GlyphNone, fg, 0)
		prev = p
	}
	return written
}

// DrawStar renders a star core with a dithered glow halo behind it.
func DrawStar(buf *DepthBuffer, vp Viewport, cam Camera, center mgl64.Vec3, radius float64, core color.RGBA) int {
	d, ok := projectDisc(vp, cam.ToCamera(center), radius)
	if !ok {
		return 0
	}
	if d.rx < 0.5 {
		x, y := d.center.Cell()
		if buf.Plot(x, y, d.z, '*', core) {
			return 1
		}
		return 0
	}
	glow := Darken(core, 0.35)
	written := d.fill(buf, vp, StarGlowFactor, func(d2 float64) (byte, color.RGBA, float64) {
		return GlyphDither, glow, d.z + d.radius
	})
	written += d.fill(buf, vp, 1, func(d2 float64) (byte, color.RGBA, float64) {
		g := GlyphSolid
		if d2 > 0.7 {
			g = GlyphDark
		}
		return g, Lerp(Palette[ColorWhite], core, d2), d.surfaceDepth(d2)
	})
	return written
}
