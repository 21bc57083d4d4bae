package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Station drawing constants.
const (
	EntranceInset     = 0.35 // fraction the entrance face shrinks toward its centroid
	EntranceBias      = 0.01 // × radius, pulled toward the camera
	EdgeBias          = 0.02 // × radius
	GlyphEntrance     = GlyphDark
	edgeMatchTolerant = 0.02
)

// cuboctahedron template: 12 vertices at permutations of (±1, ±1, 0).
var (
	cuboVertices []mgl64.Vec3
	cuboFaces    [][]int
	cuboEdges    [][2]int
	cuboEntrance int
)

func init() {
	cuboVertices, cuboFaces, cuboEntrance = buildCuboctahedron()
	cuboEdges = deriveEdges(cuboVertices, 2, edgeMatchTolerant)
}

func buildCuboctahedron() ([]mgl64.Vec3, [][]int, int) {
	var verts []mgl64.Vec3
	for _, a := range []float64{1, -1} {
		for _, b := range []float64{1, -1} {
			verts = append(verts,
				mgl64.Vec3{a, b, 0},
				mgl64.Vec3{a, 0, b},
				mgl64.Vec3{0, a, b},
			)
		}
	}

	find := func(p mgl64.Vec3) int {
		for i, v := range verts {
			if v.ApproxEqual(p) {
				return i
			}
		}
		return -1
	}

	var faces [][]int
	entrance := -1
	// Square faces: the four vertices with coordinate axis == sign.
	for axis := 0; axis < 3; axis++ {
		for _, sign := range []float64{1, -1} {
			var f []int
			for i, v := range verts {
				if v[axis] == sign {
					f = append(f, i)
				}
			}
			if axis == 2 && sign == 1 {
				entrance = len(faces)
			}
			faces = append(faces, f)
		}
	}
	// Triangle faces: one per octant.
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			for _, sz := range []float64{1, -1} {
				faces = append(faces, []int{
					find(mgl64.Vec3{sx, sy, 0}),
					find(mgl64.Vec3{sx, 0, sz}),
					find(mgl64.Vec3{0, sy, sz}),
				})
			}
		}
	}
	for _, f := range faces {
		orderAroundCentroid(verts, f)
	}
	return verts, faces, entrance
}

// orderAroundCentroid sorts face indices counter-clockwise about the outward
// normal, taken as the centroid direction for a solid centred on the origin.
func orderAroundCentroid(verts []mgl64.Vec3, face []int) {
	var c mgl64.Vec3
	for _, i := range face {
		c = c.Add(verts[i])
	}
	c = c.Mul(1 / float64(len(face)))
	n := c.Normalize()
	u := verts[face[0]].Sub(c).Normalize()
	w := n.Cross(u)
	angle := func(i int) float64 {
		d := verts[i].Sub(c)
		return math.Atan2(d.Dot(w), d.Dot(u))
	}
	sort.Slice(face, func(a, b int) bool { return angle(face[a]) < angle(face[b]) })
}

// deriveEdges finds vertex pairs whose squared distance is within tol of target.
func deriveEdges(verts []mgl64.Vec3, target, tol float64) [][2]int {
	var edges [][2]int
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			d := verts[j].Sub(verts[i])
			if math.Abs(d.Dot(d)-target) <= target*tol {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// StationMesh is a cuboctahedron placed in world space.
type StationMesh struct {
	Vertices []mgl64.Vec3
	Faces    [][]int
	Edges    [][2]int
	Entrance int // index into Faces
}

// NewStationMesh scales the unit template so its circumradius equals radius,
// stretches it per axis by scale (zero components count as 1), rotates it and
// moves it to center. The entrance is the local +Z square.
func NewStationMesh(center mgl64.Vec3, rot mgl64.Quat, radius float64, scale mgl64.Vec3) StationMesh {
	k := radius / math.Sqrt2
	for i := range scale {
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	verts := make([]mgl64.Vec3, len(cuboVertices))
	for i, v := range cuboVertices {
		local := mgl64.Vec3{v[0] * k * scale[0], v[1] * k * scale[1], v[2] * k * scale[2]}
		verts[i] = center.Add(rot.Rotate(local))
	}
	return StationMesh{Vertices: verts, Faces: cuboFaces, Edges: cuboEdges, Entrance: cuboEntrance}
}

// FaceVertices returns the world-space vertices of face f in order.
func (m StationMesh) FaceVertices(f int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.Faces[f]))
	for i, idx := range m.Faces[f] {
		out[i] = m.Vertices[idx]
	}
	return out
}

// StationStyle colours a station.
type StationStyle struct {
	ShadeNear color.RGBA
	ShadeFar  color.RGBA
	Edge      color.RGBA
}

// DefaultStationStyle is light grey faces darkening with distance and white edges.
var DefaultStationStyle = StationStyle{
	ShadeNear: Palette[ColorLightGray],
	ShadeFar:  Palette[ColorDarkGray],
	Edge:      Palette[ColorWhite],
}

type visibleFace struct {
	verts    []mgl64.Vec3
	centroid mgl64.Vec3
	entrance bool
}

// DrawStation renders a station mesh: back faces culled, front faces filled
// near-to-far with a light-to-dark shade, the entrance inset and darkened on
// top, then every edge with a slope glyph.
func DrawStation(buf *DepthBuffer, vp Viewport, cam Camera, mesh StationMesh, radius float64, style StationStyle) int {
	camVerts := make([]mgl64.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		camVerts[i] = cam.ToCamera(v)
	}

	var faces []visibleFace
	for fi, f := range mesh.Faces {
		vs := make([]mgl64.Vec3, len(f))
		var c mgl64.Vec3
		for i, idx := range f {
			vs[i] = camVerts[idx]
			c = c.Add(vs[i])
		}
		c = c.Mul(1 / float64(len(f)))
		// Camera sits at the origin, so the face is visible when its normal
		// points back toward it.
		if newellNormal(vs).Dot(c) >= 0 {
			continue
		}
		faces = append(faces, visibleFace{verts: vs, centroid: c, entrance: fi == mesh.Entrance})
	}
	sort.SliceStable(faces, func(a, b int) bool { return faces[a].centroid.Z() < faces[b].centroid.Z() })

	written := 0
	for i, f := range faces {
		t := 0.0
		if len(faces) > 1 {
			t = float64(i) / float64(len(faces)-1)
		}
		shade := Lerp(style.ShadeNear, style.ShadeFar, t)
		written += FillPolygon(buf, vp, f.verts, GlyphSolid, shade, 0)

		if f.entrance {
			inset := make([]mgl64.Vec3, len(f.verts))
			for j, v := range f.verts {
				inset[j] = v.Add(f.centroid.Sub(v).Mul(EntranceInset))
			}
			written += FillPolygon(buf, vp, inset, GlyphEntrance, Darken(shade, 0.5), -radius*EntranceBias)
		}
	}

	for _, e := range mesh.Edges {
		written += DrawSegment(buf, vp, camVerts[e[0]], camVerts[e[1]], GlyphNone, style.Edge, -radius*EdgeBias)
	}
	return written
}
