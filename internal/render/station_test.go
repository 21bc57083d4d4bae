package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationMeshTopology(t *testing.T) {
	m := NewStationMesh(mgl64.Vec3{}, mgl64.QuatIdent(), 1, mgl64.Vec3{})

	assert.Len(t, m.Vertices, 12)
	assert.Len(t, m.Faces, 14)
	assert.Len(t, m.Edges, 24)

	squares, triangles := 0, 0
	for _, f := range m.Faces {
		switch len(f) {
		case 4:
			squares++
		case 3:
			triangles++
		}
	}
	assert.Equal(t, 6, squares)
	assert.Equal(t, 8, triangles)

	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Len(), 1e-9, "vertices lie on the circumradius")
	}
}

func TestStationMeshFacesPointOutward(t *testing.T) {
	m := NewStationMesh(mgl64.Vec3{}, mgl64.QuatIdent(), 2, mgl64.Vec3{})
	for i := range m.Faces {
		vs := m.FaceVertices(i)
		var c mgl64.Vec3
		for _, v := range vs {
			c = c.Add(v)
		}
		assert.Greater(t, newellNormal(vs).Dot(c), 0.0, "face %d", i)
	}

	entrance := m.FaceVertices(m.Entrance)
	assert.Greater(t, newellNormal(entrance).Normalize().Z(), 0.99, "entrance is the +Z square")
}

func TestStationMeshNonUniformScaleKeepsEdges(t *testing.T) {
	m := NewStationMesh(mgl64.Vec3{5, 0, 0}, mgl64.QuatIdent(), 1, mgl64.Vec3{1, 0.5, 2})
	assert.Len(t, m.Edges, 24)
	k := 1 / math.Sqrt2
	assert.InDelta(t, 5+k, maxX(m.Vertices), 1e-9)
}

func maxX(vs []mgl64.Vec3) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v.X())
	}
	return m
}

func TestDrawStationEntranceFacingCamera(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	cam := Camera{Position: mgl64.Vec3{0, 0, -0.05}, Rotation: mgl64.QuatIdent()}
	// Turned around so the +Z entrance faces the camera.
	rot := mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})
	mesh := NewStationMesh(mgl64.Vec3{}, rot, 0.01, mgl64.Vec3{})

	n := DrawStation(buf, vp, cam, mesh, 0.01, DefaultStationStyle)
	require.Greater(t, n, 0)
	assert.Equal(t, GlyphEntrance, buf.Get(40, 12).Glyph)

	edges := 0
	for _, c := range buf.Cells {
		switch c.Glyph {
		case '-', '|', '/', '\\':
			edges++
		}
	}
	assert.Greater(t, edges, 0)
}

func TestDrawStationEntranceHiddenFromBehind(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	cam := Camera{Position: mgl64.Vec3{0, 0, -0.05}, Rotation: mgl64.QuatIdent()}
	mesh := NewStationMesh(mgl64.Vec3{}, mgl64.QuatIdent(), 0.01, mgl64.Vec3{})

	DrawStation(buf, vp, cam, mesh, 0.01, DefaultStationStyle)
	for _, c := range buf.Cells {
		assert.NotEqual(t, GlyphEntrance, c.Glyph)
	}
	assert.Equal(t, GlyphSolid, buf.Get(40, 12).Glyph)
}
