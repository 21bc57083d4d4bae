package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillPolygonQuadWithAllVerticesOffScreen(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	quad := []mgl64.Vec3{
		{-10, -0.1, 1},
		{10, -0.1, 1},
		{10, 0.1, 1},
		{-10, 0.1, 1},
	}

	n := FillPolygon(buf, vp, quad, GlyphSolid, Palette[ColorLightGray], 0)
	require.Greater(t, n, 0)

	c := buf.Get(vp.Cols/2, vp.Rows/2)
	assert.Equal(t, GlyphSolid, c.Glyph)
	assert.InDelta(t, 1, c.Depth, 1e-9)
}

func TestFillPolygonDepthFollowsPlane(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	// A floor-like quad sloping away from the camera.
	quad := []mgl64.Vec3{
		{-1, -1, 1},
		{1, -1, 1},
		{1, 1, 3},
		{-1, 1, 3},
	}

	require.Greater(t, FillPolygon(buf, vp, quad, GlyphSolid, Palette[ColorWhite], 0), 0)
	lower := buf.Get(40, 16)
	upper := buf.Get(40, 8)
	require.False(t, lower.Empty())
	require.False(t, upper.Empty())
	assert.Less(t, lower.Depth, upper.Depth, "the bottom of the screen is nearer")
}

func TestFillPolygonClipsAtNearPlane(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	tri := []mgl64.Vec3{
		{-1, -0.5, -1},
		{1, -0.5, -1},
		{0, -0.5, 4},
	}

	n := FillPolygon(buf, vp, tri, GlyphSolid, Palette[ColorWhite], 0)
	assert.Greater(t, n, 0)
	for _, c := range buf.Cells {
		if !c.Empty() {
			assert.GreaterOrEqual(t, c.Depth, NearPlane)
		}
	}
}

func TestFillPolygonSkipsDegenerate(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)

	line := []mgl64.Vec3{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}}
	assert.Zero(t, FillPolygon(buf, vp, line, GlyphSolid, Palette[ColorWhite], 0))

	behind := []mgl64.Vec3{{0, 0, -1}, {1, 0, -1}, {0, 1, -1}}
	assert.Zero(t, FillPolygon(buf, vp, behind, GlyphSolid, Palette[ColorWhite], 0))
}

func TestFillPolygonBiasPullsForward(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	sq := []mgl64.Vec3{{-0.2, -0.2, 2}, {0.2, -0.2, 2}, {0.2, 0.2, 2}, {-0.2, 0.2, 2}}

	FillPolygon(buf, vp, sq, GlyphSolid, Palette[ColorWhite], 0)
	FillPolygon(buf, vp, sq, GlyphDark, Palette[ColorRed], -0.01)
	assert.Equal(t, GlyphDark, buf.Get(40, 12).Glyph)
}
