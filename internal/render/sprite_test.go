package render

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/spacehole-rogue/starflight/internal/world"
)

func TestDirectionGlyphSectors(t *testing.T) {
	tests := []struct {
		deg  float64
		want byte
	}{
		{0, '>'}, {45, '/'}, {90, '^'}, {135, '\\'},
		{180, '<'}, {225, '/'}, {270, 'v'}, {315, '\\'},
		{20, '>'}, {-20, '>'}, {100, '^'}, {-100, 'v'},
	}
	for _, tt := range tests {
		rad := mgl64.DegToRad(tt.deg)
		assert.Equal(t, string(tt.want), string(DirectionGlyph(math.Cos(rad), math.Sin(rad))), "%v°", tt.deg)
	}
}

func TestShipGlyphUsesScreenMotion(t *testing.T) {
	vp := testViewport()
	pos := mgl64.Vec3{0, 0, 1}

	g := ShipGlyph(vp, pos, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{1, 0, 0}, 0.5)
	assert.Equal(t, byte('^'), g, "moving up beats facing right")
}

func TestShipGlyphFallsBackToFacing(t *testing.T) {
	vp := testViewport()
	pos := mgl64.Vec3{0, 0, 1}

	assert.Equal(t, byte('<'), ShipGlyph(vp, pos, mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0}, 0.5))
	assert.Equal(t, GlyphAxial, ShipGlyph(vp, pos, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0.5))
	// Pure recession along the view axis has no screen motion.
	assert.Equal(t, byte('>'), ShipGlyph(vp, pos, mgl64.Vec3{0, 0, 3}, mgl64.Vec3{1, 0, 0}, 0.5))
}

func TestShipColor(t *testing.T) {
	p := DefaultParams().Sprite
	base := Palette[ColorLightCyan]
	hit := Palette[ColorLightRed]
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hull := world.Hull{Hull: 50, MaxHull: 100, Flash: world.Flash{Start: start, Color: hit}}

	assert.Equal(t, hit, ShipColor(base, hull, start.Add(10*time.Millisecond), p))
	assert.Equal(t, base, ShipColor(base, hull, start.Add(p.FlashBlink+10*time.Millisecond), p), "blink off")
	assert.Equal(t, base, ShipColor(base, hull, start.Add(p.FlashDuration), p), "flash expired")

	dead := world.Hull{Hull: 0, MaxHull: 100}
	assert.Equal(t, Palette[ColorDarkGray], ShipColor(base, dead, start, p))

	dead.Flash = world.Flash{Start: start, Color: hit}
	assert.Equal(t, hit, ShipColor(base, dead, start, p), "flash wins over the dead colour")
}

func TestDrawShipOffScreen(t *testing.T) {
	vp := testViewport()
	buf := NewDepthBuffer(vp.Cols, vp.Rows)
	cam := Camera{Rotation: mgl64.QuatIdent()}
	p := DefaultParams().Sprite

	assert.False(t, DrawShip(buf, vp, cam, Sprite{Position: mgl64.Vec3{0, 0, -1}, Rotation: mgl64.QuatIdent()}, time.Now(), p))
	assert.True(t, DrawShip(buf, vp, cam, Sprite{Position: mgl64.Vec3{0, 0, 1}, Rotation: mgl64.QuatIdent(), Base: Palette[ColorWhite]}, time.Now(), p))
	assert.Equal(t, GlyphAxial, buf.Get(40, 12).Glyph)
}
