package render

import (
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// directionGlyphs are indexed by 45° sector, counter-clockwise from east.
var directionGlyphs = [8]byte{'>', '/', '^', '\\', '<', '/', 'v', '\\'}

// DirectionGlyph returns the arrow-ish glyph for a screen direction with
// +x right and +y up.
func DirectionGlyph(dx, dy float64) byte {
	a := math.Atan2(dy, dx)
	sector := int(math.Floor(a/(math.Pi/4)+0.5)) % 8
	if sector < 0 {
		sector += 8
	}
	return directionGlyphs[sector]
}

// GlyphAxial is drawn for a ship pointing straight along the view axis.
const GlyphAxial byte = 'o'

// ShipGlyph picks a ship's glyph from its camera-space position and
// velocity. It uses the on-screen direction of motion when that motion is at
// least minSpeed cells per second, otherwise the facing direction.
func ShipGlyph(vp Viewport, camPos, camVel, camFacing mgl64.Vec3, minSpeed float64) byte {
	z := math.Max(camPos.Z(), NearPlane)
	k := vp.CellsPerUnit()
	// d/dt of x/z and y/z, in cells per second.
	sx := (camVel.X()*z - camPos.X()*camVel.Z()) / (z * z) * k
	sy := (camVel.Y()*z - camPos.Y()*camVel.Z()) / (z * z) * k / vp.aspect()
	if speed := math.Hypot(sx, sy); speed > 0 && speed >= minSpeed {
		return DirectionGlyph(sx, sy)
	}
	if math.Hypot(camFacing.X(), camFacing.Y()) > 1e-6 {
		return DirectionGlyph(camFacing.X(), camFacing.Y())
	}
	return GlyphAxial
}

// SpriteParams controls ship sprites.
type SpriteParams struct {
	FlashDuration  time.Duration `mapstructure:"flashDuration"`
	FlashBlink     time.Duration `mapstructure:"flashBlink"`
	MinScreenSpeed float64       `mapstructure:"minScreenSpeed"`
}

// FactionColor is the base sprite colour of a faction.
func FactionColor(f world.Faction) color.RGBA {
	switch f {
	case world.FactionEscort:
		return Palette[ColorLightGreen]
	case world.FactionHostile:
		return Palette[ColorLightRed]
	case world.FactionPlayer:
		return Palette[ColorWhite]
	default:
		return Palette[ColorLightCyan]
	}
}

// ShipColor resolves a sprite's colour. An active flash blinks between its
// colour and the base; a destroyed hull is dark grey.
func ShipColor(base color.RGBA, hull world.Hull, now time.Time, p SpriteParams) color.RGBA {
	if hull.Flash.Active(now, p.FlashDuration) {
		if p.FlashBlink <= 0 {
			return hull.Flash.Color
		}
		phase := now.Sub(hull.Flash.Start) / p.FlashBlink
		if phase%2 == 0 {
			return hull.Flash.Color
		}
		return base
	}
	if hull.MaxHull > 0 && hull.Destroyed() {
		return Palette[ColorDarkGray]
	}
	return base
}

// Sprite is a ship as the renderer sees it.
type Sprite struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Rotation mgl64.Quat
	Hull     world.Hull
	Base     color.RGBA
}

// DrawShip plots one ship glyph at its projected cell.
func DrawShip(buf *DepthBuffer, vp Viewport, cam Camera, s Sprite, now time.Time, p SpriteParams) bool {
	c := cam.ToCamera(s.Position)
	sp, ok := Project(c, vp)
	if !ok || !vp.Contains(sp.X, sp.Y) {
		return false
	}
	facing := cam.DirToCamera(s.Rotation.Rotate(mgl64.Vec3{0, 0, 1}))
	glyph := ShipGlyph(vp, c, cam.DirToCamera(s.Velocity), facing, p.MinScreenSpeed)
	x, y := sp.Cell()
	return buf.Plot(x, y, sp.Depth, glyph, ShipColor(s.Base, s.Hull, now, p))
}
