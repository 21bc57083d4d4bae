package render

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// Params are the renderer's tunables.
type Params struct {
	FOV           float64      `mapstructure:"fov"`
	CellAspect    float64      `mapstructure:"cellAspect"`
	DitherEpsilon float64      `mapstructure:"ditherEpsilon"`
	HUDMargin     int          `mapstructure:"hudMargin"`
	Sprite        SpriteParams `mapstructure:"sprite"`
}

// DefaultParams returns the renderer defaults.
func DefaultParams() Params {
	return Params{
		FOV:           90,
		CellAspect:    2,
		DitherEpsilon: DefaultDitherEpsilon,
		HUDMargin:     1,
		Sprite: SpriteParams{
			FlashDuration:  600 * time.Millisecond,
			FlashBlink:     100 * time.Millisecond,
			MinScreenSpeed: 0.5,
		},
	}
}

// Viewport builds the view for a cols×rows region.
func (p Params) Viewport(cols, rows int) Viewport {
	return Viewport{Cols: cols, Rows: rows, FOV: p.FOV, CellAspect: p.CellAspect}
}

// CameraFor places the camera at an entity's pose.
func CameraFor(u *world.Universe, e ecs.Entity) (Camera, bool) {
	t := u.Transform(e)
	if t == nil {
		return Camera{}, false
	}
	return Camera{Position: t.Position, Rotation: t.Rotation}, true
}

// DrawScene draws every body except skip. The depth buffer resolves overlap,
// so draw order only matters for ties.
func DrawScene(buf *DepthBuffer, vp Viewport, cam Camera, u *world.Universe, skip ecs.Entity, now time.Time, p Params) {
	for _, e := range u.Entities() {
		if e == skip {
			continue
		}
		b := u.Body(e)
		t := u.Transform(e)
		if b == nil || t == nil {
			continue
		}
		switch b.Kind {
		case world.KindStar:
			DrawStar(buf, vp, cam, t.Position, b.Radius, PaletteColor(b.Color))
		case world.KindPlanet:
			DrawPlanet(buf, vp, cam, t.Position, b.Radius, b.Flags.Has(world.FlagRinged), PaletteColor(b.Color))
		case world.KindStation:
			mesh := NewStationMesh(t.Position, t.Rotation, b.Radius, b.Scale)
			DrawStation(buf, vp, cam, mesh, b.Radius, DefaultStationStyle)
		case world.KindShip:
			s := Sprite{
				Position: t.Position,
				Velocity: u.Velocity(e),
				Rotation: t.Rotation,
				Base:     FactionColor(b.Faction),
			}
			if h := u.Hull(e); h != nil {
				s.Hull = *h
			}
			DrawShip(buf, vp, cam, s, now, p.Sprite)
		}
	}
}
