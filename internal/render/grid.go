package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridRenderer draws a DepthBuffer to an Ebitengine screen.
type GridRenderer struct {
	Atlas      *FontAtlas
	CellW      int
	CellH      int
	Background color.RGBA
	bgPixel    *ebiten.Image // 1x1 white pixel for drawing backgrounds
}

// NewGridRenderer creates a renderer with the given atlas and cell dimensions.
func NewGridRenderer(atlas *FontAtlas, cellW, cellH int) *GridRenderer {
	bgPixel := ebiten.NewImage(1, 1)
	bgPixel.Fill(color.White)
	return &GridRenderer{
		Atlas:      atlas,
		CellW:      cellW,
		CellH:      cellH,
		Background: Palette[ColorBlack],
		bgPixel:    bgPixel,
	}
}

// Draw renders every non-empty cell of buf to the screen.
func (r *GridRenderer) Draw(screen *ebiten.Image, buf *DepthBuffer) {
	screen.Fill(r.Background)

	scaleX := float64(r.CellW) / float64(GlyphWidth)
	scaleY := float64(r.CellH) / float64(GlyphHeight)

	var op ebiten.DrawImageOptions
	for y := 0; y < buf.Rows; y++ {
		for x := 0; x < buf.Cols; x++ {
			cell := buf.Cells[y*buf.Cols+x]
			if cell.Empty() || cell.Glyph == ' ' || cell.FG.A == 0 {
				continue
			}
			op = ebiten.DrawImageOptions{}
			op.GeoM.Scale(scaleX, scaleY)
			op.GeoM.Translate(float64(x*r.CellW), float64(y*r.CellH))
			op.ColorScale.ScaleWithColor(cell.FG)
			screen.DrawImage(r.Atlas.Glyph(cell.Glyph), &op)
		}
	}
}

// DrawPanel fills a cell rectangle with a solid backdrop, used behind the HUD.
func (r *GridRenderer) DrawPanel(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(w*r.CellW), float64(h*r.CellH))
	op.GeoM.Translate(float64(x*r.CellW), float64(y*r.CellH))
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(r.bgPixel, &op)
}
