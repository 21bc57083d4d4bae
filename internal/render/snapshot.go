package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// shadeAlpha is the coverage of the block glyphs when rasterized as rectangles.
var shadeAlpha = map[byte]float64{
	GlyphSolid:  1,
	GlyphDark:   0.75,
	GlyphMedium: 0.5,
	GlyphDither: 0.25,
}

// SavePNG rasterizes buf with cellW×cellH pixel cells and writes a PNG.
func SavePNG(buf *DepthBuffer, path string, cellW, cellH int) error {
	dc := gg.NewContext(buf.Cols*cellW, buf.Rows*cellH)
	dc.SetColor(Palette[ColorBlack])
	dc.Clear()

	for y := 0; y < buf.Rows; y++ {
		for x := 0; x < buf.Cols; x++ {
			c := buf.Cells[y*buf.Cols+x]
			if c.Empty() || c.Glyph == ' ' {
				continue
			}
			px, py := float64(x*cellW), float64(y*cellH)
			if a, ok := shadeAlpha[c.Glyph]; ok {
				dc.SetColor(color.NRGBA{c.FG.R, c.FG.G, c.FG.B, uint8(255 * a)})
				dc.DrawRectangle(px, py, float64(cellW), float64(cellH))
				dc.Fill()
				continue
			}
			dc.SetColor(c.FG)
			dc.DrawStringAnchored(string(CP437ToUnicode[c.Glyph]), px+float64(cellW)/2, py+float64(cellH)/2, 0.5, 0.5)
		}
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}
