package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	AtlasCols   = 16
	AtlasRows   = 16
)

// FontAtlas holds the CP437 glyph atlas and cached sub-images.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [256]*ebiten.Image
}

// NewFontAtlas generates the CP437 atlas at startup. ASCII (32-126) comes from
// basicfont.Face7x13; shading ramps, dots and box lines are drawn by hand so the
// depth buffer's surface glyphs tile without gaps.
func NewFontAtlas() *FontAtlas {
	atlasW := AtlasCols * GlyphWidth  // 256
	atlasH := AtlasRows * GlyphHeight // 256

	img := image.NewNRGBA(image.Rect(0, 0, atlasW, atlasH))
	face := basicfont.Face7x13

	for code := 0; code < 256; code++ {
		col := code % AtlasCols
		row := code / AtlasCols
		cx := col * GlyphWidth
		cy := row * GlyphHeight

		r := CP437ToUnicode[code]

		// ASCII printable range: render with basicfont
		if r >= 32 && r <= 126 {
			drawFontGlyph(img, face, cx, cy, r)
			continue
		}

		// Box-drawing characters
		if bc, ok := boxChars[byte(code)]; ok {
			drawBoxGlyph(img, cx, cy, bc[0], bc[1], bc[2], bc[3])
			continue
		}

		// Block elements and shading
		drawBlockGlyph(img, cx, cy, byte(code))
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}

	// Cache sub-images for each glyph
	for code := 0; code < 256; code++ {
		col := code % AtlasCols
		row := code / AtlasCols
		x := col * GlyphWidth
		y := row * GlyphHeight
		rect := image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)
		a.glyphs[code] = eimg.SubImage(rect).(*ebiten.Image)
	}

	return a
}

// Glyph returns the cached sub-image for a CP437 character code.
func (a *FontAtlas) Glyph(code byte) *ebiten.Image {
	return a.glyphs[code]
}

// drawFontGlyph renders a single ASCII character into the atlas.
// basicfont.Face7x13 glyphs are 7x13, centered in a 16x16 cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX+4, cellY+13), // centered horizontally, baseline at y+13
	}
	d.DrawString(string(r))
}

// boxChars maps CP437 codes to single-line box connection flags: {left, right, top, bottom}.
var boxChars = map[byte][4]bool{
	179: {false, false, true, true},  // │
	180: {true, false, true, true},   // ┤
	191: {true, false, false, true},  // ┐
	192: {false, true, true, false},  // └
	193: {true, true, true, false},   // ┴
	194: {true, true, false, true},   // ┬
	195: {false, true, true, true},   // ├
	196: {true, true, false, false},  // ─
	197: {true, true, true, true},    // ┼
	217: {true, false, true, false},  // ┘
	218: {false, true, false, true},  // ┌
}

// drawBoxGlyph draws a single-line box-drawing character.
// Lines are 2 pixels wide, centered in the 16x16 cell.
func drawBoxGlyph(img *image.NRGBA, cellX, cellY int, left, right, top, bottom bool) {
	w := color.NRGBA{255, 255, 255, 255}
	cx := cellX + 7
	cy := cellY + 7

	if left {
		for x := cellX; x < cx+2; x++ {
			img.SetNRGBA(x, cy, w)
			img.SetNRGBA(x, cy+1, w)
		}
	}
	if right {
		for x := cx; x < cellX+GlyphWidth; x++ {
			img.SetNRGBA(x, cy, w)
			img.SetNRGBA(x, cy+1, w)
		}
	}
	if top {
		for y := cellY; y < cy+2; y++ {
			img.SetNRGBA(cx, y, w)
			img.SetNRGBA(cx+1, y, w)
		}
	}
	if bottom {
		for y := cy; y < cellY+GlyphHeight; y++ {
			img.SetNRGBA(cx, y, w)
			img.SetNRGBA(cx+1, y, w)
		}
	}
}

// shadeMasks decides which pixels of a shade glyph are lit.
var shadeMasks = map[byte]func(x, y int) bool{
	GlyphDither: func(x, y int) bool { return (x+y)%4 == 0 },
	GlyphMedium: func(x, y int) bool { return (x+y)%2 == 0 },
	GlyphDark:   func(x, y int) bool { return (x+y)%4 != 0 },
	GlyphSolid:  func(x, y int) bool { return true },
	220:         func(x, y int) bool { return y >= GlyphHeight/2 }, // ▄
	221:         func(x, y int) bool { return x < GlyphWidth/2 },   // ▌
	222:         func(x, y int) bool { return x >= GlyphWidth/2 },  // ▐
	223:         func(x, y int) bool { return y < GlyphHeight/2 },  // ▀
}

// dotSizes are the centred square glyphs used for distant bodies, by half-width.
var dotSizes = map[byte]int{
	7:   3, // • bullet
	249: 2, // ∙
	250: 1, // ·
	254: 4, // ■
}

// drawBlockGlyph draws block elements, shading and dot characters.
func drawBlockGlyph(img *image.NRGBA, cellX, cellY int, code byte) {
	w := color.NRGBA{255, 255, 255, 255}

	if mask, ok := shadeMasks[code]; ok {
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				if mask(x, y) {
					img.SetNRGBA(cellX+x, cellY+y, w)
				}
			}
		}
		return
	}

	if half, ok := dotSizes[code]; ok {
		c := GlyphWidth / 2
		for y := c - half; y < c+half; y++ {
			for x := c - half; x < c+half; x++ {
				img.SetNRGBA(cellX+x, cellY+y, w)
			}
		}
	}
}
