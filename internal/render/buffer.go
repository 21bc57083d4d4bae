package render

import (
	"image/color"
	"math"
)

// Glyphs with meaning to the rasterizer. Glyphs are CP437 codes; 0 is "none".
const (
	GlyphNone   byte = 0
	GlyphDither byte = 176 // ░ light shade, also the dither/glow glyph
	GlyphMedium byte = 177 // ▒
	GlyphDark   byte = 178 // ▓
	GlyphSolid  byte = 219 // █
)

// DefaultDitherEpsilon is the depth window inside which a solid glyph may
// replace a dither glyph that sits slightly in front of it.
const DefaultDitherEpsilon = 1e-4

// Cell is one character cell of the depth buffer.
type Cell struct {
	Depth float64
	Glyph byte
	FG    color.RGBA
}

// Empty reports whether nothing has been drawn into the cell.
func (c Cell) Empty() bool { return c.Glyph == GlyphNone }

// DepthBuffer is a 2D grid of cells with per-cell depth, cleared once per frame.
type DepthBuffer struct {
	Cols  int
	Rows  int
	Cells []Cell

	DitherEpsilon float64
}

// NewDepthBuffer creates a cleared buffer.
func NewDepthBuffer(cols, rows int) *DepthBuffer {
	b := &DepthBuffer{DitherEpsilon: DefaultDitherEpsilon}
	b.Resize(cols, rows)
	return b
}

// Resize reallocates the grid. Contents are cleared.
func (b *DepthBuffer) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	b.Cols, b.Rows = cols, rows
	b.Cells = make([]Cell, cols*rows)
	b.Clear()
}

// Clear resets every cell to depth +Inf and no glyph.
func (b *DepthBuffer) Clear() {
	inf := math.Inf(1)
	for i := range b.Cells {
		b.Cells[i] = Cell{Depth: inf}
	}
}

func (b *DepthBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.Cols && y >= 0 && y < b.Rows
}

// Get reads a single cell at (x, y). Out-of-bounds reads return an empty cell.
func (b *DepthBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{Depth: math.Inf(1)}
	}
	return b.Cells[y*b.Cols+x]
}

// Plot writes a glyph if it is nearer than what the cell holds. A non-dither
// glyph also wins over a dither glyph that is at most DitherEpsilon in front
// of it, so a solid surface is not speckled by its own glow.
// Out-of-bounds and NaN-depth plots are ignored. Reports whether it wrote.
func (b *DepthBuffer) Plot(x, y int, depth float64, glyph byte, fg color.RGBA) bool {
	if !b.inBounds(x, y) || math.IsNaN(depth) || glyph == GlyphNone {
		return false
	}
	c := &b.Cells[y*b.Cols+x]
	switch {
	case depth < c.Depth:
	case c.Glyph == GlyphDither && glyph != GlyphDither && depth-c.Depth <= b.DitherEpsilon:
	default:
		return false
	}
	*c = Cell{Depth: depth, Glyph: glyph, FG: fg}
	return true
}

// Overlay writes a glyph in front of everything, for HUD elements.
func (b *DepthBuffer) Overlay(x, y int, glyph byte, fg color.RGBA) {
	if !b.inBounds(x, y) {
		return
	}
	b.Cells[y*b.Cols+x] = Cell{Depth: math.Inf(-1), Glyph: glyph, FG: fg}
}

// WriteString overlays a string starting at (x, y). Each rune occupies one cell.
func (b *DepthBuffer) WriteString(x, y int, s string, fg color.RGBA) int {
	offset := 0
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		b.Overlay(x+offset, y, byte(ch), fg)
		offset++
	}
	return offset
}

// FillRect overlays a rectangle of one glyph, clipped to the buffer.
func (b *DepthBuffer) FillRect(x, y, w, h int, glyph byte, fg color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			b.Overlay(xx, yy, glyph, fg)
		}
	}
}

// Row returns the glyphs of row y as a string, blanks for empty cells.
// Handy for logs and tests.
func (b *DepthBuffer) Row(y int) string {
	if y < 0 || y >= b.Rows {
		return ""
	}
	out := make([]byte, b.Cols)
	for x := 0; x < b.Cols; x++ {
		g := b.Cells[y*b.Cols+x].Glyph
		if g == GlyphNone {
			g = ' '
		}
		out[x] = g
	}
	return string(out)
}

// Count returns how many cells hold a glyph.
func (b *DepthBuffer) Count() int {
	n := 0
	for _, c := range b.Cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}
