package render

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalSink presents a DepthBuffer on a tcell screen.
type TerminalSink struct {
	Screen tcell.Screen
}

// NewTerminalSink wraps an initialised screen.
func NewTerminalSink(s tcell.Screen) *TerminalSink {
	return &TerminalSink{Screen: s}
}

// Size returns the terminal's size in cells.
func (t *TerminalSink) Size() (int, int) {
	return t.Screen.Size()
}

// Flush copies buf to the screen and shows it.
func (t *TerminalSink) Flush(buf *DepthBuffer) {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := 0; y < buf.Rows; y++ {
		for x := 0; x < buf.Cols; x++ {
			c := buf.Cells[y*buf.Cols+x]
			if c.Empty() {
				t.Screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			fg := tcell.NewRGBColor(int32(c.FG.R), int32(c.FG.G), int32(c.FG.B))
			t.Screen.SetContent(x, y, CP437ToUnicode[c.Glyph], nil, base.Foreground(fg))
		}
	}
	t.Screen.Show()
}
