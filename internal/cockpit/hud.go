package cockpit

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/spacehole-rogue/starflight/internal/game"
	"github.com/spacehole-rogue/starflight/internal/render"
	"github.com/spacehole-rogue/starflight/internal/telemetry"
	"github.com/spacehole-rogue/starflight/internal/world"
)

const (
	title = "STARFLIGHT"

	barWidth   = 20
	glyphFull  = render.GlyphSolid
	glyphEmpty = render.GlyphDither
	glyphAim   = 250 // small centered dot
)

func pal(idx uint8) color.RGBA { return render.Palette[idx] }

// Frame rasterizes the scene and overlays the HUD.
func (c *Cockpit) Frame(now time.Time) {
	start := time.Now()
	buf := c.Buffer
	buf.Clear()

	vp := c.SceneViewport()
	cam, ok := c.Camera()
	if ok {
		player, _ := c.Sim.Universe.Player()
		render.DrawScene(buf, vp, cam, c.Sim.Universe, player, now, c.Render)
		buf.Overlay(vp.Cols/2, vp.Rows/2, glyphAim, pal(render.ColorDarkGray))
		c.drawTarget(vp, cam)
	}
	c.drawTitle()
	c.drawStatus(vp.Rows)
	c.drawComms(vp.Rows + 3)

	telemetry.RecordRender(time.Since(start))
}

func (c *Cockpit) drawTitle() {
	buf := c.Buffer
	buf.WriteString(1, 0, title, pal(render.ColorWhite))
	buf.WriteString(len(title)+2, 0, fmt.Sprintf("[ %s ]", c.Layout.Name), pal(render.ColorLightCyan))
	if c.Sim.Autonav.Active {
		label := "AUTONAV " + c.Sim.Autonav.Target.Name
		buf.WriteString(buf.Cols-len(label)-1, 0, label, pal(render.ColorLightGreen))
	} else if c.Sim.DockedAt != "" {
		label := "DOCKED " + c.Sim.DockedAt
		buf.WriteString(buf.Cols-len(label)-1, 0, label, pal(render.ColorLightGreen))
	}
}

// drawTarget labels the current target, or points at it from the edge.
func (c *Cockpit) drawTarget(vp render.Viewport, cam render.Camera) {
	t := c.Sim.Target
	if t == nil {
		return
	}
	pos, ok := t.Resolve(c.Sim.Universe)
	if !ok {
		return
	}
	ind := render.Indicate(cam, vp, pos, c.Render.HUDMargin)
	label := fmt.Sprintf("%s %.3f AU", t.Name, ind.Distance)
	render.DrawIndicator(c.Buffer, vp, ind, label, targetColor(t.Kind))
}

func targetColor(k world.Kind) color.RGBA {
	switch k {
	case world.KindStation:
		return pal(render.ColorLightCyan)
	case world.KindShip:
		return pal(render.ColorLightMagenta)
	case world.KindStar:
		return pal(render.ColorYellow)
	default:
		return pal(render.ColorLightGreen)
	}
}

// drawStatus fills the first three HUD rows: a rule, flight readouts, and
// the fuel and hull bars.
func (c *Cockpit) drawStatus(row int) {
	buf := c.Buffer
	buf.FillRect(0, row, buf.Cols, 1, 196, pal(render.ColorDarkGray))

	ship, ok := c.Sim.PlayerShip()
	if !ok {
		buf.WriteString(2, row+1, "NO SIGNAL", pal(render.ColorLightRed))
		return
	}

	hdg, pitch := render.Heading(ship.Transform.Rotation)
	line := fmt.Sprintf("HDG %03.0f PIT %+03.0f  SPD %.4f AU/s  CAP %.3f",
		hdg, pitch, ship.Speed(), c.Sim.Params.Flight.SpeedCap(*ship.Drive, c.Sim.Flight))
	x := 2 + buf.WriteString(2, row+1, line, pal(render.ColorLightGray))
	x += 2
	buf.WriteString(x, row+1, regimeLabel(c.Sim.Flight), regimeColor(c.Sim.Flight.Regime()))

	if t := c.Sim.Target; t != nil && c.Sim.Autonav.Active {
		g := c.Sim.Autonav.Last
		label := "REM"
		if !g.Final {
			label = "APPR"
		}
		info := fmt.Sprintf("%s %.3f AU", label, max(0, g.Remaining))
		buf.WriteString(buf.Cols-len(info)-2, row+1, info, pal(render.ColorLightGreen))
	}

	drawBar(buf, 2, row+2, "Fuel", ship.Drive.FuelFraction(),
		fmt.Sprintf("%3.0f/%.0f", ship.Drive.Fuel, ship.Drive.FuelCapacity), pal(render.ColorYellow))
	if ship.Hull != nil {
		frac := 0.0
		if ship.Hull.MaxHull > 0 {
			frac = ship.Hull.Hull / ship.Hull.MaxHull
		}
		drawBar(buf, 42, row+2, "Hull", frac,
			fmt.Sprintf("%3.0f/%.0f", ship.Hull.Hull, ship.Hull.MaxHull), pal(render.ColorLightGray))
	}
}

func regimeLabel(fs game.FlightState) string {
	switch fs.Regime() {
	case game.RegimeBoosting:
		return "[BOOST]"
	case game.RegimeCooldown:
		return fmt.Sprintf("[COOL %.1fs]", fs.BoostCooldownRemaining)
	default:
		return "[CRUISE]"
	}
}

func regimeColor(r game.Regime) color.RGBA {
	switch r {
	case game.RegimeBoosting:
		return pal(render.ColorLightRed)
	case game.RegimeCooldown:
		return pal(render.ColorYellow)
	default:
		return pal(render.ColorLightGreen)
	}
}

// drawBar shows a labelled fraction bar. The label turns yellow at 30% and
// red at 15%.
func drawBar(buf *render.DepthBuffer, x, y int, label string, frac float64, info string, clr color.RGBA) {
	frac = min(1, max(0, frac))
	filled := int(frac * barWidth)

	labelClr := pal(render.ColorLightGray)
	switch {
	case frac <= 0.15:
		labelClr = pal(render.ColorLightRed)
	case frac <= 0.30:
		labelClr = pal(render.ColorYellow)
	}
	buf.WriteString(x, y, label, labelClr)

	for i := 0; i < barWidth; i++ {
		if i < filled {
			buf.Overlay(x+6+i, y, glyphFull, clr)
		} else {
			buf.Overlay(x+6+i, y, glyphEmpty, pal(render.ColorDarkGray))
		}
	}
	buf.WriteString(x+7+barWidth, y, info, labelClr)
}

func msgColor(p game.MsgPriority) color.RGBA {
	switch p {
	case game.MsgCritical:
		return pal(render.ColorLightRed)
	case game.MsgWarning:
		return pal(render.ColorYellow)
	case game.MsgNav:
		return pal(render.ColorLightGreen)
	default:
		return pal(render.ColorCyan)
	}
}

// drawComms lists the most recent messages from row down to the bottom.
func (c *Cockpit) drawComms(row int) {
	buf := c.Buffer
	n := buf.Rows - row - 1
	if n <= 0 {
		return
	}
	for i, msg := range c.Sim.Log.Recent(n) {
		buf.WriteString(2, row+i, msg.Text, msgColor(msg.Priority))
	}
	help := "W thrust  S brake  B boost  ARROWS turn  Q/E roll  TAB target  N autonav"
	if len(help) > buf.Cols-2 {
		help = strings.SplitN(help, "  TAB", 2)[0]
	}
	buf.WriteString(2, buf.Rows-1, help, pal(render.ColorDarkGray))
}
