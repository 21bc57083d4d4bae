package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"

	"github.com/spacehole-rogue/starflight/internal/cockpit"
	"github.com/spacehole-rogue/starflight/internal/game"
	"github.com/spacehole-rogue/starflight/internal/render"
)

const windowTitle = "Starflight"

var CLI struct {
	cockpit.Options `embed:""`
}

// Game is the Ebitengine game struct. It owns the window and input; all
// flight state lives in the cockpit.
type Game struct {
	cockpit  *cockpit.Cockpit
	renderer *render.GridRenderer
	cellW    int
	cellH    int
	last     time.Time
}

func NewGame(c *cockpit.Cockpit, cellW, cellH int) *Game {
	atlas := render.NewFontAtlas()
	return &Game{
		cockpit:  c,
		renderer: render.NewGridRenderer(atlas, cellW, cellH),
		cellW:    cellW,
		cellH:    cellH,
	}
}

// heldKeys maps held keys to flight keys. Shift is left alone: it is
// the Shift+Tab modifier, and must not boost.
func heldKeys(isPressed func(ebiten.Key) bool) game.Keys {
	pressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if isPressed(k) {
				return true
			}
		}
		return false
	}
	return game.Keys{
		Accelerate: pressed(ebiten.KeyW),
		Brake:      pressed(ebiten.KeyS),
		Boost:      pressed(ebiten.KeyB),
		YawLeft:    pressed(ebiten.KeyArrowLeft, ebiten.KeyA),
		YawRight:   pressed(ebiten.KeyArrowRight, ebiten.KeyD),
		PitchUp:    pressed(ebiten.KeyArrowUp),
		PitchDown:  pressed(ebiten.KeyArrowDown),
		RollLeft:   pressed(ebiten.KeyQ),
		RollRight:  pressed(ebiten.KeyE),
		Fire:       pressed(ebiten.KeyF),
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && ebiten.IsKeyPressed(ebiten.KeyShift):
		g.cockpit.Do(cockpit.ActionPrevTarget)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.cockpit.Do(cockpit.ActionNextTarget)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.cockpit.Do(cockpit.ActionToggleAutonav)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.cockpit.Do(cockpit.ActionClearTarget)
	}

	mx, my := ebiten.CursorPosition()
	g.cockpit.MovePointer(mx/g.cellW, my/g.cellH)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.cockpit.PointAt(mx/g.cellW, my/g.cellH)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		name := fmt.Sprintf("starflight-%s.png", time.Now().Format("20060102-150405"))
		if err := g.cockpit.Snapshot(name, g.cellW, g.cellH); err != nil {
			log.Error().Err(err).Msg("snapshot failed")
		}
	}

	now := time.Now()
	dt := 1 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.cockpit.Update(heldKeys(ebiten.IsKeyPressed), now, dt)
	g.cockpit.Frame(now)

	fps := fmt.Sprintf("FPS: %.0f  TPS: %.0f", ebiten.ActualFPS(), ebiten.ActualTPS())
	buf := g.cockpit.Buffer
	buf.WriteString(buf.Cols-len(fps)-1, buf.Rows-1, fps, render.Palette[render.ColorDarkGray])
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.cockpit.Buffer)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cockpit.Buffer.Cols * g.cellW, g.cockpit.Buffer.Rows * g.cellH
}

func main() {
	cockpit.InitLogging(os.Stdout, false)
	kong.Parse(&CLI,
		kong.Name("starflight"),
		kong.Description("Fly a ship through a star system."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))
	if CLI.Debug {
		cockpit.InitLogging(os.Stdout, true)
	}

	rt, err := cockpit.Setup(CLI.Options)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer rt.Close()

	w := rt.Config.Window
	if CLI.Snapshot != "" {
		if err := cockpit.SnapshotAndExit(rt, CLI.Snapshot, w.Cols, w.Rows, w.CellW, w.CellH); err != nil {
			log.Fatal().Err(err).Msg("snapshot failed")
		}
		return
	}

	c, err := cockpit.Boot(rt.Config, w.Cols, w.Rows, rt.Audio)
	if err != nil {
		log.Fatal().Err(err).Msg("boot failed")
	}

	ebiten.SetWindowSize(w.Cols*w.CellW, w.Rows*w.CellH)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(c, w.CellW, w.CellH)); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
}
