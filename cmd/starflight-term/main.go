package main

import (
	"fmt"
	"os"
	"time"
	"unicode"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/spacehole-rogue/starflight/internal/cockpit"
	"github.com/spacehole-rogue/starflight/internal/render"
)

const (
	frameRate = 33 * time.Millisecond
	keyHold   = 250 * time.Millisecond
)

var CLI struct {
	cockpit.Options `embed:""`

	LogFile string `help:"Where to write logs while the terminal is in use." default:"starflight.log" type:"path"`
}

// termApp runs the cockpit on a tcell screen.
type termApp struct {
	screen  tcell.Screen
	sink    *render.TerminalSink
	cockpit *cockpit.Cockpit
	latch   *keyLatch
	running bool
}

// handleKey applies one key event. It returns false to quit.
func (a *termApp) handleKey(ev *tcell.EventKey, now time.Time) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyTab:
		a.cockpit.Do(cockpit.ActionNextTarget)
	case tcell.KeyBacktab:
		a.cockpit.Do(cockpit.ActionPrevTarget)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.cockpit.Do(cockpit.ActionClearTarget)
	case tcell.KeyLeft:
		a.latch.Press(keyYawLeft, now)
	case tcell.KeyRight:
		a.latch.Press(keyYawRight, now)
	case tcell.KeyUp:
		a.latch.Press(keyPitchUp, now)
	case tcell.KeyDown:
		a.latch.Press(keyPitchDown, now)
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if k, ok := runeKeys[r]; ok {
			a.latch.Press(k, now)
			break
		}
		switch r {
		case 'n':
			a.cockpit.Do(cockpit.ActionToggleAutonav)
		case ' ':
			a.latch.Release()
		}
	}
	return true
}

func (a *termApp) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()
	last := time.Now()

	for a.running {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			now := time.Now()
			switch ev := ev.(type) {
			case *tcell.EventResize:
				a.cockpit.Resize(a.sink.Size())
				a.screen.Sync()
			case *tcell.EventKey:
				a.running = a.handleKey(ev, now)
			case *tcell.EventMouse:
				x, y := ev.Position()
				if ev.Buttons()&tcell.Button1 != 0 {
					a.cockpit.PointAt(x, y)
				} else {
					a.cockpit.MovePointer(x, y)
				}
			}
		case now := <-ticker.C:
			a.cockpit.Update(a.latch.Keys(now), now, now.Sub(last).Seconds())
			last = now
			a.cockpit.Frame(now)
			a.sink.Flush(a.cockpit.Buffer)
		}
	}
}

func main() {
	kong.Parse(&CLI,
		kong.Name("starflight-term"),
		kong.Description("Fly a ship through a star system in the terminal."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	logOut := os.Stderr
	if CLI.Snapshot == "" {
		f, err := cockpit.LogFile(CLI.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	cockpit.InitLogging(logOut, CLI.Debug)

	rt, err := cockpit.Setup(CLI.Options)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}
	defer rt.Close()

	if CLI.Snapshot != "" {
		w := rt.Config.Window
		if err := cockpit.SnapshotAndExit(rt, CLI.Snapshot, w.Cols, w.Rows, w.CellW, w.CellH); err != nil {
			log.Fatal().Err(err).Msg("snapshot failed")
		}
		return
	}

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("create screen")
	}
	if err := s.Init(); err != nil {
		log.Fatal().Err(err).Msg("init screen")
	}
	defer s.Fini()
	s.EnableMouse()
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	sink := render.NewTerminalSink(s)
	cols, rows := sink.Size()
	c, err := cockpit.Boot(rt.Config, cols, rows, rt.Audio)
	if err != nil {
		s.Fini()
		log.Fatal().Err(err).Msg("boot failed")
	}

	app := &termApp{
		screen:  s,
		sink:    sink,
		cockpit: c,
		latch:   newKeyLatch(keyHold),
		running: true,
	}
	app.run()
	log.Info().Uint64("ticks", c.Sim.Ticks).Msg("session ended")
}
