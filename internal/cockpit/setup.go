package cockpit

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spacehole-rogue/starflight/internal/audio"
	"github.com/spacehole-rogue/starflight/internal/config"
	"github.com/spacehole-rogue/starflight/internal/telemetry"
)

// Options are the command-line flags shared by both front ends.
type Options struct {
	Config      string `help:"Configuration file (YAML, JSON or TOML)." type:"path" short:"c"`
	Debug       bool   `help:"Whether to enable debug logging."`
	System      string `help:"Embedded star system to load." placeholder:"NAME"`
	MetricsAddr string `help:"Serve /metrics and /debug/pprof on this address." placeholder:"HOST:PORT"`
	Mute        bool   `help:"Disable cue tones."`
	Snapshot    string `help:"Render one frame to this PNG and exit." type:"path"`
}

// Runtime is everything a front end needs besides its display.
type Runtime struct {
	Config *config.Config
	Audio  *audio.Player

	cancel context.CancelFunc
}

// InitLogging installs a console writer on out at Info, or Debug with
// debug set.
func InitLogging(out io.Writer, debug bool) {
	consoleWriter := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}
}

// Setup loads configuration, applies flag overrides, and starts the audio
// player and telemetry server when enabled. Audio failures only warn.
func Setup(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.System != "" {
		cfg.System = opts.System
	}
	if opts.MetricsAddr != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Addr = opts.MetricsAddr
	}
	if opts.Mute {
		cfg.Audio.Enabled = false
	}
	if !opts.Debug {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	rt := &Runtime{Config: cfg}
	if cfg.Audio.Enabled && opts.Snapshot == "" {
		p := audio.NewPlayer(cfg.Audio.Volume)
		if err := p.Init(); err != nil {
			log.Warn().Err(err).Msg("audio disabled")
		} else {
			rt.Audio = p
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	rt.cancel = cancel
	if cfg.Telemetry.Enabled && opts.Snapshot == "" {
		go func() {
			if err := telemetry.Serve(ctx, cfg.Telemetry.Addr); err != nil {
				log.Error().Err(err).Msg("telemetry server stopped")
			}
		}()
	}
	return rt, nil
}

// Close stops the telemetry server and silences audio.
func (rt *Runtime) Close() {
	if rt.cancel != nil {
		rt.cancel()
	}
	rt.Audio.Close()
}

// SnapshotAndExit renders a single frame of a freshly booted cockpit.
func SnapshotAndExit(rt *Runtime, path string, cols, rows, cellW, cellH int) error {
	c, err := Boot(rt.Config, cols, rows, nil)
	if err != nil {
		return err
	}
	c.Frame(time.Now())
	return c.Snapshot(path, cellW, cellH)
}

// LogFile opens the log file used when the terminal owns stdout.
func LogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
