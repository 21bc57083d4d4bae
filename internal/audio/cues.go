// Package audio plays short cue tones for flight events.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a flight event worth a sound.
type Cue uint8

const (
	CueNone Cue = iota
	CueDock
	CueCollision
	CueContact
	CueAutonavEngaged
	CueAutonavDisengaged
	CueBoost
)

func (c Cue) String() string {
	switch c {
	case CueDock:
		return "dock"
	case CueCollision:
		return "collision"
	case CueContact:
		return "contact"
	case CueAutonavEngaged:
		return "autonav-engaged"
	case CueAutonavDisengaged:
		return "autonav-disengaged"
	case CueBoost:
		return "boost"
	default:
		return "none"
	}
}

// note is one tone of a cue.
type note struct {
	Freq     float64
	Duration time.Duration
}

// cueNotes maps each cue to its notes, played in sequence.
var cueNotes = map[Cue][]note{
	CueDock:              {{523.25, 90 * time.Millisecond}, {659.25, 90 * time.Millisecond}, {783.99, 160 * time.Millisecond}},
	CueCollision:         {{110, 220 * time.Millisecond}},
	CueContact:           {{220, 60 * time.Millisecond}},
	CueAutonavEngaged:    {{880, 70 * time.Millisecond}, {1174.66, 90 * time.Millisecond}},
	CueAutonavDisengaged: {{1174.66, 70 * time.Millisecond}, {880, 90 * time.Millisecond}},
	CueBoost:             {{330, 120 * time.Millisecond}},
}

// Duration returns how long a cue plays.
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, n := range cueNotes[c] {
		d += n.Duration
	}
	return d
}

// Streamer builds the cue's tone sequence at the given volume (0..1).
func (c Cue) Streamer(volume float64) (beep.Streamer, error) {
	notes := cueNotes[c]
	if len(notes) == 0 {
		return nil, fmt.Errorf("no tone for cue %s", c)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sampleRate, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("cue %s: %w", c, err)
		}
		parts = append(parts, beep.Take(sampleRate.N(n.Duration), tone))
	}
	return newVolume(beep.Seq(parts...), volume), nil
}

// newVolume scales s by vol; zero or negative volume is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Player mixes cues onto the speaker. A Player that failed to initialise
// drops every cue.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates a player at the given volume.
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues a cue. It never blocks on the audio device.
func (p *Player) Play(c Cue) {
	if p == nil || c == CueNone {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	s, err := c.Streamer(p.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
