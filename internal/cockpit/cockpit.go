// Package cockpit ties the simulation, renderer, audio and telemetry into
// the frame loop shared by the window and terminal front ends.
package cockpit

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
	"github.com/rs/zerolog/log"

	"github.com/spacehole-rogue/starflight/assets"
	"github.com/spacehole-rogue/starflight/internal/audio"
	"github.com/spacehole-rogue/starflight/internal/config"
	"github.com/spacehole-rogue/starflight/internal/game"
	"github.com/spacehole-rogue/starflight/internal/render"
	"github.com/spacehole-rogue/starflight/internal/telemetry"
	"github.com/spacehole-rogue/starflight/internal/world"
)

const (
	// hudRows is the height of the status and comms panel under the scene.
	hudRows = 9

	// Aim picking: how close the pointer must be to a body, and how far the
	// aim point lies when nothing is picked.
	pickCells   = 1.5
	aimDistance = 10.0
)

// Action is a discrete pilot command, as opposed to held flight keys.
type Action uint8

const (
	ActionNone Action = iota
	ActionNextTarget
	ActionPrevTarget
	ActionToggleAutonav
	ActionClearTarget
)

// Cockpit owns one running system and its screen buffer.
type Cockpit struct {
	Sim    *game.Sim
	Layout *world.SystemLayout
	Buffer *render.DepthBuffer
	Render render.Params
	Audio  *audio.Player

	// Aim is the world point under the pointer after the last PointAt
	// call, and under the pointer or reticle while Fire is held.
	// AimEntity is the body it landed on, if any.
	Aim       mgl64.Vec3
	AimEntity ecs.Entity

	pointerX, pointerY int
	hasPointer         bool
	lastRegime         game.Regime
}

// LoadSystem reads an embedded system layout by name.
func LoadSystem(name string) (*world.SystemLayout, error) {
	data, err := assets.Systems.ReadFile("systems/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load system %q: %w", name, err)
	}
	layout, err := world.LoadSystemLayout(data)
	if err != nil {
		return nil, fmt.Errorf("load system %q: %w", name, err)
	}
	return layout, nil
}

// Boot loads the configured system and builds a cockpit of cols×rows cells.
// player may be nil to run silently.
func Boot(cfg *config.Config, cols, rows int, player *audio.Player) (*Cockpit, error) {
	layout, err := LoadSystem(cfg.System)
	if err != nil {
		return nil, err
	}
	u := world.NewUniverse()
	layout.Spawn(u)

	sim := game.NewSim(u, cfg.Params)
	sim.FlashDuration = cfg.Render.Sprite.FlashDuration
	sim.Log.Add(fmt.Sprintf("Entered the %s system.", layout.Name), game.MsgNav)

	buf := render.NewDepthBuffer(cols, rows)
	buf.DitherEpsilon = cfg.Render.DitherEpsilon

	log.Info().
		Str("system", layout.Name).
		Int("bodies", len(u.Entities())).
		Int("cols", cols).
		Int("rows", rows).
		Msg("cockpit booted")

	return &Cockpit{
		Sim:    sim,
		Layout: layout,
		Buffer: buf,
		Render: cfg.Render,
		Audio:  player,
	}, nil
}

// Resize follows a window or terminal resize.
func (c *Cockpit) Resize(cols, rows int) {
	if cols == c.Buffer.Cols && rows == c.Buffer.Rows {
		return
	}
	c.Buffer.Resize(cols, rows)
}

// SceneViewport is the 3D view above the HUD panel.
func (c *Cockpit) SceneViewport() render.Viewport {
	return c.Render.Viewport(c.Buffer.Cols, max(1, c.Buffer.Rows-hudRows))
}

// Camera sits at the player's pose.
func (c *Cockpit) Camera() (render.Camera, bool) {
	player, ok := c.Sim.Universe.Player()
	if !ok {
		return render.Camera{}, false
	}
	return render.CameraFor(c.Sim.Universe, player)
}

// Do applies a discrete pilot command.
func (c *Cockpit) Do(a Action) {
	switch a {
	case ActionNextTarget, ActionPrevTarget:
		dir := 1
		if a == ActionPrevTarget {
			dir = -1
		}
		if t, ok := c.Sim.CycleTarget(dir); ok {
			c.Sim.Log.Add("Target: "+t.Name+".", game.MsgInfo)
		}
	case ActionToggleAutonav:
		wasActive := c.Sim.Autonav.Active
		if c.Sim.ToggleAutonav() {
			c.Audio.Play(audio.CueAutonavEngaged)
		} else if wasActive {
			c.Audio.Play(audio.CueAutonavDisengaged)
		} else {
			c.Sim.Log.Add("No target for autonav.", game.MsgWarning)
		}
		telemetry.SetAutonav(c.Sim.Autonav.Active)
	case ActionClearTarget:
		c.Sim.CancelAutonav()
		c.Sim.Target = nil
	}
}

// Update runs one simulation tick and reports its effects to audio and
// telemetry.
func (c *Cockpit) Update(keys game.Keys, now time.Time, dt float64) game.TickResult {
	docked := c.Sim.DockedAt
	start := time.Now()
	res := c.Sim.Tick(keys, now, dt)
	telemetry.RecordTick(time.Since(start))

	switch res.Event.Kind {
	case game.EventDock:
		if c.Sim.DockedAt != docked {
			c.Audio.Play(audio.CueDock)
		}
		telemetry.RecordEvent(res.Event.Kind.String())
	case game.EventCollision:
		if res.Event.Damage > 0 {
			c.Audio.Play(audio.CueCollision)
		}
		telemetry.RecordEvent(res.Event.Kind.String())
	case game.EventContact:
		c.Audio.Play(audio.CueContact)
		telemetry.RecordEvent(res.Event.Kind.String())
	}

	if res.Disengaged != game.ReasonNone {
		telemetry.RecordDisengage(res.Disengaged.String())
		if res.Disengaged != game.ReasonDocked {
			c.Audio.Play(audio.CueAutonavDisengaged)
		}
	}
	if res.Controls.Fire {
		_, hit := c.resolveAim(c.aimCell())
		telemetry.RecordFire(hit)
	}
	if res.Regime == game.RegimeBoosting && c.lastRegime != game.RegimeBoosting {
		c.Audio.Play(audio.CueBoost)
	}
	c.lastRegime = res.Regime

	telemetry.SetAutonav(c.Sim.Autonav.Active)
	if ship, ok := c.Sim.PlayerShip(); ok {
		telemetry.SetSpeed(ship.Speed())
	}
	return res
}

// MovePointer records the pointer cell that firing aims through.
func (c *Cockpit) MovePointer(cellX, cellY int) {
	c.pointerX, c.pointerY, c.hasPointer = cellX, cellY, true
}

// aimCell is the pointer cell, or the centre reticle before the pointer
// has moved.
func (c *Cockpit) aimCell() (int, int) {
	if c.hasPointer {
		return c.pointerX, c.pointerY
	}
	vp := c.SceneViewport()
	return vp.Cols / 2, vp.Rows / 2
}

// PointAt resolves the pointer cell to a world-space aim point and, when a
// body lies under it, selects that body as the target.
func (c *Cockpit) PointAt(cellX, cellY int) (ecs.Entity, bool) {
	c.MovePointer(cellX, cellY)
	e, ok := c.resolveAim(cellX, cellY)
	if !ok {
		return ecs.Entity{}, false
	}
	if c.Sim.SetTarget(e) {
		c.Sim.Log.Add("Target: "+c.Sim.Target.Name+".", game.MsgInfo)
	}
	return e, true
}

// resolveAim sets Aim and AimEntity from a scene cell.
func (c *Cockpit) resolveAim(cellX, cellY int) (ecs.Entity, bool) {
	c.AimEntity = ecs.Entity{}
	cam, ok := c.Camera()
	if !ok {
		return ecs.Entity{}, false
	}
	u := c.Sim.Universe
	player, _ := u.Player()

	var ents []ecs.Entity
	var cands []render.AimCandidate
	for _, e := range u.Entities() {
		if e == player {
			continue
		}
		b, t := u.Body(e), u.Transform(e)
		if b == nil || t == nil {
			continue
		}
		ents = append(ents, e)
		cands = append(cands, render.AimCandidate{Position: t.Position, Radius: b.Radius})
	}

	aim, idx := render.ResolveAim(cam, c.SceneViewport(), cellX, cellY, cands, pickCells, aimDistance)
	c.Aim = aim
	if idx < 0 {
		return ecs.Entity{}, false
	}
	c.AimEntity = ents[idx]
	return ents[idx], true
}

// Snapshot writes the current frame to a PNG.
func (c *Cockpit) Snapshot(path string, cellW, cellH int) error {
	if err := render.SavePNG(c.Buffer, path, cellW, cellH); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Info().Str("path", path).Msg("snapshot saved")
	return nil
}
