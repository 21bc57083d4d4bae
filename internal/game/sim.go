package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// CollisionFlash tints a ship that has just been damaged.
var CollisionFlash = color.RGBA{255, 85, 85, 255}

// DefaultFlashDuration is how long damage flashes last.
const DefaultFlashDuration = 600 * time.Millisecond

// TickResult reports what happened during one Sim.Tick.
type TickResult struct {
	Regime     Regime
	Controls   Controls
	Event      Event
	Disengaged DisengageReason
}

// Sim is the flight simulation. It owns the player's flight and autonav
// state and borrows the player's components from the universe each tick.
type Sim struct {
	Universe      *world.Universe
	Params        Params
	Flight        FlightState
	Autonav       AutonavState
	Target        *world.NavigationTarget
	Log           *MessageLog
	Ticks         uint64
	FlashDuration time.Duration

	// DockedAt names the body the player is moored to, if any.
	DockedAt string
	berth    ecs.Entity
}

// NewSim creates a simulation over a populated universe.
func NewSim(u *world.Universe, p Params) *Sim {
	s := &Sim{
		Universe:      u,
		Params:        p,
		Log:           NewMessageLog(50),
		FlashDuration: DefaultFlashDuration,
	}
	s.Log.Add("Flight systems online.", MsgInfo)
	s.Log.Add("TAB cycles targets, N engages autonav.", MsgInfo)
	return s
}

// Logger returns a logger tagged with the current tick.
func (s *Sim) Logger() zerolog.Logger {
	return log.With().Uint64("tick", s.Ticks).Logger()
}

// PlayerShip borrows the player's components.
func (s *Sim) PlayerShip() (ShipState, bool) {
	e, ok := s.Universe.Player()
	if !ok {
		return ShipState{}, false
	}
	ship := ShipState{
		Entity:    e,
		Transform: s.Universe.Transform(e),
		Motion:    s.Universe.Motion(e),
		Drive:     s.Universe.Drive(e),
		Hull:      s.Universe.Hull(e),
	}
	if b := s.Universe.Body(e); b != nil {
		ship.Radius = b.Radius
	}
	if ship.Transform == nil || ship.Motion == nil || ship.Drive == nil {
		return ShipState{}, false
	}
	return ship, true
}

// Tick advances the simulation by dt seconds. Held keys override autonav.
func (s *Sim) Tick(keys Keys, now time.Time, dt float64) TickResult {
	if dt <= 0 {
		return TickResult{Regime: s.Flight.Regime()}
	}
	if maxDt := s.Params.Flight.MaxDt; maxDt > 0 && dt > maxDt {
		dt = maxDt
	}
	s.Ticks++

	u := s.Universe
	u.Drift(dt)
	u.ExpireFlashes(now, s.FlashDuration)

	ship, ok := s.PlayerShip()
	if !ok {
		u.AdvanceOrbits(s.Flight.GameTime, s.Params.Flight.GameTimeRatio)
		return TickResult{Regime: s.Flight.Regime()}
	}

	var res TickResult
	manual := ControlsFromKeys(keys)
	c := manual
	if s.Autonav.Active {
		if manual.Manual() {
			s.Autonav.Disengage(ReasonManualOverride)
		} else {
			c = s.Autonav.Update(u, ship, s.Flight, s.Params, dt)
			c.Fire = manual.Fire
		}
		if !s.Autonav.Active {
			res.Disengaged = s.Autonav.Reason
			s.Log.AddAt(s.Ticks, fmt.Sprintf("Autonav off: %s.", s.Autonav.Reason), MsgNav)
		}
	}
	if s.DockedAt != "" {
		if c.Manual() {
			s.Log.AddAt(s.Ticks, "Undocked from "+s.DockedAt+".", MsgNav)
			s.DockedAt = ""
		} else if u.Alive(s.berth) {
			// Moored ships ride along with an orbiting berth.
			ship.Motion.Velocity = u.Velocity(s.berth)
		}
	}

	res.Controls = c
	res.Regime = Step(ship, &s.Flight, c, s.Params.Flight, dt)
	// Bodies move to the new game time before contact is checked.
	u.AdvanceOrbits(s.Flight.GameTime, s.Params.Flight.GameTimeRatio)
	res.Event = Resolve(u, ship, &s.Flight, s.Params.Dock, CollisionFlash, now)
	s.handleEvent(ship, res.Event, &res)
	return res
}

func (s *Sim) handleEvent(ship ShipState, ev Event, res *TickResult) {
	logger := s.Logger()
	switch ev.Kind {
	case EventDock:
		// Moor: match the body's velocity so the ship stays inside the dock.
		ship.Motion.Velocity = s.Universe.Velocity(ev.Entity)
		s.Flight.BoostActive = false
		if s.DockedAt == ev.Name {
			return
		}
		if s.Autonav.Active {
			s.Autonav.Disengage(ReasonDocked)
			res.Disengaged = ReasonDocked
		}
		s.DockedAt = ev.Name
		s.berth = ev.Entity
		s.Log.AddAt(s.Ticks, fmt.Sprintf("Docked at %s.", ev.Name), MsgNav)
		logger.Info().Str("body", ev.Name).Stringer("kind", ev.BodyKind).Msg("docked")
	case EventCollision:
		logger.Warn().
			Str("body", ev.Name).
			Float64("impact", ev.ImpactSpeed).
			Float64("damage", ev.Damage).
			Msg("collision")
		if ev.Damage <= 0 {
			return
		}
		s.Log.AddAt(s.Ticks, fmt.Sprintf("Impact with %s! Hull -%.0f.", ev.Name, ev.Damage), MsgWarning)
		if ship.Hull != nil && ship.Hull.Destroyed() {
			s.Log.AddAt(s.Ticks, "Hull breached.", MsgCritical)
		}
	}
}

// SetTarget selects an entity as the navigation target.
func (s *Sim) SetTarget(e ecs.Entity) bool {
	t, ok := world.TargetEntity(s.Universe, e)
	if !ok {
		return false
	}
	s.Target = &t
	return true
}

// CycleTarget steps through every non-player body in spawn order. dir is
// +1 or -1; the selection wraps.
func (s *Sim) CycleTarget(dir int) (world.NavigationTarget, bool) {
	player, _ := s.Universe.Player()
	var candidates []ecs.Entity
	current := -1
	for _, e := range s.Universe.Entities() {
		if e == player {
			continue
		}
		if s.Target != nil && s.Target.HasEntity && s.Target.Entity == e {
			current = len(candidates)
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return world.NavigationTarget{}, false
	}
	next := 0
	if current >= 0 {
		next = ((current+dir)%len(candidates) + len(candidates)) % len(candidates)
	} else if dir < 0 {
		next = len(candidates) - 1
	}
	if !s.SetTarget(candidates[next]) {
		return world.NavigationTarget{}, false
	}
	return *s.Target, true
}

// EngageAutonav starts autonav toward the current target.
func (s *Sim) EngageAutonav() bool {
	ship, ok := s.PlayerShip()
	if !ok || s.Target == nil {
		return false
	}
	s.Autonav.Engage(*s.Target, *ship.Drive, s.Params)
	s.Log.AddAt(s.Ticks, "Autonav engaged: "+s.Target.Name+".", MsgNav)
	return true
}

// CancelAutonav stops autonav on pilot request.
func (s *Sim) CancelAutonav() {
	if !s.Autonav.Active {
		return
	}
	s.Autonav.Disengage(ReasonCancelled)
	s.Log.AddAt(s.Ticks, "Autonav cancelled.", MsgNav)
}

// ToggleAutonav engages or cancels autonav.
func (s *Sim) ToggleAutonav() bool {
	if s.Autonav.Active {
		s.CancelAutonav()
		return false
	}
	return s.EngageAutonav()
}
