package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/spacehole-rogue/starflight/internal/world"
)

// AutonavParams tune the autopilot.
type AutonavParams struct {
	StopSafety           float64       `mapstructure:"stopSafety"`          // stopping-distance buffer multiplier
	BoostAlignment       float64       `mapstructure:"boostAlignment"`      // min cos(angle) to boost
	MisalignedAlignment  float64       `mapstructure:"misalignedAlignment"` // below this, crawl while turning
	MisalignedSpeed      float64       `mapstructure:"misalignedSpeed"`     // crawl speed as a fraction of normal max
	SteerGain            float64       `mapstructure:"steerGain"`
	DeadZone             float64       `mapstructure:"deadZone"` // radians
	ArrivalTolerance     float64       `mapstructure:"arrivalTolerance"`
	StarHeatRadiusFactor float64       `mapstructure:"starHeatRadiusFactor"`
	StarStandoffMargin   float64       `mapstructure:"starStandoffMargin"`
	DockStandoffFraction float64       `mapstructure:"dockStandoffFraction"`
	ShipStandoffFactor   float64       `mapstructure:"shipStandoffFactor"`
	LogInterval          time.Duration `mapstructure:"logInterval"`

	// Station approach. Outside the run-in cone the ship circles the
	// station at ApproachRadiusFactor collision radii, aiming ApproachStep
	// radians ahead toward the entrance axis.
	ApproachRadiusFactor float64 `mapstructure:"approachRadiusFactor"`
	ApproachStep         float64 `mapstructure:"approachStep"`
	ApproachSpeed        float64 `mapstructure:"approachSpeed"` // fraction of normal max
	RunInDot             float64 `mapstructure:"runInDot"`
	DriftBrake           float64 `mapstructure:"driftBrake"`      // sideways drift, as a fraction of desired speed, that forces a brake
	ThrustAlignment      float64 `mapstructure:"thrustAlignment"` // min cos(angle) to the thrust heading to accelerate
}

// DisengageReason records why autonav stopped.
type DisengageReason uint8

const (
	ReasonNone DisengageReason = iota
	ReasonArrived
	ReasonManualOverride
	ReasonTargetLost
	ReasonDocked
	ReasonCancelled
)

func (r DisengageReason) String() string {
	switch r {
	case ReasonArrived:
		return "arrived"
	case ReasonManualOverride:
		return "manual override"
	case ReasonTargetLost:
		return "target lost"
	case ReasonDocked:
		return "docked"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Leg is the point autonav flies at this tick. Speeds are relative to
// Velocity, the target's own motion.
type Leg struct {
	Aim      mgl64.Vec3
	Velocity mgl64.Vec3
	Standoff float64

	// With SlowSpeed set, the ship must be down to SlowSpeed once it has
	// covered SlowAt.
	SlowAt    float64
	SlowSpeed float64

	// Final legs end the flight on arrival; approach legs move on.
	Final bool
}

// Guidance is one tick of autopilot reasoning, kept for the HUD and tests.
type Guidance struct {
	Distance  float64
	Remaining float64
	Alignment float64
	Desired   float64
	Braking   bool
	Final     bool
	Controls  Controls
}

// AutonavState drives the player toward a target while Active.
type AutonavState struct {
	Active          bool
	Target          world.NavigationTarget
	BoostBreakpoint float64
	LastCommand     Controls
	Last            Guidance
	Reason          DisengageReason

	logLimiter *rate.Limiter
}

// Engage starts autonav toward t. The boost breakpoint, the distance needed
// to stop from boost speed with the safety buffer, is fixed here.
func (a *AutonavState) Engage(t world.NavigationTarget, d world.Drive, p Params) {
	brakeAccel := p.Flight.BaseAccel(d) * p.Flight.BrakeMultiplier
	vb := p.Flight.BoostMaxSpeed(d)
	a.BoostBreakpoint = math.Inf(1)
	if brakeAccel > 0 {
		a.BoostBreakpoint = vb * vb / (2 * brakeAccel) * p.Autonav.StopSafety
	}
	a.Active = true
	a.Target = t
	a.Reason = ReasonNone
	a.LastCommand = Controls{}
	a.Last = Guidance{}
	interval := p.Autonav.LogInterval
	if interval <= 0 {
		interval = time.Second
	}
	a.logLimiter = rate.NewLimiter(rate.Every(interval), 1)

	log.Info().
		Str("target", t.Name).
		Float64("breakpoint_au", a.BoostBreakpoint).
		Msg("autonav engaged")
}

// Disengage stops autonav and records why.
func (a *AutonavState) Disengage(r DisengageReason) {
	if !a.Active {
		return
	}
	a.Active = false
	a.Reason = r
	a.LastCommand = Controls{}
	log.Info().Str("target", a.Target.Name).Stringer("reason", r).Msg("autonav disengaged")
}

// Update produces this tick's controls. It disengages when the target is gone
// or the ship has arrived at the standoff distance.
func (a *AutonavState) Update(u *world.Universe, ship ShipState, fs FlightState, p Params, dt float64) Controls {
	if !a.Active {
		return Controls{}
	}
	leg, ok := a.Plan(u, ship, p)
	if !ok {
		a.Disengage(ReasonTargetLost)
		return Controls{}
	}

	g := Guide(leg, a.BoostBreakpoint, ship, fs, p, dt)
	a.Last = g
	if leg.Final && g.Remaining <= p.Autonav.ArrivalTolerance {
		a.Disengage(ReasonArrived)
		return Controls{Brake: true, MatchVelocity: leg.Velocity}
	}
	a.LastCommand = g.Controls

	if a.logLimiter != nil && a.logLimiter.Allow() {
		log.Debug().
			Str("target", a.Target.Name).
			Float64("remaining_au", g.Remaining).
			Bool("final", g.Final).
			Float64("speed", ship.Speed()).
			Float64("desired", g.Desired).
			Float64("align", g.Alignment).
			Bool("braking", g.Braking).
			Bool("boost", g.Controls.Boost).
			Msg("autonav")
	}
	return g.Controls
}

// Plan picks this tick's leg toward the target. Stations are entered
// through their entrance cone; everything else is flown at directly.
func (a *AutonavState) Plan(u *world.Universe, ship ShipState, p Params) (Leg, bool) {
	pos, ok := a.Target.Resolve(u)
	if !ok {
		return Leg{}, false
	}
	leg := Leg{Aim: pos, Standoff: Standoff(a.Target, p.Autonav, p.Dock), Final: true}
	if !a.Target.HasEntity || a.Target.Interstellar {
		return leg, true
	}
	leg.Velocity = u.Velocity(a.Target.Entity)
	if a.Target.Kind == world.KindStation {
		if t := u.Transform(a.Target.Entity); t != nil {
			leg = StationLeg(ship.Transform.Position, t.Rotation, a.Target.Radius, leg, p, p.Flight.MaxSpeed(*ship.Drive))
		}
	}
	return leg, true
}

// StationLeg routes a docking flight around a station. Inside the run-in
// cone around the entrance axis it returns final unchanged apart from a
// slow zone at the approach sphere. Outside it, the ship flies along the
// approach sphere toward the axis, one ApproachStep at a time, so it
// never crosses the hull.
func StationLeg(ship mgl64.Vec3, rot mgl64.Quat, radius float64, final Leg, p Params, normalMax float64) Leg {
	ap := p.Autonav
	centre := final.Aim
	sphere := radius * p.Dock.CollisionRadiusFactor * ap.ApproachRadiusFactor

	r := ship.Sub(centre)
	dist := r.Len()
	final.SlowSpeed = ap.ApproachSpeed * normalMax
	final.SlowAt = math.Max(0, dist-sphere)
	if dist == 0 || sphere <= 0 {
		return final
	}
	out := r.Mul(1 / dist)
	entrance := rot.Rotate(mgl64.Vec3{0, 0, 1})
	cos := entrance.Dot(out)
	if cos >= ap.RunInDot {
		return final
	}

	// Great circle from the ship's bearing toward the entrance axis.
	tangent := entrance.Sub(out.Mul(cos))
	if tangent.Len() < 1e-9 {
		// Dead astern: any way round will do.
		tangent = rot.Rotate(mgl64.Vec3{1, 0, 0})
	}
	tangent = tangent.Normalize()
	step := math.Min(ap.ApproachStep, math.Acos(mgl64.Clamp(cos, -1, 1)))
	dir := out.Mul(math.Cos(step)).Add(tangent.Mul(math.Sin(step)))

	final.Aim = centre.Add(dir.Mul(sphere))
	final.Standoff = 0
	final.Final = false
	return final
}

// Guide computes controls that fly the ship to standoff distance from the
// leg's aim point: boost while far and aligned, cruise, then brake on a
// stopping curve sqrt(2·a·d) padded by StopSafety. Sideways drift is
// cancelled by leaning the thrust heading against it, or by braking when
// the nose is too far off that heading.
func Guide(leg Leg, breakpoint float64, ship ShipState, fs FlightState, p Params, dt float64) Guidance {
	d := *ship.Drive
	fp, ap := p.Flight, p.Autonav

	offset := leg.Aim.Sub(ship.Transform.Position)
	dist := offset.Len()
	g := Guidance{Distance: dist, Remaining: dist - leg.Standoff, Final: leg.Final}
	if dist == 0 {
		g.Controls = Controls{Brake: true, MatchVelocity: leg.Velocity}
		return g
	}
	bearing := offset.Mul(1 / dist)
	forward := Forward(ship.Transform.Rotation)
	g.Alignment = forward.Dot(bearing)

	vel := ship.Motion.Velocity.Sub(leg.Velocity)
	speed := vel.Len()
	brakeAccel := fp.BrakeAccel(d, fs)
	remaining := math.Max(g.Remaining, 0)
	slowing := leg.SlowSpeed > 0
	if brakeAccel > 0 {
		g.Braking = remaining <= speed*speed/(2*brakeAccel)*ap.StopSafety
		if slowing && leg.SlowAt <= (speed*speed-leg.SlowSpeed*leg.SlowSpeed)/(2*brakeAccel)*ap.StopSafety {
			g.Braking = true
		}
	} else {
		g.Braking = true
	}

	normalMax := fp.MaxSpeed(d)
	boost := g.Alignment > ap.BoostAlignment && !g.Braking && remaining > breakpoint &&
		d.Fuel > 0 && fs.BoostCooldownRemaining <= 0
	cruise := normalMax
	switch {
	case boost:
		cruise = fp.BoostMaxSpeed(d)
	case fs.Regime() != RegimeNormal:
		// Let a finished boost bleed off along the decaying cap.
		cruise = fp.SpeedCap(d, fs)
	}

	g.Desired = math.Min(cruise, math.Sqrt(2*brakeAccel*remaining))
	if slowing {
		g.Desired = math.Min(g.Desired, math.Sqrt(leg.SlowSpeed*leg.SlowSpeed+2*brakeAccel*leg.SlowAt))
	}
	if g.Alignment < ap.MisalignedAlignment {
		g.Desired = math.Min(g.Desired, ap.MisalignedSpeed*normalMax)
	}

	// Thrust heading: the bearing, leaned against sideways drift once the
	// ship is closing.
	along := vel.Dot(bearing)
	drift := vel.Sub(bearing.Mul(along))
	heading := bearing
	if along > 0 && g.Desired > 0 {
		if h := bearing.Mul(g.Desired).Sub(drift); h.Len() > 0 {
			heading = h.Normalize()
		}
	}
	thrustAlign := forward.Dot(heading)
	if thrustAlign <= ap.BoostAlignment {
		boost = false
	}

	c := Controls{Boost: boost, MatchVelocity: leg.Velocity}
	tol := 0.01 * g.Desired
	switch {
	case speed > g.Desired+tol, drift.Len() > ap.DriftBrake*g.Desired && thrustAlign < ap.ThrustAlignment:
		c.Brake = true
		c.Boost = false
	case !g.Braking && thrustAlign > ap.ThrustAlignment && (along < g.Desired-tol || drift.Len() > tol):
		c.Accelerate = true
	}
	if !c.Boost && fs.Regime() == RegimeNormal {
		g.Desired = math.Min(g.Desired, normalMax)
	}

	local := ship.Transform.Rotation.Conjugate().Rotate(heading)
	yawErr := math.Atan2(local.X(), local.Z())
	pitchErr := math.Atan2(local.Y(), math.Hypot(local.X(), local.Z()))
	c.Yaw = steer(yawErr, ap, fp.TurnRate, dt)
	c.Pitch = steer(pitchErr, ap, fp.TurnRate, dt)

	g.Controls = c
	return g
}

// steer is a proportional turn command that lands on the bearing instead of
// overshooting it, with a dead zone against jitter.
func steer(err float64, ap AutonavParams, rate, dt float64) float64 {
	if math.Abs(err) <= ap.DeadZone {
		return 0
	}
	step := rate * dt
	if step <= 0 {
		return 0
	}
	gain := ap.SteerGain
	if gain <= 0 {
		gain = 1
	}
	return clampAxis(gain * err / step)
}
