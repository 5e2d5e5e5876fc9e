package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/controllers"
	"github.com/san-kum/hydrodrag/internal/engine"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/integrators"
	"github.com/san-kum/hydrodrag/internal/observe"
	"github.com/san-kum/hydrodrag/internal/performance"
	"github.com/san-kum/hydrodrag/internal/probe"
)

// heaveDamping is the host's linear vertical damping, per second.
const heaveDamping = 0.5

const invalidState = "invalid state (NaN/Inf)"

// Simulator drives one synthetic vessel through the engine with a fixed
// step, integrating the returned forces with the configured scheme.
//
// Every session of a simulator takes its vessel handle from one registry,
// so sessions that share the resolver never alias each other's entries.
type Simulator struct {
	settings  engine.Settings
	resolver  *performance.Resolver
	reg       *entity.Registry
	observer  observe.Observer
	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

func WithSettings(s engine.Settings) Option {
	return func(sim *Simulator) { sim.settings = s }
}

// WithEngineObserver receives the engine's own events. It must be safe
// for concurrent use when the simulator runs an ensemble.
func WithEngineObserver(o observe.Observer) Option {
	return func(sim *Simulator) { sim.observer = o }
}

func New(resolver *performance.Resolver, opts ...Option) *Simulator {
	if resolver == nil {
		resolver = performance.NewResolver(nil)
	}
	s := &Simulator{
		settings:  engine.DefaultSettings(),
		resolver:  resolver,
		reg:       entity.NewRegistry(),
		observer:  observe.Nop{},
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Resolver() *performance.Resolver { return s.resolver }

// Registry issues the vessel handles of every session.
func (s *Simulator) Registry() *entity.Registry { return s.reg }

// Session is one vessel in one water scenario, stepped by the caller.
type Session struct {
	cfg    config.Config
	hull   Hull
	class  string
	reg    *entity.Registry
	water  *Swell
	scene  *probe.Scene
	eng    *engine.Engine
	body   entity.Handle
	integ  integrators.Integrator
	pilot  *controllers.SpeedHold
	mass   float64
	thrust float64
	x      State
	t      float64
	step   int
	steps  int
}

// Start builds a fresh collision scene, water and engine for cfg.
func (s *Simulator) Start(cfg *config.Config) (*Session, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	hull, err := LookupHull(cfg.Vessel)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	class := hull.Class
	if cfg.Class != "" {
		class = cfg.Class
	}

	ss := &Session{
		cfg:    *cfg,
		hull:   hull,
		class:  class,
		reg:    s.reg,
		scene:  probe.NewScene(),
		water:  NewSwell(cfg.Water, cfg.Seed),
		integ:  integ,
		thrust: cfg.Thrust,
		steps:  int(cfg.Duration / cfg.Dt),
	}
	// not subscribed to the shared registry; Close forgets the vessel
	ss.eng = engine.New(probe.NewProber(ss.scene), ss.water, s.resolver,
		engine.WithSettings(s.settings),
		engine.WithObserver(s.observer),
	)
	ss.body = ss.reg.Create(class)
	hull.Place(ss.scene, ss.body)
	ss.mass = ss.eng.AdjustedMass(ss.body, class, hull.Mass())
	if ap := cfg.Autopilot; ap.Enabled() {
		ss.pilot = controllers.NewSpeedHold(ap.TargetSpeed, ss.mass, ap.MaxThrust, ap.Kp, ap.Ki, ap.Kd)
	}
	ss.x = State{
		Position: mgl64.Vec3{0, cfg.Water.SeaLevel + hull.RestHeight() + cfg.InitState.Height, 0},
		Velocity: mgl64.Vec3{0, 0, cfg.InitState.Speed},
	}
	return ss, nil
}

func (ss *Session) Engine() *engine.Engine { return ss.eng }
func (ss *Session) Vessel() entity.Handle  { return ss.body }
func (ss *Session) Hull() Hull             { return ss.hull }
func (ss *Session) Class() string          { return performance.NormalizeName(ss.class) }
func (ss *Session) Mass() float64          { return ss.mass }
func (ss *Session) State() State           { return ss.x }
func (ss *Session) Time() float64          { return ss.t }
func (ss *Session) Thrust() float64        { return ss.thrust }
func (ss *Session) Water() *Swell          { return ss.water }

// SetThrust sets a fixed thrust and disengages the autopilot.
func (ss *Session) SetThrust(f float64) {
	ss.pilot = nil
	ss.thrust = f
}

// Autopilot returns the speed hold, or nil when thrust is fixed.
func (ss *Session) Autopilot() *controllers.SpeedHold { return ss.pilot }

// Done reports whether the configured duration has elapsed.
func (ss *Session) Done() bool { return ss.step >= ss.steps }

// Close destroys the vessel, releasing every engine cache entry.
func (ss *Session) Close() {
	ss.eng.Forget(ss.body)
	ss.reg.Destroy(ss.body)
	ss.scene.Remove(ss.body)
}

// Step advances one fixed step. The state is left unchanged when the
// integration produces NaN or Inf.
func (ss *Session) Step() (Sample, error) {
	dt := ss.cfg.Dt
	frame := geom.At(ss.x.Position)
	ss.scene.SetPose(ss.body, frame)
	out, err := ss.eng.Update(engine.Input{
		Vessel:   ss.body,
		Class:    ss.class,
		Frame:    frame,
		Velocity: ss.x.Velocity,
		Dt:       dt,
	})
	if err != nil {
		return Sample{}, SimError{Time: ss.t, Step: ss.step, Message: err.Error()}
	}

	forward := frame.TransformDirection(geom.Forward)
	if ss.pilot != nil {
		ss.thrust = ss.pilot.Thrust(ss.x.Velocity.Dot(forward), dt)
	}
	net := forward.Mul(ss.thrust).
		Add(geom.Up.Mul(-gravity * ss.mass)).
		Add(geom.Up.Mul(-heaveDamping * ss.mass * ss.x.Velocity.Y()))
	for _, pf := range out.Forces {
		net = net.Add(pf.Force)
	}

	var next State
	next.Position, next.Velocity = ss.integ.Step(ss.x.Position, ss.x.Velocity, net.Mul(1/ss.mass), dt)
	if !next.IsValid() {
		return Sample{}, SimError{Time: ss.t, Step: ss.step, Message: invalidState}
	}

	ss.x = next
	ss.t += dt
	ss.step++
	ss.water.Advance(dt)

	return Sample{
		Time:         ss.t,
		Position:     ss.x.Position,
		Velocity:     ss.x.Velocity,
		Speed:        ss.x.Velocity.Dot(forward),
		Draft:        out.Draft,
		Displacement: out.Displacement,
		WettedArea:   out.WettedArea,
		Viscous:      out.Drag.Viscous,
		WaveMaking:   out.Drag.WaveMaking,
		Drag:         out.DragForce,
		LateralDrag:  out.LateralDrag,
		Buoyancy:     out.Buoyancy,
		Thrust:       ss.thrust,
		TableUsed:    out.TableUsed,
		WaterSampled: out.WaterSampled,
	}, nil
}

// Run simulates cfg and returns its trace. A cancelled context returns the
// partial trace with the context's error. A step that produces an invalid
// state ends the run early and is recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	ss, err := s.Start(cfg)
	if err != nil {
		return nil, err
	}
	defer ss.Close()

	result := &Result{
		Vessel:  ss.hull.Name,
		Class:   ss.Class(),
		Mass:    ss.mass,
		Samples: make([]Sample, 0, ss.steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for !ss.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample, err := ss.Step()
		if err != nil {
			var simErr SimError
			if errors.As(err, &simErr) && simErr.Message == invalidState {
				result.Errors = append(result.Errors, err)
				break
			}
			return result, err
		}
		result.StepsTaken++
		result.Samples = append(result.Samples, sample)

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
