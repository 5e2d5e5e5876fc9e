// Package engine evaluates buoyancy and drag for every vessel once per
// fixed step. It owns the per-vessel caches (hydrostatic tables, resolved
// parameters, filter history) and hands the host one force per probe
// point.
package engine

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/cache"
	"github.com/san-kum/hydrodrag/internal/drag"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/filter"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/hydrostatics"
	"github.com/san-kum/hydrodrag/internal/observe"
	"github.com/san-kum/hydrodrag/internal/performance"
	"github.com/san-kum/hydrodrag/internal/probe"
)

var (
	ErrZeroHandle  = errors.New("engine: zero vessel handle")
	ErrInvalidStep = errors.New("engine: invalid time step")
	ErrInvalidPose = errors.New("engine: non-finite pose or velocity")
)

// Water is the host's water surface sampler. Sample returns, per point,
// the surface displacement relative to SeaLevel and the water velocity.
type Water interface {
	SeaLevel() float64
	Sample(points []mgl64.Vec3) (disp, vel []mgl64.Vec3, err error)
}

type Input struct {
	Vessel          entity.Handle
	Class           string
	Frame           geom.Frame
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Dt              float64
	// DontUpdateVelocity holds the smoothed samples, as the host does on
	// the step after a teleport.
	DontUpdateVelocity bool
}

// PointForce is a world-space force applied at a world-space point.
type PointForce struct {
	Point mgl64.Vec3
	Force mgl64.Vec3
}

type Output struct {
	Forces          []PointForce
	Draft           float64
	Displacement    float64
	WettedArea      float64
	ForwardVelocity float64
	LateralVelocity float64
	Drag            drag.Breakdown
	DragForce       float64
	LateralDrag     float64
	Buoyancy        float64
	TableUsed       bool
	InputsAccepted  bool
	WaterSampled    bool
}

type vessel struct {
	table  *hydrostatics.Table
	probes []mgl64.Vec3
	keel   float64
	draft  float64
	steps  uint64
}

type Engine struct {
	settings Settings
	prober   *probe.Prober
	water    Water
	resolver *performance.Resolver
	observer observe.Observer
	registry *entity.Registry

	vessels  *cache.Cache[*vessel]
	smoother *filter.Smoother
	velocity *filter.OutlierFilter
	force    *filter.OutlierFilter
}

type Option func(*Engine)

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s.withDefaults() }
}

func WithObserver(o observe.Observer) Option {
	return func(e *Engine) { e.observer = observe.OrNop(o) }
}

// WithRegistry drops every per-vessel entry when reg destroys the vessel.
func WithRegistry(reg *entity.Registry) Option {
	return func(e *Engine) { e.registry = reg }
}

func New(prober *probe.Prober, water Water, resolver *performance.Resolver, opts ...Option) *Engine {
	if resolver == nil {
		resolver = performance.NewResolver(nil)
	}
	e := &Engine{
		settings: DefaultSettings(),
		prober:   prober,
		water:    water,
		resolver: resolver,
		observer: observe.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}

	filterOpts := []filter.Option{filter.WithObserver(e.observer)}
	e.vessels = cache.New[*vessel](nil)
	if e.registry != nil {
		e.vessels.Watch(e.registry)
		filterOpts = append(filterOpts, filter.WithRegistry(e.registry))
		e.registry.Subscribe(entity.ListenerFunc(e.resolver.Forget))
	}
	e.smoother = filter.NewSmoother(filter.DefaultSmoothing, filterOpts...)
	e.velocity = filter.NewOutlierFilter(filter.VelocitySettings, filterOpts...)
	e.force = filter.NewOutlierFilter(filter.ForceSettings, filterOpts...)
	return e
}

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) Resolver() *performance.Resolver { return e.resolver }

// Parameters returns the resolved parameters of a vessel.
func (e *Engine) Parameters(h entity.Handle, class string) performance.Parameters {
	return e.resolver.ForVessel(h, class)
}

// AdjustedMass scales the host's mass by the vessel and global mass
// multipliers.
func (e *Engine) AdjustedMass(h entity.Handle, class string, baseMass float64) float64 {
	p := e.resolver.ForVessel(h, class)
	return baseMass * p.MassMultiplier * e.settings.MassMultiplier
}

// Table returns the hydrostatic table of a vessel that has been updated at
// least once.
func (e *Engine) Table(h entity.Handle) (*hydrostatics.Table, bool) {
	v, ok := e.vessels.Peek(h)
	if !ok {
		return nil, false
	}
	return v.table, true
}

// ProbePositions returns the vessel-local force points of a vessel.
func (e *Engine) ProbePositions(h entity.Handle) ([]mgl64.Vec3, bool) {
	v, ok := e.vessels.Peek(h)
	if !ok {
		return nil, false
	}
	return append([]mgl64.Vec3(nil), v.probes...), true
}

// Forget drops everything cached for h.
func (e *Engine) Forget(h entity.Handle) {
	e.vessels.Forget(h)
	e.smoother.Forget(h)
	e.velocity.Forget(h)
	e.force.Forget(h)
	e.resolver.Forget(h)
}

func (e *Engine) vesselFor(in Input, params performance.Parameters) *vessel {
	return e.vessels.GetFunc(in.Vessel, func(h entity.Handle) *vessel {
		table, _ := hydrostatics.Build(e.prober, in.Frame, h,
			hydrostatics.WithName(performance.NormalizeName(in.Class)),
			hydrostatics.WithSpan(e.settings.Span),
			hydrostatics.WithObserver(e.observer),
		)
		v := &vessel{table: table, draft: initialDraft}
		if points, ok := table.ProbePositions(); ok {
			v.probes = points
			v.keel = table.Extents().Keel
		} else {
			lwl := params.WaterlineLength * e.settings.LengthMultiplier
			v.probes = hydrostatics.NominalProbePositions(lwl, lwl/nominalBeamRatio)
		}
		return v
	})
}
