// Package hydrostatics turns a probed hull into per-station lookup tables
// of wetted area and displaced volume against draft.
//
// A Table moves through Empty, RaysCast and TablesBuilt. CastRays sweeps a
// grid of beam-wise probes over the starboard side of the hull, BuildTables
// triangulates the grid and integrates it from the keel upward. Queries
// before the tables exist return false and are reported to the observer.
package hydrostatics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/observe"
	"github.com/san-kum/hydrodrag/internal/probe"
)

const (
	LengthSegments = 100
	HeightSegments = 50
	Stations       = 6
	ForcePoints    = 2 * Stations

	DefaultSpan = 10.0

	lengthOvershoot = 1.3
	stationInset    = 0.9
	probeBeamRatio  = 2.5
)

type State int

const (
	Empty State = iota
	RaysCast
	TablesBuilt
	Failed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case RaysCast:
		return "rays-cast"
	case TablesBuilt:
		return "tables-built"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Values struct {
	WettedArea float64
	Volume     float64
}

type Option func(*Table)

func WithSpan(span float64) Option {
	return func(t *Table) {
		if span > 0 {
			t.span = span
		}
	}
}

func WithObserver(o observe.Observer) Option {
	return func(t *Table) { t.observer = observe.OrNop(o) }
}

func WithName(name string) Option {
	return func(t *Table) { t.name = name }
}

// WithMasks sets the primary layer mask and the mask retried when the
// primary one yields no hit over the whole grid.
func WithMasks(primary, fallback probe.LayerMask) Option {
	return func(t *Table) {
		t.primary = primary
		t.fallback = fallback
	}
}

type Table struct {
	name     string
	vessel   entity.Handle
	span     float64
	extents  probe.Extents
	primary  probe.LayerMask
	fallback probe.LayerMask
	observer observe.Observer

	state     State
	mask      probe.LayerMask
	hits      int
	minLength float64
	maxLength float64

	grid  [HeightSegments + 1][LengthSegments + 1]mgl64.Vec3
	beams [LengthSegments + 1]float64 // half widths

	area   [Stations][HeightSegments + 1]float64
	volume [Stations][HeightSegments + 1]float64
}

// New prepares an empty table for a hull whose extreme points are ext.
func New(vessel entity.Handle, ext probe.Extents, opts ...Option) *Table {
	t := &Table{
		name:      vessel.String(),
		vessel:    vessel,
		span:      DefaultSpan,
		extents:   ext,
		primary:   probe.LayerHull,
		fallback:  probe.LayerFallback,
		observer:  observe.Nop{},
		minLength: lengthOvershoot * ext.Stern,
		maxLength: lengthOvershoot * ext.Bow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Build surveys the hull and runs the whole state machine. The returned
// table is never nil; on error it is in the Failed state and callers fall
// back to the closed-form estimates.
func Build(p *probe.Prober, frame geom.Frame, vessel entity.Handle, opts ...Option) (*Table, error) {
	t := New(vessel, probe.Extents{}, opts...)

	ext, err := p.Survey(frame, vessel, t.primary)
	mask := t.primary
	if err != nil {
		ext, err = p.Survey(frame, vessel, t.fallback)
		mask = t.fallback
	}
	if err != nil {
		t.state = Failed
		berr := &BuildError{Vessel: t.name, Mask: mask, Stage: "survey", Err: fmt.Errorf("%w: %w", ErrNoHullHits, err)}
		t.report(berr)
		return t, berr
	}
	t.extents = ext
	t.minLength = lengthOvershoot * ext.Stern
	t.maxLength = lengthOvershoot * ext.Bow

	if err := t.CastRays(p, frame); err != nil {
		t.report(err)
		return t, err
	}
	if err := t.BuildTables(); err != nil {
		t.report(err)
		return t, err
	}
	t.report(nil)
	return t, nil
}

func (t *Table) report(err error) {
	s := t.Summary()
	t.observer.TableBuilt(observe.TableEvent{
		Vessel:       t.vessel,
		Name:         t.name,
		State:        t.state.String(),
		Mask:         t.mask.String(),
		Hits:         t.hits,
		Displacement: s.Volume,
		WettedArea:   s.WettedArea,
		Err:          err,
	})
}

func (t *Table) State() State           { return t.state }
func (t *Table) Span() float64          { return t.span }
func (t *Table) Extents() probe.Extents { return t.extents }
func (t *Table) Mask() probe.LayerMask  { return t.mask }
func (t *Table) Name() string           { return t.name }

func (t *Table) heightAt(i int) float64 {
	return t.extents.Keel + t.span*float64(i)/HeightSegments
}

func (t *Table) lengthAt(i int) float64 {
	return geom.Lerp(t.minLength, t.maxLength, float64(i)/LengthSegments)
}

// CastRays fills the hull sample grid, retrying the whole grid on the
// fallback mask when the primary mask produced no hit at all.
func (t *Table) CastRays(p *probe.Prober, frame geom.Frame) error {
	if t.state != Empty {
		return fmt.Errorf("cast rays in state %s: %w", t.state, ErrInvalidState)
	}
	for _, mask := range []probe.LayerMask{t.primary, t.fallback} {
		if mask == 0 {
			continue
		}
		if n := t.castGrid(p, frame, mask); n > 0 {
			t.mask = mask
			t.hits = n
			t.state = RaysCast
			return nil
		}
	}
	t.state = Failed
	return &BuildError{Vessel: t.name, Mask: t.fallback, Stage: "cast rays", Err: ErrNoHullHits}
}

func (t *Table) castGrid(p *probe.Prober, frame geom.Frame, mask probe.LayerMask) int {
	hits := 0
	t.beams = [LengthSegments + 1]float64{}
	for hi := 0; hi <= HeightSegments; hi++ {
		h := t.heightAt(hi)
		for li := 0; li <= LengthSegments; li++ {
			target := mgl64.Vec3{0, h, t.lengthAt(li)}
			hit, ok := p.Probe(probe.Request{
				Origin: target.Add(geom.Right.Mul(probe.DefaultOriginOffset)),
				Target: target,
				Frame:  frame,
				Mask:   mask,
				Owner:  t.vessel,
			})
			if !ok {
				t.grid[hi][li] = geom.Sentinel
				continue
			}
			hits++
			t.grid[hi][li] = hit.Local
			t.beams[li] = math.Max(t.beams[li], hit.Local.X())
		}
	}
	return hits
}

// BuildTables integrates the grid into cumulative per-station tables.
func (t *Table) BuildTables() error {
	if t.state != RaysCast {
		return fmt.Errorf("build tables in state %s: %w", t.state, ErrInvalidState)
	}
	t.area = [Stations][HeightSegments + 1]float64{}
	t.volume = [Stations][HeightSegments + 1]float64{}

	for hi := 0; hi < HeightSegments; hi++ {
		for s := 0; s < Stations; s++ {
			t.area[s][hi+1] = t.area[s][hi]
			t.volume[s][hi+1] = t.volume[s][hi]
		}
		for li := 0; li < LengthSegments; li++ {
			lowAstern := t.grid[hi][li]
			lowAhead := t.grid[hi][li+1]
			highAstern := t.grid[hi+1][li]
			highAhead := t.grid[hi+1][li+1]

			s := t.nearestStation(t.lengthAt(li))
			t.add(s, hi+1, lowAstern, lowAhead, highAhead)
			t.add(s, hi+1, lowAstern, highAhead, highAstern)
		}
	}
	t.state = TablesBuilt
	return nil
}

func (t *Table) add(station, row int, p1, p2, p3 mgl64.Vec3) {
	if geom.AnySentinel(p1, p2, p3) {
		return
	}
	area, volume := geom.TriangleContribution(p1, p2, p3)
	t.area[station][row] += area
	t.volume[station][row] += volume
}

// StationZ is the local Z of station i.
func (t *Table) StationZ(i int) float64 {
	lo := stationInset * t.extents.Stern
	hi := stationInset * t.extents.Bow
	return lo + (hi-lo)*float64(i)/(Stations-1)
}

func (t *Table) nearestStation(z float64) int {
	best, bestDist := 0, math.Inf(1)
	for s := 0; s < Stations; s++ {
		if d := math.Abs(t.StationZ(s) - z); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// GetValues returns the one-side wetted area and volume of station below
// draft, measured from the keel. It reports false before the tables exist
// or for an unknown station.
func (t *Table) GetValues(station int, draft float64) (Values, bool) {
	if t.state != TablesBuilt {
		t.observer.PrematureQuery(observe.QueryEvent{
			Vessel:  t.vessel,
			Name:    t.name,
			Station: station,
			State:   t.state.String(),
		})
		return Values{}, false
	}
	if station < 0 || station >= Stations {
		return Values{}, false
	}

	f := geom.Clamp01(draft/t.span) * HeightSegments
	lo := int(f)
	if lo >= HeightSegments {
		return Values{
			WettedArea: t.area[station][HeightSegments],
			Volume:     t.volume[station][HeightSegments],
		}, true
	}
	frac := f - float64(lo)
	return Values{
		WettedArea: geom.Lerp(t.area[station][lo], t.area[station][lo+1], frac),
		Volume:     geom.Lerp(t.volume[station][lo], t.volume[station][lo+1], frac),
	}, true
}

// Beam returns the interpolated full beam width at local z.
func (t *Table) Beam(z float64) float64 {
	if t.state != RaysCast && t.state != TablesBuilt {
		return 0
	}
	f := geom.Clamp01((z-t.minLength)/(t.maxLength-t.minLength)) * LengthSegments
	lo := int(f)
	if lo >= LengthSegments {
		return 2 * t.beams[LengthSegments]
	}
	return 2 * geom.Lerp(t.beams[lo], t.beams[lo+1], f-float64(lo))
}

// ProbePositions lays the force points out in port/starboard pairs, one
// pair per station, at a fraction of the local beam.
func (t *Table) ProbePositions() ([]mgl64.Vec3, bool) {
	if t.state != RaysCast && t.state != TablesBuilt {
		return nil, false
	}
	out := make([]mgl64.Vec3, ForcePoints)
	for s := 0; s < Stations; s++ {
		z := t.StationZ(s)
		x := t.Beam(z) / probeBeamRatio
		out[2*s] = mgl64.Vec3{-x, 0, z}
		out[2*s+1] = mgl64.Vec3{x, 0, z}
	}
	return out, true
}

// NominalProbePositions lays force points out on a box of the given length
// and beam, for vessels whose tables could not be built.
func NominalProbePositions(length, beam float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, ForcePoints)
	for s := 0; s < Stations; s++ {
		z := stationInset * length * (float64(s)/(Stations-1) - 0.5)
		x := beam / probeBeamRatio
		out[2*s] = mgl64.Vec3{-x, 0, z}
		out[2*s+1] = mgl64.Vec3{x, 0, z}
	}
	return out
}

type Summary struct {
	State      State
	Mask       probe.LayerMask
	Hits       int
	Length     float64
	Keel       float64
	MaxBeam    float64
	WettedArea float64
	Volume     float64
}

// Summary totals every station at the top of the table. Volume and area
// cover one side of the hull.
func (t *Table) Summary() Summary {
	s := Summary{
		State:  t.state,
		Mask:   t.mask,
		Hits:   t.hits,
		Length: t.extents.Length(),
		Keel:   t.extents.Keel,
	}
	for _, b := range t.beams {
		s.MaxBeam = math.Max(s.MaxBeam, 2*b)
	}
	if t.state != TablesBuilt {
		return s
	}
	for st := 0; st < Stations; st++ {
		s.WettedArea += t.area[st][HeightSegments]
		s.Volume += t.volume[st][HeightSegments]
	}
	return s
}

// Curve returns the summed one-side area and volume at each height row,
// for plotting and export.
func (t *Table) Curve() (drafts, areas, volumes []float64) {
	if t.state != TablesBuilt {
		return nil, nil, nil
	}
	for hi := 0; hi <= HeightSegments; hi++ {
		var a, v float64
		for st := 0; st < Stations; st++ {
			a += t.area[st][hi]
			v += t.volume[st][hi]
		}
		drafts = append(drafts, t.span*float64(hi)/HeightSegments)
		areas = append(areas, a)
		volumes = append(volumes, v)
	}
	return drafts, areas, volumes
}
