// Package observe defines the instrumentation hooks of the engine.
//
// Core packages call an [Observer] at a few fixed points: a hydrostatic
// table finished (or failed) building, a table was queried before it was
// ready, an outlier filter clamped a sample, and the per-step forces were
// computed. The default is [Nop]; [Log] and [Metrics] forward to zerolog
// and OpenTelemetry, and [Multi] fans out to several observers.
package observe

import "github.com/san-kum/hydrodrag/internal/entity"

type TableEvent struct {
	Vessel       entity.Handle
	Name         string
	State        string
	Mask         string
	Hits         int
	Displacement float64
	WettedArea   float64
	Err          error
}

type QueryEvent struct {
	Vessel  entity.Handle
	Name    string
	Station int
	State   string
}

type ClampEvent struct {
	Filter  string
	Vessel  entity.Handle
	Raw     float64
	Clamped float64
}

type ForceEvent struct {
	Vessel          entity.Handle
	Class           string
	Draft           float64
	Displacement    float64
	WettedArea      float64
	ForwardVelocity float64
	Viscous         float64
	WaveMaking      float64
	Drag            float64
	ClampedDrag     float64
	LateralDrag     float64
	Buoyancy        float64
	TableUsed       bool
	WaterSampled    bool
}

type Observer interface {
	TableBuilt(e TableEvent)
	PrematureQuery(e QueryEvent)
	FilterClamped(e ClampEvent)
	ForceComputed(e ForceEvent)
}

// Nop ignores every event.
type Nop struct{}

func (Nop) TableBuilt(TableEvent)     {}
func (Nop) PrematureQuery(QueryEvent) {}
func (Nop) FilterClamped(ClampEvent)  {}
func (Nop) ForceComputed(ForceEvent)  {}

// OrNop returns o, or Nop when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop{}
	}
	return o
}

// Multi forwards every event to each observer in order.
type Multi []Observer

func (m Multi) TableBuilt(e TableEvent) {
	for _, o := range m {
		o.TableBuilt(e)
	}
}

func (m Multi) PrematureQuery(e QueryEvent) {
	for _, o := range m {
		o.PrematureQuery(e)
	}
}

func (m Multi) FilterClamped(e ClampEvent) {
	for _, o := range m {
		o.FilterClamped(e)
	}
}

func (m Multi) ForceComputed(e ForceEvent) {
	for _, o := range m {
		o.ForceComputed(e)
	}
}

// Recorder keeps every event in memory. Tests and the live view use it.
type Recorder struct {
	Tables  []TableEvent
	Queries []QueryEvent
	Clamps  []ClampEvent
	Forces  []ForceEvent
}

func (r *Recorder) TableBuilt(e TableEvent)     { r.Tables = append(r.Tables, e) }
func (r *Recorder) PrematureQuery(e QueryEvent) { r.Queries = append(r.Queries, e) }
func (r *Recorder) FilterClamped(e ClampEvent)  { r.Clamps = append(r.Clamps, e) }
func (r *Recorder) ForceComputed(e ForceEvent)  { r.Forces = append(r.Forces, e) }

func (r *Recorder) Reset() {
	r.Tables = r.Tables[:0]
	r.Queries = r.Queries[:0]
	r.Clamps = r.Clamps[:0]
	r.Forces = r.Forces[:0]
}
