package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the translational state of the synthetic rigid body. The host
// keeps the hull level, so forces applied at the probe points only move
// the centre of mass.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sample is one row of a run trace.
type Sample struct {
	Time         float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Speed        float64
	Draft        float64
	Displacement float64
	WettedArea   float64
	Viscous      float64
	WaveMaking   float64
	Drag         float64
	LateralDrag  float64
	Buoyancy     float64
	Thrust       float64
	TableUsed    bool
	WaterSampled bool
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

type Result struct {
	Vessel     string
	Class      string
	Mass       float64
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last sample, or the zero sample for an empty run.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Series extracts one column of the trace.
func (r *Result) Series(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}
