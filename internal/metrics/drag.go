package metrics

import (
	"math"

	"github.com/san-kum/hydrodrag/internal/sim"
)

// PeakDrag is the largest drag magnitude seen, in newtons.
type PeakDrag struct {
	peak float64
}

func NewPeakDrag() *PeakDrag { return &PeakDrag{} }

func (p *PeakDrag) Name() string { return "peak_drag" }

func (p *PeakDrag) Observe(x sim.Sample) {
	p.peak = math.Max(p.peak, math.Abs(x.Drag))
}

func (p *PeakDrag) Value() float64 { return p.peak }

func (p *PeakDrag) Reset() { p.peak = 0 }

// Fraction counts the steps for which a predicate held.
type Fraction struct {
	name    string
	pred    func(sim.Sample) bool
	hits    int
	samples int
}

func NewFraction(name string, pred func(sim.Sample) bool) *Fraction {
	return &Fraction{name: name, pred: pred}
}

// NewTableCoverage is the fraction of steps that used hydrostatic tables.
func NewTableCoverage() *Fraction {
	return NewFraction("table_coverage", func(s sim.Sample) bool { return s.TableUsed })
}

// NewWaterDropouts is the fraction of steps without a water sample.
func NewWaterDropouts() *Fraction {
	return NewFraction("water_dropouts", func(s sim.Sample) bool { return !s.WaterSampled })
}

func (f *Fraction) Name() string { return f.name }

func (f *Fraction) Observe(x sim.Sample) {
	f.samples++
	if f.pred(x) {
		f.hits++
	}
}

func (f *Fraction) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.hits) / float64(f.samples)
}

func (f *Fraction) Reset() {
	f.hits = 0
	f.samples = 0
}

// Standard is the metric set the CLI attaches to every run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewTopSpeed(),
		NewMeanSpeed(),
		NewMeanDraft(),
		NewPeakDrag(),
		NewStability(0.5),
		NewTableCoverage(),
		NewWaterDropouts(),
	}
}
