package metrics

import (
	"math"

	"github.com/san-kum/hydrodrag/internal/sim"
)

type TopSpeed struct {
	max float64
}

func NewTopSpeed() *TopSpeed { return &TopSpeed{} }

func (t *TopSpeed) Name() string { return "top_speed" }

func (t *TopSpeed) Observe(x sim.Sample) {
	t.max = math.Max(t.max, math.Abs(x.Speed))
}

func (t *TopSpeed) Value() float64 { return t.max }

func (t *TopSpeed) Reset() { t.max = 0 }

// Mean averages one column of the trace.
type Mean struct {
	name    string
	field   func(sim.Sample) float64
	sum     float64
	samples int
}

func NewMean(name string, field func(sim.Sample) float64) *Mean {
	return &Mean{name: name, field: field}
}

func NewMeanDraft() *Mean {
	return NewMean("mean_draft", func(s sim.Sample) float64 { return s.Draft })
}

func NewMeanSpeed() *Mean {
	return NewMean("mean_speed", func(s sim.Sample) float64 { return s.Speed })
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(x sim.Sample) {
	m.sum += m.field(x)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}
