// Package filter rejects single-step spikes in per-vessel signals and
// smooths the water samples that feed the force computation.
package filter

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/cache"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/observe"
)

const SampleCount = 16

type Settings struct {
	Name           string
	RateLimit      float64
	NoFilterCutoff float64
}

var (
	ForceSettings    = Settings{Name: "force", RateLimit: 1.2, NoFilterCutoff: 5}
	VelocitySettings = Settings{Name: "velocity", RateLimit: 1.1, NoFilterCutoff: 0.1}
	InputSettings    = Settings{Name: "input", RateLimit: 1.2, NoFilterCutoff: 0.1}
)

type options struct {
	observer observe.Observer
	registry *entity.Registry
}

type Option func(*options)

func WithObserver(o observe.Observer) Option {
	return func(opts *options) { opts.observer = observe.OrNop(o) }
}

// WithRegistry drops per-vessel state when reg destroys the vessel.
func WithRegistry(reg *entity.Registry) Option {
	return func(opts *options) { opts.registry = reg }
}

func collect(opts []Option) options {
	o := options{observer: observe.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type history struct {
	samples [SampleCount]float64
	cursor  uint32
}

func (h *history) insert(v float64) {
	h.samples[h.cursor%SampleCount] = v
	h.cursor++
}

func (h *history) bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range h.samples {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	return lo, hi
}

// OutlierFilter keeps the last SampleCount samples per vessel and replaces
// values that jump past the recent extreme by more than the rate limit.
type OutlierFilter struct {
	settings Settings
	observer observe.Observer
	buffers  *cache.Cache[*history]
}

func NewOutlierFilter(s Settings, opts ...Option) *OutlierFilter {
	o := collect(opts)
	buffers := cache.New(func(entity.Handle) *history { return &history{} })
	if o.registry != nil {
		buffers.Watch(o.registry)
	}
	return &OutlierFilter{settings: s, observer: o.observer, buffers: buffers}
}

func (f *OutlierFilter) Settings() Settings { return f.settings }

// Check returns the value to use in place of v and whether v was an
// outlier. The returned value is recorded either way. NaN and infinite
// samples are replaced by zero.
func (f *OutlierFilter) Check(h entity.Handle, v float64) (float64, bool) {
	buf := f.buffers.Get(h)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.replace(h, buf, v, 0), true
	}
	lo, hi := buf.bounds()

	sign := geom.Sign(v)
	extreme := lo
	if sign > 0 {
		extreme = hi
	}
	sameSign := sign == geom.Sign(extreme)
	absExtreme := math.Abs(extreme)
	absValue := math.Abs(v)

	nearExtreme := math.Abs(v-extreme) <= (f.settings.RateLimit-1)*absExtreme
	shrinking := sameSign && absValue <= absExtreme

	if shrinking || nearExtreme || extreme == 0 || absValue < f.settings.NoFilterCutoff {
		buf.insert(v)
		return v, false
	}

	var clamped float64
	if sameSign {
		clamped = extreme * f.settings.RateLimit
	} else {
		clamped = sign * math.Min(0.5*f.settings.RateLimit*absExtreme, absValue)
	}
	return f.replace(h, buf, v, clamped), true
}

func (f *OutlierFilter) replace(h entity.Handle, buf *history, raw, clamped float64) float64 {
	buf.insert(clamped)
	f.observer.FilterClamped(observe.ClampEvent{
		Filter:  f.settings.Name,
		Vessel:  h,
		Raw:     raw,
		Clamped: clamped,
	})
	return clamped
}

func (f *OutlierFilter) Clamp(h entity.Handle, v float64) float64 {
	out, _ := f.Check(h, v)
	return out
}

func (f *OutlierFilter) IsOutlier(h entity.Handle, v float64) bool {
	_, outlier := f.Check(h, v)
	return outlier
}

// IsAnyMagnitudeOutlier feeds the magnitude of every vector through the
// filter and reports whether any of them was an outlier.
func (f *OutlierFilter) IsAnyMagnitudeOutlier(h entity.Handle, vs []mgl64.Vec3) bool {
	outlier := false
	for _, v := range vs {
		if f.IsOutlier(h, v.Len()) {
			outlier = true
		}
	}
	return outlier
}

func (f *OutlierFilter) Forget(h entity.Handle) { f.buffers.Forget(h) }

func (f *OutlierFilter) Len() int { return f.buffers.Len() }
