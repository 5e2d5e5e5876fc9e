package filter

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/cache"
	"github.com/san-kum/hydrodrag/internal/entity"
)

const DefaultSmoothing = 0.25

// Samples are the per-probe inputs of one step.
type Samples struct {
	BodyVelocities     []mgl64.Vec3
	WaterVelocities    []mgl64.Vec3
	WaterDisplacements []mgl64.Vec3
}

func (s Samples) clone() Samples {
	return Samples{
		BodyVelocities:     append([]mgl64.Vec3(nil), s.BodyVelocities...),
		WaterVelocities:    append([]mgl64.Vec3(nil), s.WaterVelocities...),
		WaterDisplacements: append([]mgl64.Vec3(nil), s.WaterDisplacements...),
	}
}

// Smoother low-passes the probe samples of each vessel. A step whose body
// speed or water samples look like outliers leaves the smoothed state
// untouched.
type Smoother struct {
	factor    float64
	bodySpeed *OutlierFilter
	waterVel  *OutlierFilter
	waterDisp *OutlierFilter
	states    *cache.Cache[*Samples]
}

func NewSmoother(factor float64, opts ...Option) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothing
	}
	o := collect(opts)
	states := cache.New(func(entity.Handle) *Samples { return &Samples{} })
	if o.registry != nil {
		states.Watch(o.registry)
	}
	named := func(name string) Settings {
		s := InputSettings
		s.Name = name
		return s
	}
	return &Smoother{
		factor:    factor,
		bodySpeed: NewOutlierFilter(named("body speed"), opts...),
		waterVel:  NewOutlierFilter(named("water velocity"), opts...),
		waterDisp: NewOutlierFilter(named("water displacement"), opts...),
		states:    states,
	}
}

// Update filters in and, when it is accepted, folds it into the smoothed
// state. It returns a copy of the smoothed state and whether in was used.
func (s *Smoother) Update(h entity.Handle, hold bool, bodySpeed float64, in Samples) (Samples, bool) {
	state := s.states.Get(h)

	valid := !hold &&
		!s.bodySpeed.IsOutlier(h, bodySpeed) &&
		!s.waterVel.IsAnyMagnitudeOutlier(h, in.WaterVelocities) &&
		!s.waterDisp.IsAnyMagnitudeOutlier(h, in.WaterDisplacements)

	if valid {
		state.BodyVelocities = s.blend(state.BodyVelocities, in.BodyVelocities)
		state.WaterVelocities = s.blend(state.WaterVelocities, in.WaterVelocities)
		state.WaterDisplacements = s.blend(state.WaterDisplacements, in.WaterDisplacements)
	}
	return state.clone(), valid
}

func (s *Smoother) blend(smoothed, values []mgl64.Vec3) []mgl64.Vec3 {
	if len(smoothed) != len(values) {
		smoothed = make([]mgl64.Vec3, len(values))
	}
	for i, v := range values {
		smoothed[i] = smoothed[i].Mul(1 - s.factor).Add(v.Mul(s.factor))
	}
	return smoothed
}

func (s *Smoother) Forget(h entity.Handle) {
	s.states.Forget(h)
	s.bodySpeed.Forget(h)
	s.waterVel.Forget(h)
	s.waterDisp.Forget(h)
}
