package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/drag"
	"github.com/san-kum/hydrodrag/internal/filter"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/hydrostatics"
	"github.com/san-kum/hydrodrag/internal/observe"
)

// Update computes this step's forces for one vessel. The hydrostatic
// table is built on the first call for a vessel. Errors are returned only
// for malformed input; degraded geometry or water data fall back to the
// closed-form estimates.
func (e *Engine) Update(in Input) (Output, error) {
	if in.Vessel.IsZero() {
		return Output{}, ErrZeroHandle
	}
	if !(in.Dt > 0) || math.IsInf(in.Dt, 0) {
		return Output{}, fmt.Errorf("%w: dt = %v", ErrInvalidStep, in.Dt)
	}
	if !geom.FiniteFrame(in.Frame) || !geom.Finite(in.Velocity, in.AngularVelocity) {
		return Output{}, fmt.Errorf("%w: position %v velocity %v angular %v",
			ErrInvalidPose, in.Frame.Position, in.Velocity, in.AngularVelocity)
	}

	params := e.resolver.ForVessel(in.Vessel, in.Class)
	v := e.vesselFor(in, params)
	n := len(v.probes)
	lwl := params.WaterlineLength * e.settings.LengthMultiplier

	points := make([]mgl64.Vec3, n)
	for i, p := range v.probes {
		points[i] = in.Frame.TransformPoint(p)
	}

	var out Output
	disp, waterVel, err := e.water.Sample(points)
	out.WaterSampled = err == nil && len(disp) == n && len(waterVel) == n
	if !out.WaterSampled {
		disp, waterVel = nil, nil
	}

	bodyVel := make([]mgl64.Vec3, n)
	for i, p := range points {
		bodyVel[i] = in.Velocity.Add(in.AngularVelocity.Cross(p.Sub(in.Frame.Position)))
	}
	smoothed, accepted := e.smoother.Update(in.Vessel, in.DontUpdateVelocity || !out.WaterSampled, in.Velocity.Len(), filter.Samples{
		BodyVelocities:     bodyVel,
		WaterVelocities:    waterVel,
		WaterDisplacements: disp,
	})
	out.InputsAccepted = accepted

	// buoyancy
	seaLevel := e.water.SeaLevel()
	buoyancy := make([]float64, n)
	tableReady := v.table.State() == hydrostatics.TablesBuilt
	for i, p := range v.probes {
		keel := in.Frame.TransformPoint(mgl64.Vec3{p.X(), v.keel, p.Z()})
		height := seaLevel + at(smoothed.WaterDisplacements, i).Y()
		draft := mgl64.Clamp(height-keel.Y(), 0, e.settings.Span)

		var volume, area float64
		if tableReady {
			values, _ := v.table.GetValues(i/2, draft)
			volume, area = values.Volume, values.WettedArea
		} else {
			volume = draft * params.BaseBuoyancy / float64(n)
		}
		out.Displacement += volume
		out.WettedArea += area
		buoyancy[i] = e.settings.WaterDensity * e.settings.Gravity * volume * params.BuoyancyMultiplier
		out.Buoyancy += buoyancy[i]
	}
	out.TableUsed = tableReady

	out.Draft = e.sampleDraft(v, in)
	displacement := math.Max(out.Displacement, minDisplacement)
	if !tableReady {
		out.WettedArea = drag.EstimateWettedArea(lwl, out.Draft, displacement)
	}

	// drag, from the smoothed per-point velocities relative to the water
	forward := in.Frame.TransformDirection(geom.Forward)
	right := in.Frame.TransformDirection(geom.Right)
	relative := relativeVelocities(smoothed, n)
	out.ForwardVelocity = e.velocity.Clamp(in.Vessel, mean(relative).Dot(forward))

	out.Drag = drag.Evaluate(drag.Input{
		AbsVelocity:     math.Abs(out.ForwardVelocity),
		WaterlineLength: lwl,
		FormFactor:      params.FormFactor,
		Displacement:    displacement,
		WettedArea:      out.WettedArea,
	}, params.Functions(), params.Multipliers(), e.settings.Global)

	raw := -geom.Sign(out.ForwardVelocity) * out.Drag.Total
	out.DragForce = e.force.Clamp(in.Vessel, raw)

	// Each point carries its share of the lateral plane, so a yaw rate
	// loads bow and stern in opposite directions.
	pointArea := lwl * out.Draft / float64(n)
	lateral := make([]float64, n)
	for i, r := range relative {
		vl := r.Dot(right)
		out.LateralVelocity += vl / float64(n)
		lateral[i] = -0.5 * e.settings.WaterDensity * e.settings.LateralDragCoefficient *
			pointArea * vl * math.Abs(vl)
		out.LateralDrag += lateral[i]
	}

	along := forward.Mul(out.DragForce / float64(n))
	out.Forces = make([]PointForce, n)
	for i, p := range points {
		out.Forces[i] = PointForce{
			Point: p,
			Force: geom.Up.Mul(buoyancy[i]).Add(along).Add(right.Mul(lateral[i])),
		}
	}

	e.observer.ForceComputed(observe.ForceEvent{
		Vessel:          in.Vessel,
		Class:           params.Class,
		Draft:           out.Draft,
		Displacement:    out.Displacement,
		WettedArea:      out.WettedArea,
		ForwardVelocity: out.ForwardVelocity,
		Viscous:         out.Drag.Viscous,
		WaveMaking:      out.Drag.WaveMaking,
		Drag:            raw,
		ClampedDrag:     out.DragForce,
		LateralDrag:     out.LateralDrag,
		Buoyancy:        out.Buoyancy,
		TableUsed:       out.TableUsed,
		WaterSampled:    out.WaterSampled,
	})
	return out, nil
}

// sampleDraft refreshes the smoothed keel draft every DraftSamplingPeriod
// steps and keeps the last value when the water cannot be sampled.
func (e *Engine) sampleDraft(v *vessel, in Input) float64 {
	v.steps++
	if v.steps%uint64(e.settings.DraftSamplingPeriod) != 0 {
		return v.draft
	}
	keel := in.Frame.TransformPoint(mgl64.Vec3{0, v.keel, 0})
	disp, _, err := e.water.Sample([]mgl64.Vec3{keel})
	if err != nil || len(disp) != 1 {
		return v.draft
	}
	raw := e.water.SeaLevel() + disp[0].Y() - keel.Y()
	if math.IsNaN(raw) {
		return v.draft
	}
	raw = mgl64.Clamp(raw, minDraft, maxDraft)
	v.draft = (1-draftSmoothing)*v.draft + draftSmoothing*raw
	return v.draft
}

// relativeVelocities returns each point's smoothed body velocity minus the
// smoothed water velocity there. Missing water samples count as still
// water.
func relativeVelocities(s filter.Samples, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		out[i] = at(s.BodyVelocities, i).Sub(at(s.WaterVelocities, i))
	}
	return out
}

func at(vs []mgl64.Vec3, i int) mgl64.Vec3 {
	if i < len(vs) {
		return vs[i]
	}
	return mgl64.Vec3{}
}

func mean(vs []mgl64.Vec3) mgl64.Vec3 {
	if len(vs) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(vs)))
}
