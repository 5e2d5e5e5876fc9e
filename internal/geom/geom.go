// Package geom holds the vector vocabulary shared by the hull probes and
// the hydrostatic integration.
//
// Vessel-local axes: +X starboard (beam), +Y up, +Z forward. The
// centerline plane is X = 0.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// Sentinel marks a grid node where no hull was hit. It sits far above any
// hull bounding volume so it can never be mistaken for a real point.
var Sentinel = mgl64.Vec3{0, 1e6, 0}

func IsSentinel(v mgl64.Vec3) bool { return v == Sentinel }

func AnySentinel(vs ...mgl64.Vec3) bool {
	for _, v := range vs {
		if v == Sentinel {
			return true
		}
	}
	return false
}

// Frame is a rigid pose: local points are rotated then translated.
type Frame struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func Identity() Frame {
	return Frame{Rotation: mgl64.QuatIdent()}
}

func At(position mgl64.Vec3) Frame {
	return Frame{Position: position, Rotation: mgl64.QuatIdent()}
}

func (f Frame) rotation() mgl64.Quat {
	// a zero-value Frame behaves as identity
	if f.Rotation.W == 0 && f.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return f.Rotation
}

func (f Frame) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return f.rotation().Rotate(local).Add(f.Position)
}

func (f Frame) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return f.rotation().Inverse().Rotate(world.Sub(f.Position))
}

func (f Frame) TransformDirection(local mgl64.Vec3) mgl64.Vec3 {
	return f.rotation().Rotate(local)
}

func (f Frame) InverseTransformDirection(world mgl64.Vec3) mgl64.Vec3 {
	return f.rotation().Inverse().Rotate(world)
}

// TriangleContribution returns the surface area of the triangle and the
// prism volume between it and the centerline plane.
func TriangleContribution(p1, p2, p3 mgl64.Vec3) (area, volume float64) {
	cross := p2.Sub(p1).Cross(p3.Sub(p1))
	area = cross.Len() / 2
	averageBeam := math.Abs((p1.X() + p2.X() + p3.X()) / 3)
	baseArea := math.Abs(cross.X()) / 2
	return area, averageBeam * baseArea
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 clamps v to [0, 1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, 0, 1)
}

// Finite reports whether every component of every vector is neither NaN
// nor infinite.
func Finite(vs ...mgl64.Vec3) bool {
	for _, v := range vs {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// FiniteFrame reports whether f's position and rotation are finite.
func FiniteFrame(f Frame) bool {
	q := f.Rotation
	return Finite(f.Position, q.V, mgl64.Vec3{q.W})
}

// Sign follows the host convention: zero is positive.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
