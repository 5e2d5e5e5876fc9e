// Package integrators advances a rigid body's translation by one fixed
// step from a single force evaluation. The engine's filters are stateful,
// so schemes that evaluate the forces more than once per step are not
// offered.
package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type Integrator interface {
	Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3)
}

// Euler is the explicit scheme: the position moves with the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	return pos.Add(vel.Mul(dt)), vel.Add(acc.Mul(dt))
}

// SemiImplicitEuler updates the velocity first and moves the position with
// the new velocity. It keeps a floating hull's heave oscillation bounded
// where explicit Euler slowly pumps energy into it.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	next := vel.Add(acc.Mul(dt))
	return pos.Add(next.Mul(dt)), next
}

const Default = "semi-implicit"

var registry = map[string]func() Integrator{
	"euler":         func() Integrator { return NewEuler() },
	"semi-implicit": func() Integrator { return NewSemiImplicitEuler() },
}

// ByName returns a new integrator; the empty name selects Default.
func ByName(name string) (Integrator, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
