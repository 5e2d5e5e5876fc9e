package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// oscillate runs a unit spring for steps and returns the final energy.
func oscillate(integ Integrator, steps int, dt float64) float64 {
	pos, vel := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}
	for i := 0; i < steps; i++ {
		pos, vel = integ.Step(pos, vel, pos.Mul(-1), dt)
	}
	return 0.5*vel.LenSqr() + 0.5*pos.LenSqr()
}

func TestSemiImplicitEnergyBounded(t *testing.T) {
	e := oscillate(NewSemiImplicitEuler(), 10000, 0.01)
	if math.Abs(e-0.5) > 0.01 {
		t.Errorf("energy drifted to %.4f, expected about 0.5", e)
	}
}

func TestEulerGainsEnergy(t *testing.T) {
	e := oscillate(NewEuler(), 10000, 0.01)
	if e <= 0.5 {
		t.Errorf("explicit Euler should gain energy on a spring, got %.4f", e)
	}
}

func TestStepOrder(t *testing.T) {
	pos, vel, acc := mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 2}

	p, v := NewEuler().Step(pos, vel, acc, 0.5)
	if p.Z() != 0.5 || v.Z() != 2 {
		t.Errorf("euler: got pos %.2f vel %.2f", p.Z(), v.Z())
	}

	p, v = NewSemiImplicitEuler().Step(pos, vel, acc, 0.5)
	if p.Z() != 1 || v.Z() != 2 {
		t.Errorf("semi-implicit: got pos %.2f vel %.2f", p.Z(), v.Z())
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Integrator
		wantErr bool
	}{
		{"", &SemiImplicitEuler{}, false},
		{"semi-implicit", &SemiImplicitEuler{}, false},
		{"euler", &Euler{}, false},
		{"rk4", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch tt.want.(type) {
			case *SemiImplicitEuler:
				if _, ok := got.(*SemiImplicitEuler); !ok {
					t.Errorf("got %T", got)
				}
			case *Euler:
				if _, ok := got.(*Euler); !ok {
					t.Errorf("got %T", got)
				}
			}
		})
	}
}

func BenchmarkSemiImplicitEuler(b *testing.B) {
	integ := NewSemiImplicitEuler()
	pos, vel := mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos, vel = integ.Step(pos, vel, pos.Mul(-1), 0.01)
	}
}
