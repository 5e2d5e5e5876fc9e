package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
)

func TestSwellCalm(t *testing.T) {
	s := NewSwell(config.WaterConfig{SeaLevel: 2, Wavelength: 40}, 0)

	disp, vel, err := s.Sample([]mgl64.Vec3{{0, 0, 0}, {5, 0, 13}})
	if err != nil {
		t.Fatal(err)
	}
	for i := range disp {
		if disp[i] != (mgl64.Vec3{}) || vel[i] != (mgl64.Vec3{}) {
			t.Errorf("calm water moved at %d: %v %v", i, disp[i], vel[i])
		}
	}
	if s.SeaLevel() != 2 {
		t.Errorf("SeaLevel() = %v", s.SeaLevel())
	}
}

func TestSwellPhase(t *testing.T) {
	s := NewSwell(config.WaterConfig{Amplitude: 1, Wavelength: 40}, 0)

	quarter := mgl64.Vec3{0, 0, 10}
	if h := s.Height(quarter); math.Abs(h-1) > 1e-9 {
		t.Errorf("crest height = %v, want 1", h)
	}

	period := 2 * math.Pi / math.Sqrt(gravity*2*math.Pi/40)
	s.Advance(period)
	if h := s.Height(quarter); math.Abs(h-1) > 1e-9 {
		t.Errorf("height after one period = %v, want 1", h)
	}
}

func TestSwellCurrent(t *testing.T) {
	s := NewSwell(config.WaterConfig{Wavelength: 40, CurrentX: 0.5, CurrentZ: -1}, 0)
	_, vel, err := s.Sample([]mgl64.Vec3{{0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if !vel[0].ApproxEqual(mgl64.Vec3{0.5, 0, -1}) {
		t.Errorf("velocity = %v, want the current", vel[0])
	}
}

func TestSwellFailEvery(t *testing.T) {
	s := NewSwell(config.WaterConfig{Wavelength: 40, FailEvery: 3}, 0)

	var failures int
	for i := 0; i < 9; i++ {
		if _, _, err := s.Sample([]mgl64.Vec3{{}}); err != nil {
			if !errors.Is(err, ErrWaterUnavailable) {
				t.Fatalf("unexpected error %v", err)
			}
			failures++
		}
	}
	if failures != 3 {
		t.Errorf("expected 3 failures in 9 samples, got %d", failures)
	}
}

func TestSwellSeed(t *testing.T) {
	c := config.WaterConfig{Amplitude: 1, Wavelength: 40}
	p := mgl64.Vec3{0, 0, 3}

	if SwellPhase(0) != 0 {
		t.Error("zero seed should not shift the swell")
	}
	for _, seed := range []int64{1, 42, -7} {
		phase := SwellPhase(seed)
		if phase < 0 || phase >= 2*math.Pi {
			t.Errorf("seed %d: phase %v out of range", seed, phase)
		}
		if phase != SwellPhase(seed) {
			t.Errorf("seed %d: phase is not reproducible", seed)
		}
		a, b := NewSwell(c, seed), NewSwell(c, seed)
		if a.Height(p) != b.Height(p) {
			t.Errorf("seed %d: same seed gave different seas", seed)
		}
	}
	if SwellPhase(1) == SwellPhase(2) {
		t.Error("different seeds gave the same phase")
	}
	if NewSwell(c, 42).Height(p) == NewSwell(c, 0).Height(p) {
		t.Error("seed did not shift the swell")
	}
}
