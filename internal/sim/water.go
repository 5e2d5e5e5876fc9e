package sim

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
)

const gravity = 9.81

var ErrWaterUnavailable = errors.New("water sample unavailable")

// Swell is a single deep-water sine wave on a uniform current. It
// implements engine.Water.
type Swell struct {
	mu        sync.Mutex
	seaLevel  float64
	amplitude float64
	k         float64
	omega     float64
	offset    float64
	direction mgl64.Vec3
	current   mgl64.Vec3
	failEvery int
	calls     int
	time      float64
}

// NewSwell builds the swell of c. A non-zero seed shifts the wave by a
// phase drawn from it, so runs with the same seed see the same sea.
func NewSwell(c config.WaterConfig, seed int64) *Swell {
	s := &Swell{
		seaLevel:  c.SeaLevel,
		amplitude: c.Amplitude,
		offset:    SwellPhase(seed),
		direction: mgl64.Vec3{math.Sin(c.Heading), 0, math.Cos(c.Heading)},
		current:   mgl64.Vec3{c.CurrentX, 0, c.CurrentZ},
		failEvery: c.FailEvery,
	}
	if c.Wavelength > 0 {
		s.k = 2 * math.Pi / c.Wavelength
		s.omega = math.Sqrt(gravity * s.k)
	}
	return s
}

// SwellPhase is the initial wave phase for seed, in [0, 2π); zero for a
// zero seed.
func SwellPhase(seed int64) float64 {
	if seed == 0 {
		return 0
	}
	r := rand.New(rand.NewPCG(uint64(seed), 0x5eed))
	return 2 * math.Pi * r.Float64()
}

func (s *Swell) SeaLevel() float64 { return s.seaLevel }

// Advance moves the wave phase forward by dt seconds.
func (s *Swell) Advance(dt float64) {
	s.mu.Lock()
	s.time += dt
	s.mu.Unlock()
}

// Height returns the surface height above SeaLevel at a world point.
func (s *Swell) Height(p mgl64.Vec3) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amplitude * math.Sin(s.phase(p))
}

func (s *Swell) phase(p mgl64.Vec3) float64 {
	return s.k*p.Dot(s.direction) - s.omega*s.time + s.offset
}

func (s *Swell) Sample(points []mgl64.Vec3) ([]mgl64.Vec3, []mgl64.Vec3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.failEvery > 0 && s.calls%s.failEvery == 0 {
		return nil, nil, ErrWaterUnavailable
	}

	disp := make([]mgl64.Vec3, len(points))
	vel := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		phase := s.phase(p)
		disp[i] = mgl64.Vec3{0, s.amplitude * math.Sin(phase), 0}
		// linear orbital velocity at the surface
		orbital := s.amplitude * s.omega
		vel[i] = s.direction.Mul(orbital * math.Sin(phase)).
			Add(mgl64.Vec3{0, -orbital * math.Cos(phase), 0}).
			Add(s.current)
	}
	return disp, vel, nil
}
