package probe

import (
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
)

// Box is an oriented box collider, axis-aligned in its body's frame.
type Box struct {
	Collider
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Capsule is a segment A-B inflated by Radius, in its body's frame.
type Capsule struct {
	Collider
	A, B   mgl64.Vec3
	Radius float64
}

// Scene is a small collision world used by the synthetic host and tests.
// Shapes are expressed in the frame of their collider's body; SetPose moves
// every shape of a body at once.
type Scene struct {
	mu       sync.RWMutex
	boxes    []*Box
	capsules []*Capsule
	poses    map[entity.Handle]geom.Frame
	nextID   int
}

func NewScene() *Scene {
	return &Scene{poses: make(map[entity.Handle]geom.Frame)}
}

func (s *Scene) AddBox(b Box) *Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	if b.Layer == 0 {
		b.Layer = LayerHull
	}
	s.boxes = append(s.boxes, &b)
	return &b
}

func (s *Scene) AddCapsule(c Capsule) *Capsule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	c.Kind = KindCapsule
	if c.Layer == 0 {
		c.Layer = LayerFallback
	}
	s.capsules = append(s.capsules, &c)
	return &c
}

// Remove drops every shape attached to body.
func (s *Scene) Remove(body entity.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	boxes := s.boxes[:0]
	for _, b := range s.boxes {
		if b.Body != body {
			boxes = append(boxes, b)
		}
	}
	s.boxes = boxes
	capsules := s.capsules[:0]
	for _, c := range s.capsules {
		if c.Body != body {
			capsules = append(capsules, c)
		}
	}
	s.capsules = capsules
	delete(s.poses, body)
}

func (s *Scene) SetPose(body entity.Handle, f geom.Frame) {
	s.mu.Lock()
	s.poses[body] = f
	s.mu.Unlock()
}

func (s *Scene) pose(body entity.Handle) geom.Frame {
	if f, ok := s.poses[body]; ok {
		return f
	}
	return geom.Identity()
}

// SphereCastAll implements Caster. Hits are sorted by distance.
func (s *Scene) SphereCastAll(origin, direction mgl64.Vec3, radius, maxDistance float64, mask LayerMask) []RayHit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []RayHit
	for _, b := range s.boxes {
		if b.Layer&mask == 0 {
			continue
		}
		f := s.pose(b.Body)
		o := f.InverseTransformPoint(origin)
		d := f.InverseTransformDirection(direction)
		t, local, ok := castBox(o, d, b.Center, b.HalfExtents, radius)
		if !ok || t > maxDistance {
			continue
		}
		hits = append(hits, RayHit{Point: f.TransformPoint(local), Distance: t, Collider: &b.Collider})
	}
	for _, c := range s.capsules {
		if c.Layer&mask == 0 {
			continue
		}
		f := s.pose(c.Body)
		o := f.InverseTransformPoint(origin)
		d := f.InverseTransformDirection(direction)
		t, local, ok := castCapsule(o, d, c.A, c.B, c.Radius, radius)
		if !ok || t > maxDistance {
			continue
		}
		hits = append(hits, RayHit{Point: f.TransformPoint(local), Distance: t, Collider: &c.Collider})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// castBox sweeps a sphere against an axis-aligned box by ray casting the
// box inflated by radius. The contact point is the box point closest to the
// sphere center at impact.
func castBox(o, d, center, half mgl64.Vec3, radius float64) (float64, mgl64.Vec3, bool) {
	rel := o.Sub(center)
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		lo, hi := -half[i]-radius, half[i]+radius
		if math.Abs(d[i]) < 1e-12 {
			if rel[i] < lo || rel[i] > hi {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (lo - rel[i]) / d[i]
		t2 := (hi - rel[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}
	if tmax < tmin || tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := math.Max(tmin, 0)
	p := rel.Add(d.Mul(t))
	contact := mgl64.Vec3{
		mgl64.Clamp(p[0], -half[0], half[0]),
		mgl64.Clamp(p[1], -half[1], half[1]),
		mgl64.Clamp(p[2], -half[2], half[2]),
	}
	return t, contact.Add(center), true
}

func castCapsule(o, d, a, b mgl64.Vec3, capsuleRadius, radius float64) (float64, mgl64.Vec3, bool) {
	r := capsuleRadius + radius
	best := math.Inf(1)

	if dist := o.Sub(closestOnSegment(o, a, b)).Len(); dist <= r {
		best = 0
	} else {
		ba := b.Sub(a)
		oa := o.Sub(a)
		baba := ba.Dot(ba)
		bard := ba.Dot(d)
		baoa := ba.Dot(oa)
		rdoa := d.Dot(oa)
		oaoa := oa.Dot(oa)

		qa := baba - bard*bard
		if qa > 1e-12 {
			qb := baba*rdoa - baoa*bard
			qc := baba*oaoa - baoa*baoa - r*r*baba
			if h := qb*qb - qa*qc; h >= 0 {
				t := (-qb - math.Sqrt(h)) / qa
				y := baoa + t*bard
				if t >= 0 && y > 0 && y < baba {
					best = t
				}
			}
		}
		for _, end := range []mgl64.Vec3{a, b} {
			if t, ok := castSphere(o, d, end, r); ok && t < best {
				best = t
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}

	p := o.Add(d.Mul(best))
	q := closestOnSegment(p, a, b)
	n := p.Sub(q)
	if n.Len() < 1e-12 {
		return best, q, true
	}
	return best, q.Add(n.Normalize().Mul(capsuleRadius)), true
}

func castSphere(o, d, center mgl64.Vec3, r float64) (float64, bool) {
	oc := o.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - r*r
	h := b*b - c
	if h < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(h)
	if t < 0 {
		return 0, false
	}
	return t, true
}

func closestOnSegment(p, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/den, 0, 1)
	return a.Add(ab.Mul(t))
}
