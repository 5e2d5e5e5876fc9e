// Package probe casts thick rays at a vessel's collision geometry and keeps
// only hits on colliders that belong to that vessel.
package probe

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
)

const (
	DefaultRadius       = 0.1
	DefaultOriginOffset = 100.0
)

var ErrNoHit = errors.New("probe: no hit on vessel geometry")

type LayerMask uint32

const (
	// LayerHull holds the hull player colliders.
	LayerHull LayerMask = 1 << iota
	// LayerFallback holds the bounding capsule used when the hull has no
	// mesh collider on LayerHull.
	LayerFallback
	LayerProps

	DefaultMask = LayerHull | LayerFallback
)

func (m LayerMask) String() string {
	switch m {
	case LayerHull:
		return "hull"
	case LayerFallback:
		return "fallback"
	case DefaultMask:
		return "hull|fallback"
	}
	return fmt.Sprintf("mask(%#x)", uint32(m))
}

type Kind int

const (
	KindHullMesh Kind = iota
	KindCapsule
	KindBox
)

// Collider is the metadata the host attaches to every shape it reports.
type Collider struct {
	ID      int
	Name    string
	Kind    Kind
	Layer   LayerMask
	Body    entity.Handle
	Parents []entity.Handle
}

// RayHit is one intersection reported by a Caster, in world space.
type RayHit struct {
	Point    mgl64.Vec3
	Distance float64
	Collider *Collider
}

// Caster is the host's collision query service.
type Caster interface {
	SphereCastAll(origin, direction mgl64.Vec3, radius, maxDistance float64, mask LayerMask) []RayHit
}

// Predicate decides whether a collider belongs to the probed vessel.
type Predicate func(c *Collider) bool

// HullMeshOf accepts hull mesh colliders owned by owner directly or through
// their parent chain.
func HullMeshOf(owner entity.Handle) Predicate {
	return func(c *Collider) bool {
		if c == nil || c.Kind != KindHullMesh {
			return false
		}
		if c.Body == owner {
			return true
		}
		for _, p := range c.Parents {
			if p == owner {
				return true
			}
		}
		return false
	}
}

// CapsuleOf accepts capsule colliders attached to owner's body.
func CapsuleOf(owner entity.Handle) Predicate {
	return func(c *Collider) bool {
		return c != nil && c.Kind == KindCapsule && c.Body == owner
	}
}

// DefaultChain is the hull-before-capsule priority order.
func DefaultChain(owner entity.Handle) []Predicate {
	return []Predicate{HullMeshOf(owner), CapsuleOf(owner)}
}

type Request struct {
	Origin      mgl64.Vec3 // vessel-local
	Target      mgl64.Vec3 // vessel-local
	Frame       geom.Frame
	Radius      float64
	MaxDistance float64
	Mask        LayerMask
	Owner       entity.Handle
}

type Hit struct {
	Local    mgl64.Vec3
	World    mgl64.Vec3
	Distance float64
	Collider *Collider
}

type Prober struct {
	caster Caster
	chain  func(owner entity.Handle) []Predicate
}

func NewProber(caster Caster) *Prober {
	return &Prober{caster: caster, chain: DefaultChain}
}

// WithChain replaces the ownership predicates used by Probe.
func (p *Prober) WithChain(chain func(owner entity.Handle) []Predicate) *Prober {
	p.chain = chain
	return p
}

// Probe sweeps a sphere from req.Origin toward req.Target and returns the
// nearest hit accepted by the first predicate that accepts any hit.
func (p *Prober) Probe(req Request) (Hit, bool) {
	if req.Radius <= 0 {
		req.Radius = DefaultRadius
	}
	if req.MaxDistance <= 0 {
		req.MaxDistance = DefaultOriginOffset
	}
	if req.Mask == 0 {
		req.Mask = DefaultMask
	}

	origin := req.Frame.TransformPoint(req.Origin)
	target := req.Frame.TransformPoint(req.Target)
	dir := target.Sub(origin)
	if dir.Len() == 0 {
		return Hit{}, false
	}

	hits := p.caster.SphereCastAll(origin, dir.Normalize(), req.Radius, req.MaxDistance, req.Mask)
	if len(hits) == 0 {
		return Hit{}, false
	}

	for _, accept := range p.chain(req.Owner) {
		best, ok := nearest(hits, accept)
		if ok {
			return Hit{
				Local:    req.Frame.InverseTransformPoint(best.Point),
				World:    best.Point,
				Distance: best.Distance,
				Collider: best.Collider,
			}, true
		}
	}
	return Hit{}, false
}

func nearest(hits []RayHit, accept Predicate) (RayHit, bool) {
	var best RayHit
	found := false
	minDistance := math.Inf(1)
	for _, h := range hits {
		if !accept(h.Collider) {
			continue
		}
		found = true
		if h.Distance < minDistance {
			minDistance = h.Distance
			best = h
		}
	}
	return best, found
}

// Extents are the vessel-local extreme points of the hull found by Survey.
type Extents struct {
	Bow   float64 // local Z
	Stern float64 // local Z
	Keel  float64 // local Y
}

func (e Extents) Length() float64 { return e.Bow - e.Stern }

// Survey finds bow, stern and keel by probing toward the body origin from
// DefaultOriginOffset along +Z, -Z and -Y.
func (p *Prober) Survey(frame geom.Frame, owner entity.Handle, mask LayerMask) (Extents, error) {
	probeFrom := func(dir mgl64.Vec3) (mgl64.Vec3, error) {
		hit, ok := p.Probe(Request{
			Origin: dir.Mul(DefaultOriginOffset),
			Frame:  frame,
			Mask:   mask,
			Owner:  owner,
		})
		if !ok {
			return mgl64.Vec3{}, fmt.Errorf("survey along %v: %w", dir, ErrNoHit)
		}
		return hit.Local, nil
	}

	bow, err := probeFrom(geom.Forward)
	if err != nil {
		return Extents{}, err
	}
	stern, err := probeFrom(geom.Forward.Mul(-1))
	if err != nil {
		return Extents{}, err
	}
	keel, err := probeFrom(geom.Up.Mul(-1))
	if err != nil {
		return Extents{}, err
	}
	return Extents{Bow: bow.Z(), Stern: stern.Z(), Keel: keel.Y()}, nil
}
