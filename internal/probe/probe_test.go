package probe

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
)

func cubeScene(owner entity.Handle) *Scene {
	s := NewScene()
	s.AddBox(Box{
		Collider:    Collider{Name: "hull", Kind: KindHullMesh, Layer: LayerHull, Body: owner},
		HalfExtents: mgl64.Vec3{1, 1, 1},
	})
	return s
}

func beamRequest(owner entity.Handle, mask LayerMask) Request {
	return Request{
		Origin: mgl64.Vec3{DefaultOriginOffset, 0, 0},
		Frame:  geom.Identity(),
		Mask:   mask,
		Owner:  owner,
	}
}

func TestProbeHitsHullSurface(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("ship")
	p := NewProber(cubeScene(ship))

	hit, ok := p.Probe(beamRequest(ship, DefaultMask))
	if !ok {
		t.Fatal("expected a hit on the cube")
	}
	if !hit.Local.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("hit at %v, want (1, 0, 0)", hit.Local)
	}
	if math.Abs(hit.Distance-(DefaultOriginOffset-1-DefaultRadius)) > 1e-9 {
		t.Errorf("distance = %v", hit.Distance)
	}
}

func TestProbeHullBeatsNearerCapsule(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("ship")
	s := cubeScene(ship)
	s.AddCapsule(Capsule{
		Collider: Collider{Name: "capsule", Body: ship},
		A:        mgl64.Vec3{0, 0, -2},
		B:        mgl64.Vec3{0, 0, 2},
		Radius:   1.5,
	})
	p := NewProber(s)

	hit, ok := p.Probe(beamRequest(ship, DefaultMask))
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Collider.Kind != KindHullMesh {
		t.Errorf("got %v collider, want hull mesh", hit.Collider.Name)
	}

	hit, ok = p.Probe(beamRequest(ship, LayerFallback))
	if !ok {
		t.Fatal("expected a capsule hit on the fallback layer")
	}
	if hit.Collider.Kind != KindCapsule {
		t.Errorf("got %v collider, want capsule", hit.Collider.Name)
	}
	if math.Abs(hit.Local.X()-1.5) > 1e-6 {
		t.Errorf("capsule hit x = %v, want 1.5", hit.Local.X())
	}
}

func TestProbeOwnership(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("ship")
	other := reg.Create("other")
	deck := reg.Create("deck")

	s := NewScene()
	// a foreign hull in front of ours
	s.AddBox(Box{
		Collider:    Collider{Kind: KindHullMesh, Body: other},
		Center:      mgl64.Vec3{5, 0, 0},
		HalfExtents: mgl64.Vec3{1, 1, 1},
	})
	// a hull piece parented to the ship through another body
	s.AddBox(Box{
		Collider:    Collider{Kind: KindHullMesh, Body: deck, Parents: []entity.Handle{ship}},
		HalfExtents: mgl64.Vec3{1, 1, 1},
	})
	p := NewProber(s)

	hit, ok := p.Probe(beamRequest(ship, DefaultMask))
	if !ok {
		t.Fatal("expected the parented hull to count")
	}
	if math.Abs(hit.Local.X()-1) > 1e-9 {
		t.Errorf("hit x = %v, want 1 (foreign hull must be ignored)", hit.Local.X())
	}

	stranger := reg.Create("stranger")
	if _, ok := p.Probe(beamRequest(stranger, DefaultMask)); ok {
		t.Error("vessel with no colliders reported a hit")
	}
}

func TestProbeRespectsFrame(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("ship")
	s := NewScene()
	s.AddBox(Box{
		Collider:    Collider{Kind: KindHullMesh, Body: ship},
		HalfExtents: mgl64.Vec3{1, 1, 3},
	})
	frame := geom.Frame{
		Position: mgl64.Vec3{10, -0.5, 5},
		Rotation: mgl64.QuatRotate(math.Pi/2, geom.Up),
	}
	s.SetPose(ship, frame)
	p := NewProber(s)

	req := beamRequest(ship, DefaultMask)
	req.Frame = frame
	hit, ok := p.Probe(req)
	if !ok {
		t.Fatal("expected a hit on the moved hull")
	}
	if !hit.Local.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("local hit = %v, want (1, 0, 0)", hit.Local)
	}
}

func TestSurvey(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("ship")
	s := NewScene()
	s.AddBox(Box{
		Collider:    Collider{Kind: KindHullMesh, Body: ship},
		Center:      mgl64.Vec3{0, -0.5, 1},
		HalfExtents: mgl64.Vec3{1.5, 1, 4},
	})
	p := NewProber(s)

	ext, err := p.Survey(geom.Identity(), ship, DefaultMask)
	if err != nil {
		t.Fatalf("Survey: %v", err)
	}
	want := Extents{Bow: 5, Stern: -3, Keel: -1.5}
	if math.Abs(ext.Bow-want.Bow) > 1e-9 || math.Abs(ext.Stern-want.Stern) > 1e-9 || math.Abs(ext.Keel-want.Keel) > 1e-9 {
		t.Errorf("Survey = %+v, want %+v", ext, want)
	}
	if math.Abs(ext.Length()-8) > 1e-9 {
		t.Errorf("Length = %v, want 8", ext.Length())
	}

	if _, err := p.Survey(geom.Identity(), ship, LayerFallback); !errors.Is(err, ErrNoHit) {
		t.Errorf("survey on empty layer: got %v, want ErrNoHit", err)
	}
}
