package sim

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/probe"
)

const waterDensity = 1025.0

// Hull is a synthetic vessel: a box hull on the hull layer, optionally
// with a keel capsule on the fallback layer, floating level at its design
// draft.
type Hull struct {
	Name        string
	Class       string
	HalfExtents mgl64.Vec3
	DesignDraft float64
	Keel        bool
}

var hulls = map[string]Hull{
	"cog": {
		Name:        "cog",
		Class:       "BOAT medi small (40)",
		HalfExtents: mgl64.Vec3{2, 1.5, 6.2},
		DesignDraft: 1,
	},
	"dhow": {
		Name:        "dhow",
		Class:       "BOAT dhow medium (20)",
		HalfExtents: mgl64.Vec3{2.5, 2, 11},
		DesignDraft: 1.2,
		Keel:        true,
	},
	"junk": {
		Name:        "junk",
		Class:       "BOAT junk large (70)",
		HalfExtents: mgl64.Vec3{4, 2.5, 14},
		DesignDraft: 1.6,
	},
}

func LookupHull(name string) (Hull, error) {
	h, ok := hulls[name]
	if !ok {
		return Hull{}, fmt.Errorf("unknown vessel %q (known: %v)", name, HullNames())
	}
	return h, nil
}

func HullNames() []string {
	names := make([]string, 0, len(hulls))
	for name := range hulls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mass is the mass that floats the hull level at its design draft.
func (h Hull) Mass() float64 {
	return waterDensity * 4 * h.HalfExtents.X() * h.HalfExtents.Z() * h.DesignDraft
}

// RestHeight is the height of the hull origin above sea level at rest.
func (h Hull) RestHeight() float64 {
	return h.HalfExtents.Y() - h.DesignDraft
}

// Place adds the hull's colliders to the scene, owned by body.
func (h Hull) Place(scene *probe.Scene, body entity.Handle) {
	scene.AddBox(probe.Box{
		Collider:    probe.Collider{Name: h.Name + " hull", Kind: probe.KindHullMesh, Body: body},
		HalfExtents: h.HalfExtents,
	})
	if h.Keel {
		bottom := -h.HalfExtents.Y()
		scene.AddCapsule(probe.Capsule{
			Collider: probe.Collider{Name: h.Name + " keel", Body: body},
			A:        mgl64.Vec3{0, bottom, -0.8 * h.HalfExtents.Z()},
			B:        mgl64.Vec3{0, bottom, 0.8 * h.HalfExtents.Z()},
			Radius:   0.2,
		})
	}
}
