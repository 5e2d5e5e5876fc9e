package performance

import (
	"math"
	"testing"

	"github.com/san-kum/hydrodrag/internal/drag"
	"github.com/san-kum/hydrodrag/internal/entity"
)

func TestMergePriority(t *testing.T) {
	user := Overrides{FormFactor: Float(0.2)}
	custom := Overrides{FormFactor: Float(0.3), WaterlineLength: Float(10)}
	def := Overrides{FormFactor: Float(0.15), WaterlineLength: Float(5)}

	got := Merge(user, Merge(custom, def))
	if *got.FormFactor != 0.2 {
		t.Errorf("form factor = %v, want 0.2 from user", *got.FormFactor)
	}
	if *got.WaterlineLength != 10 {
		t.Errorf("waterline = %v, want 10 from custom", *got.WaterlineLength)
	}

	// grouping does not matter
	alt := Merge(Merge(user, custom), def)
	if *alt.FormFactor != *got.FormFactor || *alt.WaterlineLength != *got.WaterlineLength {
		t.Errorf("merge not associative: %+v vs %+v", alt, got)
	}
}

func TestResolverTiers(t *testing.T) {
	store := NewStore().WithDefaults(func(class string) (Overrides, bool) {
		return Overrides{FormFactor: Float(0.15), WaterlineLength: Float(5)}, true
	})
	store.SetUser(map[string]Overrides{"BOAT test": {FormFactor: Float(0.2)}})
	store.SetCustom("BOAT test", Overrides{FormFactor: Float(0.3), WaterlineLength: Float(10)})

	p := NewResolver(store).Resolve("BOAT test(Clone)")
	if p.FormFactor != 0.2 || p.WaterlineLength != 10 {
		t.Errorf("resolved %v, want form factor 0.2 and waterline 10", p)
	}
	if p.ViscousMultiplier != 1 || p.BaseBuoyancy != GenericBaseBuoyancy {
		t.Errorf("unset fields not filled: %v", p)
	}
}

func TestResolveBuiltinAndUnknown(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		class      string
		length     float64
		formFactor float64
	}{
		{"BOAT medi small (40)", 12.39, 0.10},
		{"BOAT medi small (40)(Clone)", 12.39, 0.10},
		{"BOAT GALLUS (197)", 7, 0.08},
		{"BOAT nobody knows", GenericWaterlineLength, GenericFormFactor},
		{"", GenericWaterlineLength, GenericFormFactor},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			p := r.Resolve(tt.class)
			if math.Abs(p.WaterlineLength-tt.length) > 1e-9 || math.Abs(p.FormFactor-tt.formFactor) > 1e-9 {
				t.Errorf("Resolve(%q) = %v", tt.class, p)
			}
			if p.Viscous == nil || p.WaveMaking == nil {
				t.Error("drag laws not filled")
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"BOAT dhow small (10)", "BOAT dhow small (10)"},
		{"BOAT dhow small (10)(Clone)", "BOAT dhow small (10)"},
		{"BOAT dhow small (10) (Clone)(Clone)", "BOAT dhow small (10)"},
		{"  BOAT junk small singleroof(90) ", "BOAT junk small singleroof(90)"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetCustomRejectsEmptyName(t *testing.T) {
	s := NewStore()
	if s.SetCustom("", Overrides{FormFactor: Float(1)}) {
		t.Error("empty name accepted")
	}
	if s.SetCustom("(Clone)", Overrides{}) {
		t.Error("name that normalizes to empty accepted")
	}
	rev := s.Revision()
	if !s.SetCustom("BOAT x", Overrides{}) || s.Revision() == rev {
		t.Error("SetCustom did not bump the revision")
	}
}

func TestCustomDragFunction(t *testing.T) {
	store := NewStore()
	fixed := func(float64, float64, float64, float64, float64) float64 { return 123 }
	store.SetCustom("BOAT modded", Overrides{Viscous: fixed})

	p := NewResolver(store).Resolve("BOAT modded")
	if got := p.Viscous(1, 1, 1, 1, 1); got != 123 {
		t.Errorf("custom viscous law not used, got %v", got)
	}
	b := drag.Evaluate(drag.Input{AbsVelocity: 0}, p.Functions(), p.Multipliers(), drag.Unit())
	if b.Viscous != 123 {
		t.Errorf("Evaluate ignored custom law: %+v", b)
	}
}

func TestForVesselLocksInByDefault(t *testing.T) {
	reg := entity.NewRegistry()
	store := NewStore()
	r := NewResolver(store, WithRegistry(reg))
	h := reg.Create("BOAT dhow small (10)")

	before := r.ForVessel(h, "BOAT dhow small (10)")
	store.SetUser(map[string]Overrides{"BOAT dhow small (10)": {FormFactor: Float(0.5)}})
	after := r.ForVessel(h, "BOAT dhow small (10)")

	if after.FormFactor != before.FormFactor {
		t.Errorf("cached parameters changed without live reload: %v -> %v", before.FormFactor, after.FormFactor)
	}

	reg.Destroy(h)
	fresh := reg.Create("BOAT dhow small (10)")
	if got := r.ForVessel(fresh, "BOAT dhow small (10)"); got.FormFactor != 0.5 {
		t.Errorf("new vessel form factor = %v, want 0.5", got.FormFactor)
	}
}

func TestForVesselLiveReload(t *testing.T) {
	store := NewStore()
	r := NewResolver(store, WithLiveReload(true))
	h := entity.Handle{ID: 1, Gen: 1}

	if got := r.ForVessel(h, "BOAT junk large (70)"); got.FormFactor != 0.13 {
		t.Fatalf("form factor = %v, want 0.13", got.FormFactor)
	}
	store.SetCustom("BOAT junk large (70)", Overrides{FormFactor: Float(0.25)})
	if got := r.ForVessel(h, "BOAT junk large (70)"); got.FormFactor != 0.25 {
		t.Errorf("form factor after update = %v, want 0.25", got.FormFactor)
	}
}
