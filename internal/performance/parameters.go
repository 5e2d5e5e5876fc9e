// Package performance resolves the drag and buoyancy tuning of a vessel
// class from three tiers: user overrides, overrides registered by other
// code at runtime, and the built-in defaults.
package performance

import (
	"fmt"
	"strings"

	"github.com/san-kum/hydrodrag/internal/drag"
)

// Overrides is one tier's record for a class. Nil fields defer to the
// next tier down.
type Overrides struct {
	WaterlineLength      *float64 `yaml:"waterline_length,omitempty" json:"waterline_length,omitempty"`
	FormFactor           *float64 `yaml:"form_factor,omitempty" json:"form_factor,omitempty"`
	ViscousMultiplier    *float64 `yaml:"viscous_multiplier,omitempty" json:"viscous_multiplier,omitempty"`
	WaveMakingMultiplier *float64 `yaml:"wave_making_multiplier,omitempty" json:"wave_making_multiplier,omitempty"`
	BuoyancyMultiplier   *float64 `yaml:"buoyancy_multiplier,omitempty" json:"buoyancy_multiplier,omitempty"`
	MassMultiplier       *float64 `yaml:"mass_multiplier,omitempty" json:"mass_multiplier,omitempty"`
	BaseBuoyancy         *float64 `yaml:"base_buoyancy,omitempty" json:"base_buoyancy,omitempty"`

	Viscous    drag.ForceFunc `yaml:"-" json:"-"`
	WaveMaking drag.ForceFunc `yaml:"-" json:"-"`
}

// Float returns a pointer to v, for building Overrides literals.
func Float(v float64) *float64 { return &v }

func pick(high, low *float64) *float64 {
	if high != nil {
		return high
	}
	return low
}

func pickFunc(high, low drag.ForceFunc) drag.ForceFunc {
	if high != nil {
		return high
	}
	return low
}

// Merge fills every unset field of high from low.
func Merge(high, low Overrides) Overrides {
	return Overrides{
		WaterlineLength:      pick(high.WaterlineLength, low.WaterlineLength),
		FormFactor:           pick(high.FormFactor, low.FormFactor),
		ViscousMultiplier:    pick(high.ViscousMultiplier, low.ViscousMultiplier),
		WaveMakingMultiplier: pick(high.WaveMakingMultiplier, low.WaveMakingMultiplier),
		BuoyancyMultiplier:   pick(high.BuoyancyMultiplier, low.BuoyancyMultiplier),
		MassMultiplier:       pick(high.MassMultiplier, low.MassMultiplier),
		BaseBuoyancy:         pick(high.BaseBuoyancy, low.BaseBuoyancy),
		Viscous:              pickFunc(high.Viscous, low.Viscous),
		WaveMaking:           pickFunc(high.WaveMaking, low.WaveMaking),
	}
}

func (o Overrides) IsZero() bool {
	return o.WaterlineLength == nil && o.FormFactor == nil &&
		o.ViscousMultiplier == nil && o.WaveMakingMultiplier == nil &&
		o.BuoyancyMultiplier == nil && o.MassMultiplier == nil &&
		o.BaseBuoyancy == nil && o.Viscous == nil && o.WaveMaking == nil
}

// Parameters is a fully populated record.
type Parameters struct {
	Class                string
	WaterlineLength      float64
	FormFactor           float64
	ViscousMultiplier    float64
	WaveMakingMultiplier float64
	BuoyancyMultiplier   float64
	MassMultiplier       float64
	BaseBuoyancy         float64
	Viscous              drag.ForceFunc
	WaveMaking           drag.ForceFunc
}

const (
	GenericWaterlineLength = 20.0
	GenericFormFactor      = 0.15
	GenericBaseBuoyancy    = 25.0
)

// Generic is the record used for every field no tier sets.
func Generic() Parameters {
	return Parameters{
		WaterlineLength:      GenericWaterlineLength,
		FormFactor:           GenericFormFactor,
		ViscousMultiplier:    1,
		WaveMakingMultiplier: 1,
		BuoyancyMultiplier:   1,
		MassMultiplier:       1,
		BaseBuoyancy:         GenericBaseBuoyancy,
		Viscous:              drag.Viscous,
		WaveMaking:           drag.WaveMaking,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Fill completes o with the generic record.
func Fill(class string, o Overrides) Parameters {
	g := Generic()
	return Parameters{
		Class:                class,
		WaterlineLength:      valueOr(o.WaterlineLength, g.WaterlineLength),
		FormFactor:           valueOr(o.FormFactor, g.FormFactor),
		ViscousMultiplier:    valueOr(o.ViscousMultiplier, g.ViscousMultiplier),
		WaveMakingMultiplier: valueOr(o.WaveMakingMultiplier, g.WaveMakingMultiplier),
		BuoyancyMultiplier:   valueOr(o.BuoyancyMultiplier, g.BuoyancyMultiplier),
		MassMultiplier:       valueOr(o.MassMultiplier, g.MassMultiplier),
		BaseBuoyancy:         valueOr(o.BaseBuoyancy, g.BaseBuoyancy),
		Viscous:              pickFunc(o.Viscous, g.Viscous),
		WaveMaking:           pickFunc(o.WaveMaking, g.WaveMaking),
	}
}

func (p Parameters) Functions() drag.Functions {
	return drag.Functions{Viscous: p.Viscous, WaveMaking: p.WaveMaking}
}

func (p Parameters) Multipliers() drag.Multipliers {
	return drag.Multipliers{Viscous: p.ViscousMultiplier, WaveMaking: p.WaveMakingMultiplier}
}

func (p Parameters) String() string {
	return fmt.Sprintf("Parameters(class=%q, LWL=%g, FormFactor=%g, Viscous=%g, WaveMaking=%g, Buoyancy=%g, Mass=%g)",
		p.Class, p.WaterlineLength, p.FormFactor, p.ViscousMultiplier, p.WaveMakingMultiplier,
		p.BuoyancyMultiplier, p.MassMultiplier)
}

const cloneSuffix = "(Clone)"

// NormalizeName strips instance suffixes the host appends to cloned
// objects.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	for strings.HasSuffix(name, cloneSuffix) {
		name = strings.TrimSpace(strings.TrimSuffix(name, cloneSuffix))
	}
	return name
}
