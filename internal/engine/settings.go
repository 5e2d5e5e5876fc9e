package engine

import (
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/drag"
	"github.com/san-kum/hydrodrag/internal/hydrostatics"
)

const (
	initialDraft     = 1.0
	minDraft         = 0.1
	maxDraft         = 20.0
	draftSmoothing   = 1.0 / 16
	minDisplacement  = 0.1
	nominalBeamRatio = 4.0
)

type Settings struct {
	DraftSamplingPeriod    int
	Global                 drag.Multipliers
	LengthMultiplier       float64
	MassMultiplier         float64
	LateralDragCoefficient float64
	WaterDensity           float64
	Gravity                float64
	Span                   float64
}

func DefaultSettings() Settings {
	return Settings{
		DraftSamplingPeriod:    5,
		Global:                 drag.Unit(),
		LengthMultiplier:       1,
		MassMultiplier:         1,
		LateralDragCoefficient: 1.2,
		WaterDensity:           1025,
		Gravity:                drag.Gravity,
		Span:                   hydrostatics.DefaultSpan,
	}
}

// FromConfig maps the loaded engine settings.
func FromConfig(c *config.Settings) Settings {
	return Settings{
		DraftSamplingPeriod: c.DraftSamplingPeriod,
		Global: drag.Multipliers{
			Viscous:    c.GlobalViscousMultiplier,
			WaveMaking: c.GlobalWaveMakingMultiplier,
		},
		LengthMultiplier:       c.GlobalLengthMultiplier,
		MassMultiplier:         c.GlobalMassMultiplier,
		LateralDragCoefficient: c.LateralDragCoefficient,
		WaterDensity:           c.WaterDensity,
		Gravity:                drag.Gravity,
		Span:                   c.TableSpan,
	}.withDefaults()
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DraftSamplingPeriod <= 0 {
		s.DraftSamplingPeriod = d.DraftSamplingPeriod
	}
	if s.LengthMultiplier <= 0 {
		s.LengthMultiplier = d.LengthMultiplier
	}
	if s.MassMultiplier <= 0 {
		s.MassMultiplier = d.MassMultiplier
	}
	if s.WaterDensity <= 0 {
		s.WaterDensity = d.WaterDensity
	}
	if s.Gravity <= 0 {
		s.Gravity = d.Gravity
	}
	if s.Span <= 0 {
		s.Span = d.Span
	}
	return s
}
