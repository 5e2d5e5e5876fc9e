// Package drag holds the empirical hull resistance laws.
//
// Both laws share the ForceFunc signature so a vessel class can replace
// either one. Inputs are SI: m/s, m, m^3 and m^2; outputs are newtons
// before the per-vessel and global multipliers are applied.
package drag

import "math"

const (
	Gravity = 9.81

	tuningTotal             = 300.0
	tuningRelativeWave      = 0.3
	tuningViscous           = tuningTotal
	tuningWaveMaking        = tuningTotal * tuningRelativeWave
	reynoldsScale           = 1e6
	minReynolds             = 0.01
	frictionLineReynolds    = 1e3
	froudeThreshold         = 0.1
	saturationLevel         = 1.5
	saturationSteepness     = 10.0
	saturationMidpoint      = 0.6
	minWettedAreaDraft      = 1e-3
	mumfordDraftCoefficient = 1.7
)

// ForceFunc maps hull state to a resistance magnitude.
type ForceFunc func(absVelocity, waterlineLength, formFactor, displacement, wettedArea float64) float64

func invalid(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Viscous is the ITTC-1957 friction line scaled by the form factor.
// Below Re = 1e3 the line is replaced by a quadratic in Re that meets it
// at 1e3, since the line itself diverges at Re = 100.
func Viscous(absVelocity, waterlineLength, formFactor, displacement, wettedArea float64) float64 {
	if invalid(absVelocity, waterlineLength, formFactor, wettedArea) {
		return 0
	}
	v := math.Abs(absVelocity)
	if waterlineLength <= 0 || wettedArea <= 0 {
		return 0
	}
	re := v * waterlineLength * reynoldsScale
	if re < minReynolds {
		return 0
	}
	if re < frictionLineReynolds {
		vt := frictionLineReynolds / (waterlineLength * reynoldsScale)
		ratio := re / frictionLineReynolds
		return viscousLine(vt, frictionLineReynolds, formFactor, wettedArea) * ratio * ratio
	}
	return viscousLine(v, re, formFactor, wettedArea)
}

func viscousLine(v, re, formFactor, wettedArea float64) float64 {
	order := math.Log10(re) - 2
	cf := 0.075 / (order * order)
	f := cf * wettedArea * (1 + formFactor) * v * v * tuningViscous
	return math.Max(f, 0)
}

// WaveMaking models the hump and hollow pattern of wave resistance with a
// logistic envelope over an oscillating term in 1/Fr. Below the Froude
// threshold it falls off quadratically to zero.
func WaveMaking(absVelocity, waterlineLength, formFactor, displacement, wettedArea float64) float64 {
	if invalid(absVelocity, waterlineLength, displacement) {
		return 0
	}
	v := math.Abs(absVelocity)
	if v == 0 || waterlineLength <= 0 || displacement <= 0 {
		return 0
	}
	fr := Froude(v, waterlineLength)
	if fr < froudeThreshold {
		ratio := fr / froudeThreshold
		return waveCurve(froudeThreshold, displacement) * ratio * ratio
	}
	return waveCurve(fr, displacement)
}

func waveCurve(fr, displacement float64) float64 {
	envelope := saturationLevel / (1 + math.Exp(-saturationSteepness*(fr-saturationMidpoint)))
	oscillation := 2 + math.Cos(2*math.Pi/fr)
	return envelope * oscillation * displacement * tuningWaveMaking
}

func Froude(absVelocity, waterlineLength float64) float64 {
	if waterlineLength <= 0 {
		return 0
	}
	return math.Abs(absVelocity) / math.Sqrt(waterlineLength*Gravity)
}

func Reynolds(absVelocity, waterlineLength float64) float64 {
	return math.Abs(absVelocity) * waterlineLength * reynoldsScale
}

// EstimateWettedArea is Mumford's approximation 1.7 L T + V / T, used when
// no hydrostatic table is available.
func EstimateWettedArea(waterlineLength, draft, displacement float64) float64 {
	if waterlineLength <= 0 || displacement < 0 || invalid(waterlineLength, draft, displacement) {
		return 0
	}
	t := math.Max(draft, minWettedAreaDraft)
	return mumfordDraftCoefficient*waterlineLength*t + displacement/t
}
