package drag

// Multipliers scale the two resistance components.
type Multipliers struct {
	Viscous    float64
	WaveMaking float64
}

func Unit() Multipliers {
	return Multipliers{Viscous: 1, WaveMaking: 1}
}

// Functions are the per-vessel laws. Nil entries use the package laws.
type Functions struct {
	Viscous    ForceFunc
	WaveMaking ForceFunc
}

type Input struct {
	AbsVelocity     float64
	WaterlineLength float64
	FormFactor      float64
	Displacement    float64
	WettedArea      float64
}

type Breakdown struct {
	Viscous    float64
	WaveMaking float64
	Total      float64
}

// Evaluate applies the vessel's laws and multipliers, then the global ones.
func Evaluate(in Input, fns Functions, vessel, global Multipliers) Breakdown {
	viscous := fns.Viscous
	if viscous == nil {
		viscous = Viscous
	}
	wave := fns.WaveMaking
	if wave == nil {
		wave = WaveMaking
	}

	var b Breakdown
	b.Viscous = global.Viscous * vessel.Viscous *
		viscous(in.AbsVelocity, in.WaterlineLength, in.FormFactor, in.Displacement, in.WettedArea)
	b.WaveMaking = global.WaveMaking * vessel.WaveMaking *
		wave(in.AbsVelocity, in.WaterlineLength, in.FormFactor, in.Displacement, in.WettedArea)
	if invalid(b.Viscous) {
		b.Viscous = 0
	}
	if invalid(b.WaveMaking) {
		b.WaveMaking = 0
	}
	b.Total = b.Viscous + b.WaveMaking
	return b
}
