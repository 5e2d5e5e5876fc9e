package config

import "sort"

// Presets holds run scenarios per synthetic vessel.
var Presets = map[string]map[string]*Config{
	"cog": {
		"calm": {
			Vessel: "cog", Dt: 0.02, Duration: 60, Thrust: 20000,
		},
		"swell": {
			Vessel: "cog", Dt: 0.02, Duration: 90, Thrust: 20000,
			Water: WaterConfig{Amplitude: 0.6, Wavelength: 30},
		},
		"coast": {
			Vessel: "cog", Dt: 0.02, Duration: 60, Thrust: 0,
			InitState: InitStateConfig{Speed: 4},
		},
		"cruise": {
			Vessel: "cog", Dt: 0.02, Duration: 120,
			Water:     WaterConfig{Amplitude: 0.3, Wavelength: 35},
			Autopilot: AutopilotConfig{TargetSpeed: 3},
		},
	},
	"dhow": {
		"calm": {
			Vessel: "dhow", Dt: 0.02, Duration: 60, Thrust: 40000,
		},
		"swell": {
			Vessel: "dhow", Dt: 0.02, Duration: 90, Thrust: 40000,
			Water: WaterConfig{Amplitude: 0.8, Wavelength: 45, Heading: 0.4},
		},
		"current": {
			Vessel: "dhow", Dt: 0.02, Duration: 60, Thrust: 20000,
			Water: WaterConfig{Wavelength: 40, CurrentX: 0.5, CurrentZ: -0.5},
		},
	},
	"junk": {
		"calm": {
			Vessel: "junk", Dt: 0.02, Duration: 60, Thrust: 60000,
		},
		"storm": {
			Vessel: "junk", Dt: 0.02, Duration: 120, Thrust: 60000,
			Water: WaterConfig{Amplitude: 1.5, Wavelength: 60, Heading: 0.8},
		},
		"dropout": {
			Vessel: "junk", Dt: 0.02, Duration: 60, Thrust: 60000,
			Water: WaterConfig{Wavelength: 40, FailEvery: 3},
		},
	},
}

func GetPreset(vessel, preset string) *Config {
	vesselPresets, ok := Presets[vessel]
	if !ok {
		return nil
	}
	cfg, ok := vesselPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	def := DefaultConfig()
	if out.Water.Wavelength == 0 {
		out.Water.Wavelength = def.Water.Wavelength
	}
	if out.Autopilot.MaxThrust == 0 && out.Autopilot.Kp == 0 && out.Autopilot.Ki == 0 {
		target := out.Autopilot.TargetSpeed
		out.Autopilot = def.Autopilot
		out.Autopilot.TargetSpeed = target
	}
	return &out
}

func ListPresets(vessel string) []string {
	vesselPresets, ok := Presets[vessel]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(vesselPresets))
	for name := range vesselPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
