package performance

import "sort"

// builtin holds hull data measured for the stock vessel classes.
var builtin = map[string]Overrides{
	"BOAT dhow small (10)":           {WaterlineLength: Float(12), FormFactor: Float(0.11)},
	"BOAT dhow medium (20)":          {WaterlineLength: Float(22), FormFactor: Float(0.10)},
	"BOAT medi small (40)":           {WaterlineLength: Float(12.39), FormFactor: Float(0.10)},
	"BOAT medi medium (50)":          {WaterlineLength: Float(25.31), FormFactor: Float(0.11)},
	"BOAT junk large (70)":           {WaterlineLength: Float(28), FormFactor: Float(0.13)},
	"BOAT junk medium (80)":          {WaterlineLength: Float(24), FormFactor: Float(0.13)},
	"BOAT junk small singleroof(90)": {WaterlineLength: Float(12), FormFactor: Float(0.13)},
	"BOAT Shroud Small":              {WaterlineLength: Float(14.77), FormFactor: Float(0.07)},
	"BOAT Shroud Large":              {WaterlineLength: Float(34.56), FormFactor: Float(0.06)},
	"BOAT GLORIANA (182)":            {WaterlineLength: Float(30), FormFactor: Float(0.15)},
	"BOAT CHRONIAN (187)":            {WaterlineLength: Float(35), FormFactor: Float(0.15)},
	"BOAT CAELANOR (192)":            {WaterlineLength: Float(20), FormFactor: Float(0.20)},
	"BOAT GALLUS (197)":              {WaterlineLength: Float(7), FormFactor: Float(0.08)},
}

// Builtin returns the default record for a normalized class name. Unknown
// classes get an empty record, which Fill completes with Generic.
func Builtin(class string) (Overrides, bool) {
	o, ok := builtin[class]
	return o, ok
}

// KnownClasses lists the classes with built-in data, sorted.
func KnownClasses() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Examples is the document written when no user document exists yet.
func Examples() map[string]Overrides {
	return map[string]Overrides{
		"BOAT Example 1": {WaterlineLength: Float(5)},
		"BOAT Example 2": {FormFactor: Float(1.23), WaveMakingMultiplier: Float(3)},
	}
}
