package propellant

// Preset potassium-nitrate propellants. Combustion properties follow the
// published characterization of each formulation; burn-rate windows are
// power-law fits of the measured rate curves. The high-pressure windows are
// single-exponent approximations of plateau behavior, adequate for motor
// sizing but not for plateau-sensitive designs.
var presets = map[string]Propellant{
	"knsb": {
		Name:                 "KNSB",
		Density:              1750,
		SpecificHeatRatio:    1.1361,
		ExhaustHeatRatio:     1.1371,
		CombustionTemp:       1600,
		GasConstant:          208.4,
		CombustionEfficiency: 0.95,
		Rate: []RateWindow{
			{MinPressure: 0.1e6, MaxPressure: 0.779e6, A: 10.71, N: 0.625},
			{MinPressure: 0.779e6, MaxPressure: 10.3e6, A: 5.13, N: 0.222},
		},
	},
	"kndx": {
		Name:                 "KNDX",
		Density:              1785,
		SpecificHeatRatio:    1.1308,
		ExhaustHeatRatio:     1.1310,
		CombustionTemp:       1710,
		GasConstant:          196.1,
		CombustionEfficiency: 0.95,
		Rate: []RateWindow{
			{MinPressure: 0.1e6, MaxPressure: 0.779e6, A: 8.88, N: 0.619},
			{MinPressure: 0.779e6, MaxPressure: 10.3e6, A: 6.50, N: 0.150},
		},
	},
	"knsu": {
		Name:                 "KNSU",
		Density:              1800,
		SpecificHeatRatio:    1.1330,
		ExhaustHeatRatio:     1.1336,
		CombustionTemp:       1720,
		GasConstant:          198.0,
		CombustionEfficiency: 0.95,
		Rate: []RateWindow{
			{MinPressure: 0.1e6, MaxPressure: 10.3e6, A: 8.26, N: 0.319},
		},
	},
	"kner": {
		Name:                 "KNER",
		Density:              1820,
		SpecificHeatRatio:    1.1390,
		ExhaustHeatRatio:     1.1392,
		CombustionTemp:       1608,
		GasConstant:          215.0,
		CombustionEfficiency: 0.94,
		Rate: []RateWindow{
			{MinPressure: 0.1e6, MaxPressure: 10.3e6, A: 2.90, N: 0.400},
		},
	},
}

// ByName returns a copy of the named preset propellant. The copy owns its
// rate windows; callers may adjust them freely.
func ByName(name string) (Propellant, bool) {
	p, ok := presets[name]
	if !ok {
		return Propellant{}, false
	}
	rate := make([]RateWindow, len(p.Rate))
	copy(rate, p.Rate)
	p.Rate = rate
	return p, true
}

// Names lists the available preset propellants.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
