// Package atmosphere implements the US Standard Atmosphere 1976 layered
// model. All functions are pure and deterministic.
//
// Above the modeled ceiling (84.852 km geopotential) temperature is held at
// the top-of-model value and pressure decays isothermally; results up there
// are a graceful extrapolation, not an accurate one.
package atmosphere

import "math"

const (
	// GasConstantAir is the specific gas constant of dry air [J/(kg·K)].
	GasConstantAir = 287.053

	// Gamma is the ratio of specific heats of air.
	Gamma = 1.4

	// Gravity0 is standard gravity at sea level [m/s²].
	Gravity0 = 9.80665

	// earthRadius is the nominal radius used for geometric-to-geopotential
	// conversion and the inverse-square gravity falloff [m].
	earthRadius = 6356766.0

	ceiling = 84852.0 // geopotential top of the modeled atmosphere [m]
)

// One layer of the 1976 standard atmosphere, in geopotential altitude.
type layer struct {
	base     float64 // base geopotential altitude [m]
	lapse    float64 // temperature lapse rate [K/m]
	baseTemp float64 // temperature at layer base [K]
	basePres float64 // pressure at layer base [Pa]
}

var layers = []layer{
	{0, -0.0065, 288.15, 101325.0},
	{11000, 0, 216.65, 22632.06},
	{20000, 0.001, 216.65, 5474.889},
	{32000, 0.0028, 228.65, 868.0187},
	{47000, 0, 270.65, 110.9063},
	{51000, -0.0028, 270.65, 66.93887},
	{71000, -0.002, 214.65, 3.956420},
}

// Sample bundles the ambient properties at one altitude.
type Sample struct {
	Temperature  float64 // [K]
	Pressure     float64 // [Pa]
	Density      float64 // [kg/m³]
	SpeedOfSound float64 // [m/s]
}

// At returns the ambient conditions at the given geometric altitude above
// mean sea level. Negative altitudes extend the sea-level layer downward.
func At(altitude float64) Sample {
	h := geopotential(altitude)

	temp, pres := temperaturePressure(h)
	density := pres / (GasConstantAir * temp)
	sonic := math.Sqrt(Gamma * GasConstantAir * temp)

	return Sample{
		Temperature:  temp,
		Pressure:     pres,
		Density:      density,
		SpeedOfSound: sonic,
	}
}

// Pressure returns the ambient pressure at the given altitude [Pa].
func Pressure(altitude float64) float64 {
	return At(altitude).Pressure
}

// Density returns the air density at the given altitude [kg/m³].
func Density(altitude float64) float64 {
	return At(altitude).Density
}

// SpeedOfSound returns the sonic velocity at the given altitude [m/s].
func SpeedOfSound(altitude float64) float64 {
	return At(altitude).SpeedOfSound
}

// Gravity returns the gravitational acceleration at the given geometric
// altitude, with inverse-square falloff from the sea-level value [m/s²].
func Gravity(altitude float64) float64 {
	r := earthRadius / (earthRadius + altitude)
	return Gravity0 * r * r
}

func geopotential(geometric float64) float64 {
	return earthRadius * geometric / (earthRadius + geometric)
}

func temperaturePressure(h float64) (float64, float64) {
	if h > ceiling {
		// Isothermal continuation of the top layer.
		topTemp, topPres := temperaturePressure(ceiling)
		scale := math.Exp(-Gravity0 * (h - ceiling) / (GasConstantAir * topTemp))
		return topTemp, topPres * scale
	}

	ly := layers[0]
	for i := len(layers) - 1; i >= 0; i-- {
		if h >= layers[i].base {
			ly = layers[i]
			break
		}
	}

	dh := h - ly.base
	temp := ly.baseTemp + ly.lapse*dh

	var pres float64
	if ly.lapse == 0 {
		pres = ly.basePres * math.Exp(-Gravity0*dh/(GasConstantAir*ly.baseTemp))
	} else {
		pres = ly.basePres * math.Pow(temp/ly.baseTemp, -Gravity0/(GasConstantAir*ly.lapse))
	}

	return temp, pres
}
