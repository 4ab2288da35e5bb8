// Package propellant models solid propellant combustion properties and the
// empirical burn-rate power law r = a·P^n. Burn-rate data is stored the way
// it is published for amateur propellants: piecewise windows of chamber
// pressure, coefficients quoted for pressure in MPa and rate in mm/s.
package propellant

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// RateWindow is one pressure window of a piecewise burn-rate law.
// Coefficient units follow the amateur-rocketry convention: with chamber
// pressure expressed in MPa, A·P^N yields the linear rate in mm/s.
type RateWindow struct {
	MinPressure float64 `yaml:"min_pressure"` // [Pa]
	MaxPressure float64 `yaml:"max_pressure"` // [Pa]
	A           float64 `yaml:"a"`
	N           float64 `yaml:"n"`
}

// Propellant holds the combustion and regression properties of a solid
// propellant formulation.
type Propellant struct {
	Name string `yaml:"name"`

	// Density is the as-cast propellant density [kg/m³].
	Density float64 `yaml:"density"`

	// SpecificHeatRatio is the isentropic exponent of the chamber mix.
	SpecificHeatRatio float64 `yaml:"specific_heat_ratio"`

	// ExhaustHeatRatio is the two-phase isentropic exponent used for
	// nozzle expansion.
	ExhaustHeatRatio float64 `yaml:"exhaust_heat_ratio"`

	// CombustionTemp is the adiabatic flame temperature [K].
	CombustionTemp float64 `yaml:"combustion_temp"`

	// GasConstant is the specific gas constant of the combustion
	// products [J/(kg·K)].
	GasConstant float64 `yaml:"gas_constant"`

	// CombustionEfficiency scales the ideal thrust coefficient.
	CombustionEfficiency float64 `yaml:"combustion_efficiency"`

	Rate []RateWindow `yaml:"rate"`
}

// Validate rejects non-physical property sets. It is called once at setup;
// a propellant that passes never fails mid-run.
func (p *Propellant) Validate() error {
	if p.Density <= 0 {
		return srm.Configf("propellant.density", "must be positive, got %g", p.Density)
	}
	if p.SpecificHeatRatio <= 1 {
		return srm.Configf("propellant.specific_heat_ratio", "must exceed 1, got %g", p.SpecificHeatRatio)
	}
	if p.ExhaustHeatRatio <= 1 {
		return srm.Configf("propellant.exhaust_heat_ratio", "must exceed 1, got %g", p.ExhaustHeatRatio)
	}
	if p.CombustionTemp <= 0 {
		return srm.Configf("propellant.combustion_temp", "must be positive, got %g", p.CombustionTemp)
	}
	if p.GasConstant <= 0 {
		return srm.Configf("propellant.gas_constant", "must be positive, got %g", p.GasConstant)
	}
	if p.CombustionEfficiency <= 0 || p.CombustionEfficiency > 1 {
		return srm.Configf("propellant.combustion_efficiency", "must be in (0, 1], got %g", p.CombustionEfficiency)
	}
	if len(p.Rate) == 0 {
		return srm.Configf("propellant.rate", "at least one burn-rate window required")
	}
	for i, w := range p.Rate {
		if w.A <= 0 {
			return srm.Configf("propellant.rate", "window %d: coefficient a must be positive, got %g", i, w.A)
		}
		if w.N < 0 || w.N > 1 {
			return srm.Configf("propellant.rate", "window %d: exponent n must be in [0, 1], got %g", i, w.N)
		}
		if w.MaxPressure <= w.MinPressure {
			return srm.Configf("propellant.rate", "window %d: empty pressure range", i)
		}
	}
	return nil
}

// BurnRate returns the linear regression rate [m/s] at the given chamber
// pressure [Pa]. Pressures below the first window or above the last are
// evaluated with the nearest window's coefficients. Negative pressure is a
// configuration error.
func (p *Propellant) BurnRate(pressure float64) (float64, error) {
	if pressure < 0 {
		return 0, srm.Configf("pressure", "burn rate requested at negative pressure %g Pa", pressure)
	}

	w := p.Rate[0]
	for _, cand := range p.Rate {
		if pressure >= cand.MinPressure {
			w = cand
		}
		if pressure <= cand.MaxPressure {
			break
		}
	}

	mpa := pressure / 1e6
	mmPerSec := w.A * math.Pow(mpa, w.N)
	return mmPerSec / 1e3, nil
}
