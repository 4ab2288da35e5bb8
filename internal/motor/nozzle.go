package motor

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Nozzle is a converging-diverging nozzle described by its throat and the
// area expansion ratio of the divergent section.
type Nozzle struct {
	ThroatDiameter  float64 `yaml:"throat_diameter"`  // [m]
	ExpansionRatio  float64 `yaml:"expansion_ratio"`  // exit area / throat area
	DivergentAngle  float64 `yaml:"divergent_angle"`  // half angle [deg]
	ConvergentAngle float64 `yaml:"convergent_angle"` // half angle [deg]
	Efficiency      float64 `yaml:"efficiency"`       // thrust coefficient efficiency, (0, 1]
}

func (n *Nozzle) Validate() error {
	if n.ThroatDiameter <= 0 {
		return srm.Configf("nozzle.throat_diameter", "must be positive, got %g", n.ThroatDiameter)
	}
	if n.ExpansionRatio < 1 {
		return srm.Configf("nozzle.expansion_ratio", "must be at least 1, got %g", n.ExpansionRatio)
	}
	if n.DivergentAngle < 0 || n.DivergentAngle >= 90 {
		return srm.Configf("nozzle.divergent_angle", "must be in [0, 90), got %g", n.DivergentAngle)
	}
	if n.ConvergentAngle < 0 || n.ConvergentAngle >= 90 {
		return srm.Configf("nozzle.convergent_angle", "must be in [0, 90), got %g", n.ConvergentAngle)
	}
	if n.Efficiency <= 0 || n.Efficiency > 1 {
		return srm.Configf("nozzle.efficiency", "must be in (0, 1], got %g", n.Efficiency)
	}
	return nil
}

// ThroatArea returns the throat cross-section area [m²].
func (n *Nozzle) ThroatArea() float64 {
	return math.Pi / 4 * n.ThroatDiameter * n.ThroatDiameter
}

// ExitArea returns the exit cross-section area [m²].
func (n *Nozzle) ExitArea() float64 {
	return n.ExpansionRatio * n.ThroatArea()
}

// DivergenceFactor returns the conical divergence loss factor
// 0.5*(1+cos(alpha)).
func (n *Nozzle) DivergenceFactor() float64 {
	return 0.5 * (1 + math.Cos(n.DivergentAngle*math.Pi/180))
}

// ExitMach returns the supersonic exit Mach number for the nozzle's
// expansion ratio at the given heat ratio, found by Newton iteration on the
// isentropic area-Mach relation.
func (n *Nozzle) ExitMach(k float64) float64 {
	if n.ExpansionRatio <= 1 {
		return 1
	}

	areaRatio := func(m float64) float64 {
		return 1 / m * math.Pow(2/(k+1)*(1+(k-1)/2*m*m), (k+1)/(2*(k-1)))
	}

	m := 2.0
	for i := 0; i < 50; i++ {
		f := areaRatio(m) - n.ExpansionRatio
		h := 1e-6
		df := (areaRatio(m+h) - areaRatio(m-h)) / (2 * h)
		next := m - f/df
		if next <= 1 {
			next = 0.5 * (m + 1)
		}
		if math.Abs(next-m) < 1e-10 {
			return next
		}
		m = next
	}
	return m
}

// ExitPressure returns the nozzle exit static pressure [Pa] for the given
// chamber stagnation pressure, assuming isentropic expansion to the exit
// Mach number.
func (n *Nozzle) ExitPressure(k, chamberPressure float64) float64 {
	m := n.ExitMach(k)
	return chamberPressure * math.Pow(1+(k-1)/2*m*m, -k/(k-1))
}

// ThrustCoefficient returns the corrected thrust coefficient for the given
// chamber and ambient pressures. The ideal coefficient is the momentum term
// plus the pressure thrust of the fixed exit area, scaled by the divergence
// factor and the nozzle efficiency.
//
// Deep over-expansion can drive the ideal coefficient negative; the result
// is clamped to zero and the second return reports the clamp so callers can
// surface an infeasible-operating-point warning.
func (n *Nozzle) ThrustCoefficient(k, chamberPressure, ambientPressure float64) (float64, bool) {
	if chamberPressure <= 0 {
		return 0, false
	}

	pe := n.ExitPressure(k, chamberPressure)
	momentum := 2 * k * k / (k - 1) *
		math.Pow(2/(k+1), (k+1)/(k-1)) *
		(1 - math.Pow(pe/chamberPressure, (k-1)/k))
	if momentum < 0 {
		momentum = 0
	}
	cf := math.Sqrt(momentum) + n.ExpansionRatio*(pe-ambientPressure)/chamberPressure
	cf *= n.DivergenceFactor() * n.Efficiency

	if cf < 0 {
		return 0, true
	}
	return cf, false
}

// OptimalExpansionRatio returns the expansion ratio that expands the given
// chamber pressure exactly to ambient. Returns 1 when the flow would not be
// choked.
func OptimalExpansionRatio(k, chamberPressure, ambientPressure float64) float64 {
	critical := math.Pow(2/(k+1), k/(k-1))
	pr := ambientPressure / chamberPressure
	if pr > critical {
		return 1
	}
	return 1 / (math.Pow((k+1)/2, 1/(k-1)) * math.Pow(pr, 1/k) *
		math.Sqrt((k+1)/(k-1)*(1-math.Pow(pr, (k-1)/k))))
}
