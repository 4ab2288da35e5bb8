package motor

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Chamber is the combustion chamber casing. Free volume is the empty casing
// volume minus the propellant volume still loaded.
type Chamber struct {
	InnerDiameter float64 `yaml:"inner_diameter"` // [m]
	Length        float64 `yaml:"length"`         // [m]
}

func (c *Chamber) Validate() error {
	if c.InnerDiameter <= 0 {
		return srm.Configf("chamber.inner_diameter", "must be positive, got %g", c.InnerDiameter)
	}
	if c.Length <= 0 {
		return srm.Configf("chamber.length", "must be positive, got %g", c.Length)
	}
	return nil
}

// EmptyVolume returns the casing internal volume [m³].
func (c *Chamber) EmptyVolume() float64 {
	return math.Pi / 4 * c.InnerDiameter * c.InnerDiameter * c.Length
}

// FreeVolume returns the gas volume for the given loaded propellant
// volume [m³].
func (c *Chamber) FreeVolume(propellantVolume float64) float64 {
	return c.EmptyVolume() - propellantVolume
}
