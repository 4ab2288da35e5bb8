package grain

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Bates is a cylindrical segment with a circular core, burning on the core
// surface and both end faces.
type Bates struct {
	OuterDiameter float64 `yaml:"outer_diameter"` // [m]
	CoreDiameter  float64 `yaml:"core_diameter"`  // [m]
	Length        float64 `yaml:"length"`         // [m]
	Spacing       float64 `yaml:"spacing"`        // gap to the next segment [m]
}

func (b *Bates) Validate() error {
	if b.OuterDiameter <= 0 {
		return srm.Configf("bates.outer_diameter", "must be positive, got %g", b.OuterDiameter)
	}
	if b.CoreDiameter <= 0 {
		return srm.Configf("bates.core_diameter", "must be positive, got %g", b.CoreDiameter)
	}
	if b.CoreDiameter >= b.OuterDiameter {
		return srm.Configf("bates.core_diameter", "core %g must be smaller than outer diameter %g", b.CoreDiameter, b.OuterDiameter)
	}
	if b.Length <= 0 {
		return srm.Configf("bates.length", "must be positive, got %g", b.Length)
	}
	if b.Spacing < 0 {
		return srm.Configf("bates.spacing", "must be non-negative, got %g", b.Spacing)
	}
	return nil
}

// WebThickness is the lesser of the radial web and the half length: the
// segment is consumed when either the core reaches the outer surface or the
// two faces meet.
func (b *Bates) WebThickness() float64 {
	return math.Min(0.5*(b.OuterDiameter-b.CoreDiameter), 0.5*b.Length)
}

func (b *Bates) BurnArea(web float64) float64 {
	if web >= b.WebThickness() {
		return 0
	}
	d := b.CoreDiameter + 2*web
	l := b.Length - 2*web
	return math.Pi * ((b.OuterDiameter*b.OuterDiameter-d*d)/2 + l*d)
}

func (b *Bates) Volume(web float64) float64 {
	if web >= b.WebThickness() {
		return 0
	}
	d := b.CoreDiameter + 2*web
	l := b.Length - 2*web
	return math.Pi / 4 * (b.OuterDiameter*b.OuterDiameter - d*d) * l
}

// OptimalLength returns the segment length giving a near-neutral burn
// profile [m].
func (b *Bates) OptimalLength() float64 {
	return 0.5 * (3*b.OuterDiameter + b.CoreDiameter)
}
