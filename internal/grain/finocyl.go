package grain

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Finocyl is a segment with a circular core and radial fin slots, inhibited
// ends. Slot sides keep a constant radial depth until the slot tips reach the
// outer surface, after which they shorten with the growing core.
//
// Arc overlap between widening slots and the core circle is neglected, which
// slightly overstates the burn area late in the burn.
type Finocyl struct {
	OuterDiameter float64 `yaml:"outer_diameter"` // [m]
	CoreDiameter  float64 `yaml:"core_diameter"`  // [m]
	FinCount      int     `yaml:"fin_count"`
	FinDepth      float64 `yaml:"fin_depth"` // radial slot depth beyond the core [m]
	FinWidth      float64 `yaml:"fin_width"` // initial slot width [m]
	Length        float64 `yaml:"length"`    // [m]
}

func (f *Finocyl) Validate() error {
	if f.FinCount < 1 {
		return srm.Configf("finocyl.fin_count", "need at least one fin, got %d", f.FinCount)
	}
	if f.CoreDiameter <= 0 {
		return srm.Configf("finocyl.core_diameter", "must be positive, got %g", f.CoreDiameter)
	}
	if f.CoreDiameter >= f.OuterDiameter {
		return srm.Configf("finocyl.core_diameter", "core %g must be smaller than outer diameter %g", f.CoreDiameter, f.OuterDiameter)
	}
	if f.FinDepth <= 0 {
		return srm.Configf("finocyl.fin_depth", "must be positive, got %g", f.FinDepth)
	}
	if f.CoreDiameter/2+f.FinDepth >= f.OuterDiameter/2 {
		return srm.Configf("finocyl.fin_depth", "fin tips must stay inside the outer diameter")
	}
	if f.FinWidth <= 0 {
		return srm.Configf("finocyl.fin_width", "must be positive, got %g", f.FinWidth)
	}
	if f.Length <= 0 {
		return srm.Configf("finocyl.length", "must be positive, got %g", f.Length)
	}
	return nil
}

func (f *Finocyl) WebThickness() float64 {
	return 0.5 * (f.OuterDiameter - f.CoreDiameter)
}

func (f *Finocyl) geometry(web float64) (core, tip, outer, width float64) {
	core = 0.5*f.CoreDiameter + web
	tip = 0.5*f.CoreDiameter + f.FinDepth + web
	outer = 0.5 * f.OuterDiameter
	if tip > outer {
		tip = outer
	}
	width = f.FinWidth + 2*web
	return
}

func (f *Finocyl) perimeter(web float64) float64 {
	core, tip, outer, width := f.geometry(web)
	if core >= outer {
		return 0
	}

	n := float64(f.FinCount)
	p := 2*math.Pi*core - n*width // core circle minus slot openings
	if p < 0 {
		p = 0
	}
	if tip > core {
		p += n * 2 * (tip - core) // slot side walls
		if tip < outer {
			p += n * width // slot tip walls still burning
		}
	}
	return p
}

func (f *Finocyl) faceArea(web float64) float64 {
	core, tip, outer, width := f.geometry(web)
	if core >= outer {
		return 0
	}

	ring := math.Pi * (outer*outer - core*core)
	slots := float64(f.FinCount) * width * (tip - core)
	face := ring - slots
	if face < 0 {
		face = 0
	}
	return face
}

func (f *Finocyl) BurnArea(web float64) float64 {
	if web >= f.WebThickness() {
		return 0
	}
	return f.perimeter(web) * f.Length
}

func (f *Finocyl) Volume(web float64) float64 {
	if web >= f.WebThickness() {
		return 0
	}
	return f.faceArea(web) * f.Length
}
