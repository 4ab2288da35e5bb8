// Package grain models propellant grain geometry and burn regression.
//
// Each geometry variant implements [Segment]: given the web distance burned
// so far, report the exposed burn area and the propellant volume remaining.
// The [Grain] aggregate owns the per-segment web state and clamps regression
// so a segment can never regress past full consumption in one step.
package grain

import (
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Segment is one propellant grain cross-section.
type Segment interface {
	// BurnArea returns the exposed burning surface [m²] at the given web
	// distance. Zero at and beyond full consumption.
	BurnArea(web float64) float64

	// Volume returns the propellant volume remaining [m³] at the given
	// web distance.
	Volume(web float64) float64

	// WebThickness returns the web distance at which the segment is
	// fully consumed [m].
	WebThickness() float64

	// Validate rejects non-physical dimensions.
	Validate() error
}

// Grain aggregates the segments of a motor and tracks their regression.
type Grain struct {
	segments []Segment
	webs     []float64
	burnt    []bool
}

// New validates every segment and builds the aggregate. A segment with zero
// web thickness is a configuration error, never treated as already burnt out.
func New(segments ...Segment) (*Grain, error) {
	if len(segments) == 0 {
		return nil, srm.Configf("grain.segments", "at least one segment required")
	}
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, err
		}
		if seg.WebThickness() <= 0 {
			return nil, srm.Configf("grain.segments", "segment %d has zero web thickness", i)
		}
	}
	return &Grain{
		segments: segments,
		webs:     make([]float64, len(segments)),
		burnt:    make([]bool, len(segments)),
	}, nil
}

// SegmentCount returns the number of segments.
func (g *Grain) SegmentCount() int { return len(g.segments) }

// Regress advances every live segment by the same web increment and returns
// the updated total burn area. The increment is clamped per segment so no
// segment regresses past its web thickness.
func (g *Grain) Regress(depth float64) float64 {
	for i := range g.segments {
		g.regressSegment(i, depth)
	}
	return g.BurnArea()
}

// RegressEach advances each segment by its own increment, for grains whose
// segments see different local conditions. len(depths) must equal
// SegmentCount.
func (g *Grain) RegressEach(depths []float64) float64 {
	for i := range g.segments {
		g.regressSegment(i, depths[i])
	}
	return g.BurnArea()
}

func (g *Grain) regressSegment(i int, depth float64) {
	if g.burnt[i] || depth <= 0 {
		return
	}
	web := g.webs[i] + depth
	max := g.segments[i].WebThickness()
	if web >= max {
		web = max
		g.burnt[i] = true
	}
	g.webs[i] = web
}

// BurnArea returns the total exposed burn area over all live segments [m²].
func (g *Grain) BurnArea() float64 {
	total := 0.0
	for i, seg := range g.segments {
		if g.burnt[i] {
			continue
		}
		total += seg.BurnArea(g.webs[i])
	}
	return total
}

// Volume returns the total propellant volume remaining [m³].
func (g *Grain) Volume() float64 {
	total := 0.0
	for i, seg := range g.segments {
		if g.burnt[i] {
			continue
		}
		total += seg.Volume(g.webs[i])
	}
	return total
}

// Web returns the web distance consumed by segment i [m].
func (g *Grain) Web(i int) float64 { return g.webs[i] }

// BurntOut reports whether every segment is fully consumed.
func (g *Grain) BurntOut() bool {
	for _, b := range g.burnt {
		if !b {
			return false
		}
	}
	return true
}

// WebRemaining returns the smallest remaining web over live segments [m],
// zero once all segments are consumed.
func (g *Grain) WebRemaining() float64 {
	min := 0.0
	first := true
	for i, seg := range g.segments {
		if g.burnt[i] {
			continue
		}
		rem := seg.WebThickness() - g.webs[i]
		if first || rem < min {
			min = rem
			first = false
		}
	}
	if first {
		return 0
	}
	return min
}
