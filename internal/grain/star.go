package grain

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Star is a segment with a star-shaped port and inhibited ends. The port
// contour is a polygon alternating between the valley circle (ValleyDiameter)
// and the point circle (PointDiameter).
//
// The regressing contour is modeled to first order: while the star points
// burn away, the perimeter blends linearly from the initial polygon to the
// circle the port becomes once the points are consumed; afterwards the port
// is circular. Adequate for motor sizing, not for sliver-accurate design.
type Star struct {
	OuterDiameter  float64 `yaml:"outer_diameter"`  // [m]
	ValleyDiameter float64 `yaml:"valley_diameter"` // port diameter at the valleys [m]
	PointDiameter  float64 `yaml:"point_diameter"`  // port diameter at the points [m]
	Points         int     `yaml:"points"`
	Length         float64 `yaml:"length"` // [m]
}

func (s *Star) Validate() error {
	if s.Points < 3 {
		return srm.Configf("star.points", "need at least 3 points, got %d", s.Points)
	}
	if s.ValleyDiameter <= 0 {
		return srm.Configf("star.valley_diameter", "must be positive, got %g", s.ValleyDiameter)
	}
	if s.PointDiameter <= s.ValleyDiameter {
		return srm.Configf("star.point_diameter", "points %g must extend beyond the valleys %g", s.PointDiameter, s.ValleyDiameter)
	}
	if s.PointDiameter >= s.OuterDiameter {
		return srm.Configf("star.point_diameter", "points %g must stay inside the outer diameter %g", s.PointDiameter, s.OuterDiameter)
	}
	if s.Length <= 0 {
		return srm.Configf("star.length", "must be positive, got %g", s.Length)
	}
	return nil
}

func (s *Star) WebThickness() float64 {
	return 0.5 * (s.OuterDiameter - s.ValleyDiameter)
}

// pointWeb is the web distance at which the star points are fully consumed
// and the port becomes circular.
func (s *Star) pointWeb() float64 {
	return 0.5 * (s.PointDiameter - s.ValleyDiameter)
}

func (s *Star) perimeter(web float64) float64 {
	w1 := s.pointWeb()
	if web >= w1 {
		return 2 * math.Pi * (0.5*s.ValleyDiameter + web)
	}

	// initial polygon: 2N edges between valley and point vertices
	rv := 0.5 * s.ValleyDiameter
	rp := 0.5 * s.PointDiameter
	half := math.Pi / float64(s.Points)
	edge := math.Sqrt(rv*rv + rp*rp - 2*rv*rp*math.Cos(half))
	p0 := 2 * float64(s.Points) * edge

	// Blend to the circle at the point radius, which is exactly the port
	// contour at web w1.
	f := web / w1
	return (1-f)*p0 + f*2*math.Pi*rp
}

func (s *Star) portArea(web float64) float64 {
	w1 := s.pointWeb()
	if web >= w1 {
		ri := 0.5*s.ValleyDiameter + web
		return math.Pi * ri * ri
	}

	rv := 0.5 * s.ValleyDiameter
	rp := 0.5 * s.PointDiameter
	half := math.Pi / float64(s.Points)
	a0 := float64(s.Points) * rv * rp * math.Sin(half)

	// Blending to the fixed circle area at web w1 keeps the port strictly
	// growing: a0 < pi*rv*rp < pi*rp^2 for any valid star.
	f := web / w1
	return (1-f)*a0 + f*math.Pi*rp*rp
}

func (s *Star) BurnArea(web float64) float64 {
	if web >= s.WebThickness() {
		return 0
	}
	return s.perimeter(web) * s.Length
}

func (s *Star) Volume(web float64) float64 {
	if web >= s.WebThickness() {
		return 0
	}
	r := 0.5 * s.OuterDiameter
	face := math.Pi*r*r - s.portArea(web)
	if face < 0 {
		face = 0
	}
	return face * s.Length
}
