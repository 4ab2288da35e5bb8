package atmosphere_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/felipebogaertsm/rocket-solver/internal/atmosphere"
)

var _ = Describe("ISA model", func() {
	It("reproduces sea level conditions", func() {
		s := atmosphere.At(0)
		Expect(s.Pressure).To(BeNumerically("~", 101325, 1))
		Expect(s.Temperature).To(BeNumerically("~", 288.15, 0.01))
		Expect(s.Density).To(BeNumerically("~", 1.225, 0.001))
		Expect(s.SpeedOfSound).To(BeNumerically("~", 340.29, 0.1))
	})

	It("matches the tropopause pressure", func() {
		// 11 km geopotential is ~11019 m geometric
		Expect(atmosphere.Pressure(11019)).To(BeNumerically("~", 22632, 30))
	})

	It("decreases pressure and density monotonically with altitude", func() {
		prev := atmosphere.At(0)
		for h := 500.0; h <= 100e3; h += 500 {
			s := atmosphere.At(h)
			Expect(s.Pressure).To(BeNumerically("<", prev.Pressure), "at %.0f m", h)
			Expect(s.Density).To(BeNumerically("<", prev.Density), "at %.0f m", h)
			prev = s
		}
	})

	It("stays positive and finite above the modeled ceiling", func() {
		for _, h := range []float64{90e3, 120e3, 400e3} {
			s := atmosphere.At(h)
			Expect(s.Pressure).To(BeNumerically(">", 0), "pressure at %.0f m", h)
			Expect(s.Density).To(BeNumerically(">", 0), "density at %.0f m", h)
			Expect(s.Temperature).To(BeNumerically(">", 0), "temperature at %.0f m", h)
		}
	})

	It("extends the sea level layer below zero altitude", func() {
		s := atmosphere.At(-200)
		Expect(s.Pressure).To(BeNumerically(">", 101325))
		Expect(s.Temperature).To(BeNumerically(">", 288.15))
	})

	It("reduces gravity with altitude", func() {
		Expect(atmosphere.Gravity(0)).To(BeNumerically("~", 9.80665, 1e-9))
		Expect(atmosphere.Gravity(100e3)).To(BeNumerically("<", atmosphere.Gravity(0)))
		Expect(atmosphere.Gravity(100e3)).To(BeNumerically(">", 9.4))
	})
})
