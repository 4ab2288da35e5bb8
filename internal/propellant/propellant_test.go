package propellant

import (
	"errors"
	"math"
	"testing"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

func TestPresetsValidate(t *testing.T) {
	for _, name := range Names() {
		p, ok := ByName(name)
		if !ok {
			t.Fatalf("preset %s disappeared", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s failed validation: %v", name, err)
		}
	}
}

func TestBurnRateNonNegative(t *testing.T) {
	p, _ := ByName("knsb")

	for _, pressure := range []float64{0, 101325, 0.5e6, 2e6, 7e6, 15e6} {
		r, err := p.BurnRate(pressure)
		if err != nil {
			t.Fatalf("BurnRate(%g): %v", pressure, err)
		}
		if r < 0 {
			t.Errorf("BurnRate(%g) = %g, want >= 0", pressure, r)
		}
	}
}

func TestBurnRateWindowSelection(t *testing.T) {
	p := Propellant{
		Name: "test", Density: 1700, SpecificHeatRatio: 1.13, ExhaustHeatRatio: 1.13,
		CombustionTemp: 1600, GasConstant: 200, CombustionEfficiency: 1,
		Rate: []RateWindow{
			{MinPressure: 0.1e6, MaxPressure: 1e6, A: 10, N: 0.5},
			{MinPressure: 1e6, MaxPressure: 10e6, A: 5, N: 0.2},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}

	// inside first window: 10 * 0.25^0.5 mm/s = 5 mm/s
	r, err := p.BurnRate(0.25e6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r-5e-3) > 1e-9 {
		t.Errorf("first window rate = %g, want 5e-3", r)
	}

	// inside second window: 5 * 4^0.2 mm/s
	r, err = p.BurnRate(4e6)
	if err != nil {
		t.Fatal(err)
	}
	want := 5 * math.Pow(4, 0.2) / 1e3
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("second window rate = %g, want %g", r, want)
	}

	// above the last window: clamped to last window coefficients
	r, err = p.BurnRate(20e6)
	if err != nil {
		t.Fatal(err)
	}
	want = 5 * math.Pow(20, 0.2) / 1e3
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("clamped rate = %g, want %g", r, want)
	}
}

func TestBurnRateNegativePressure(t *testing.T) {
	p, _ := ByName("knsu")
	_, err := p.BurnRate(-1)
	if err == nil {
		t.Fatal("expected error for negative pressure")
	}
	if !errors.Is(err, srm.ErrConfig) {
		t.Errorf("error should map to ErrConfig, got %v", err)
	}
}

func TestValidateRejectsNonPhysical(t *testing.T) {
	base := func() Propellant {
		p, _ := ByName("knsb")
		return p
	}

	tests := []struct {
		name   string
		mutate func(*Propellant)
	}{
		{"zero density", func(p *Propellant) { p.Density = 0 }},
		{"heat ratio below 1", func(p *Propellant) { p.SpecificHeatRatio = 0.9 }},
		{"zero flame temp", func(p *Propellant) { p.CombustionTemp = 0 }},
		{"zero gas constant", func(p *Propellant) { p.GasConstant = 0 }},
		{"efficiency above 1", func(p *Propellant) { p.CombustionEfficiency = 1.2 }},
		{"no rate windows", func(p *Propellant) { p.Rate = nil }},
		{"negative exponent", func(p *Propellant) { p.Rate[0].N = -0.3 }},
		{"exponent above 1", func(p *Propellant) { p.Rate[0].N = 1.4 }},
		{"zero coefficient", func(p *Propellant) { p.Rate[0].A = 0 }},
		{"empty window", func(p *Propellant) { p.Rate[0].MaxPressure = p.Rate[0].MinPressure }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, srm.ErrConfig) {
				t.Errorf("error should map to ErrConfig, got %v", err)
			}
		})
	}
}
