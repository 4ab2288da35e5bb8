package motor

import (
	"math"
	"testing"

	"github.com/felipebogaertsm/rocket-solver/internal/grain"
	"github.com/felipebogaertsm/rocket-solver/internal/integrators"
	"github.com/felipebogaertsm/rocket-solver/internal/propellant"
)

const seaLevel = 101325.0

func testMotor(t *testing.T) *Motor {
	t.Helper()

	prop, ok := propellant.ByName("knsb")
	if !ok {
		t.Fatal("knsb preset missing")
	}
	g, err := grain.New(&grain.Bates{
		OuterDiameter: 0.117,
		CoreDiameter:  0.045,
		Length:        0.200,
		Spacing:       0.010,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Motor{
		Propellant: &prop,
		Grain:      g,
		Nozzle: Nozzle{
			ThroatDiameter: 0.012,
			ExpansionRatio: 8,
			DivergentAngle: 12,
			Efficiency:     1,
		},
		Chamber: Chamber{InnerDiameter: 0.127, Length: 0.500},
		DryMass: 19,
	}
}

func TestExitMachKnownAreaRatio(t *testing.T) {
	// For k=1.4 the area-Mach relation gives A/At = 1.6875 exactly at M=2.
	n := Nozzle{ThroatDiameter: 0.01, ExpansionRatio: 1.6875, Efficiency: 1}
	m := n.ExitMach(1.4)
	if math.Abs(m-2) > 1e-6 {
		t.Errorf("exit Mach = %g, want 2", m)
	}
}

func TestExitPressureMatchesOptimalExpansion(t *testing.T) {
	const (
		k  = 1.2
		p0 = 5e6
	)
	eps := OptimalExpansionRatio(k, p0, seaLevel)
	if eps <= 1 {
		t.Fatalf("optimal expansion ratio = %g, want > 1", eps)
	}
	n := Nozzle{ThroatDiameter: 0.01, ExpansionRatio: eps, Efficiency: 1}
	pe := n.ExitPressure(k, p0)
	if math.Abs(pe-seaLevel)/seaLevel > 1e-4 {
		t.Errorf("exit pressure at optimal expansion = %g, want %g", pe, seaLevel)
	}
}

func TestOptimalExpansionUnchoked(t *testing.T) {
	if eps := OptimalExpansionRatio(1.2, 1.1*seaLevel, seaLevel); eps != 1 {
		t.Errorf("unchoked expansion ratio = %g, want 1", eps)
	}
}

func TestThrustCoefficientMatchedExpansion(t *testing.T) {
	// With the exit expanded exactly to ambient, no divergence loss and unit
	// efficiency, the coefficient reduces to the ideal momentum-only form.
	const (
		k  = 1.2
		p0 = 5e6
	)
	eps := OptimalExpansionRatio(k, p0, seaLevel)
	n := Nozzle{ThroatDiameter: 0.01, ExpansionRatio: eps, DivergentAngle: 0, Efficiency: 1}

	cf, separated := n.ThrustCoefficient(k, p0, seaLevel)
	if separated {
		t.Fatal("matched expansion reported separated flow")
	}

	pr := seaLevel / p0
	want := math.Sqrt(2 * k * k / (k - 1) *
		math.Pow(2/(k+1), (k+1)/(k-1)) *
		(1 - math.Pow(pr, (k-1)/k)))
	if math.Abs(cf-want) > 1e-4 {
		t.Errorf("cf = %g, want %g", cf, want)
	}
}

func TestThrustCoefficientClampsWhenInfeasible(t *testing.T) {
	// Low chamber pressure through a large expansion at sea level drives the
	// ideal coefficient negative.
	n := Nozzle{ThroatDiameter: 0.01, ExpansionRatio: 40, DivergentAngle: 12, Efficiency: 0.9}
	cf, separated := n.ThrustCoefficient(1.2, 1.5*seaLevel, seaLevel)
	if !separated {
		t.Error("expected separated flow report")
	}
	if cf != 0 {
		t.Errorf("cf = %g, want 0", cf)
	}
}

func TestDivergenceFactor(t *testing.T) {
	n := Nozzle{DivergentAngle: 0}
	if f := n.DivergenceFactor(); math.Abs(f-1) > 1e-12 {
		t.Errorf("factor at 0 deg = %g, want 1", f)
	}
	n.DivergentAngle = 60
	if f := n.DivergenceFactor(); math.Abs(f-0.75) > 1e-12 {
		t.Errorf("factor at 60 deg = %g, want 0.75", f)
	}
}

func runBurn(t *testing.T, m *Motor) []Sample {
	t.Helper()

	op, err := NewOperation(m, integrators.NewRK4(), 1.5e6)
	if err != nil {
		t.Fatal(err)
	}

	const dt = 1e-3
	var samples []Sample
	for i := 0; i < 20000 && !op.Done(); i++ {
		s, err := op.Step(dt, seaLevel)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		samples = append(samples, s)
	}
	if !op.Done() {
		t.Fatal("burn did not complete within 20 s")
	}
	return samples
}

func TestOperationFullBurn(t *testing.T) {
	m := testMotor(t)
	samples := runBurn(t, m)

	var maxP, maxF float64
	for _, s := range samples {
		if s.Pressure < seaLevel {
			t.Fatalf("pressure %g below ambient at t=%g", s.Pressure, s.Time)
		}
		if s.Pressure > maxP {
			maxP = s.Pressure
		}
		if s.Thrust > maxF {
			maxF = s.Thrust
		}
	}

	if maxP < 2e6 || maxP > 2e7 {
		t.Errorf("peak pressure = %g Pa, outside plausible range", maxP)
	}
	if maxF <= 0 {
		t.Error("motor produced no thrust")
	}

	last := samples[len(samples)-1]
	if !last.GrainBurnedOut {
		t.Error("grain not burned out at end of thrust")
	}
	if !last.ThrustEnded || last.Thrust != 0 {
		t.Errorf("thrust did not end cleanly: %+v", last)
	}
	if last.PropellantMass > 1e-9 {
		t.Errorf("propellant mass %g remaining after burnout", last.PropellantMass)
	}
}

func TestOperationConservesMass(t *testing.T) {
	m := testMotor(t)
	initialMass := m.PropellantMass()

	op, err := NewOperation(m, integrators.NewRK4(), 1.5e6)
	if err != nil {
		t.Fatal(err)
	}
	const dt = 1e-3
	for i := 0; i < 20000 && !op.Done(); i++ {
		if _, err := op.Step(dt, seaLevel); err != nil {
			t.Fatal(err)
		}
	}
	if !op.Done() {
		t.Fatal("burn did not complete")
	}

	// All generated gas eventually leaves through the nozzle; the discharge
	// integral must recover the loaded propellant mass.
	if rel := math.Abs(op.ExpelledMass()-initialMass) / initialMass; rel > 0.05 {
		t.Errorf("expelled %g kg vs loaded %g kg (rel err %g)", op.ExpelledMass(), initialMass, rel)
	}
}

func TestOperationBurnoutTimeMatchesBurnRate(t *testing.T) {
	seg := &grain.Bates{
		OuterDiameter: 0.117,
		CoreDiameter:  0.045,
		Length:        0.200,
		Spacing:       0.010,
	}
	m := testMotor(t)

	op, err := NewOperation(m, integrators.NewRK4(), 1.5e6)
	if err != nil {
		t.Fatal(err)
	}

	// Mean chamber pressure over the burning portion of the run.
	const dt = 1e-3
	var sumP float64
	var n int
	for i := 0; i < 20000 && !op.Done(); i++ {
		s, err := op.Step(dt, seaLevel)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !s.GrainBurnedOut {
			sumP += s.Pressure
			n++
		}
	}
	burnout := op.BurnoutTime()
	if burnout <= 0 {
		t.Fatal("grain did not burn out")
	}

	// The test grain is nearly neutral, so integrating the rate law at the
	// mean pressure has to land close to web / r(meanP).
	rate, err := m.Propellant.BurnRate(sumP / float64(n))
	if err != nil {
		t.Fatal(err)
	}
	estimate := seg.WebThickness() / rate
	if rel := math.Abs(estimate-burnout) / burnout; rel > 0.02 {
		t.Errorf("burnout at %g s vs mass-balance estimate %g s (rel err %g)", burnout, estimate, rel)
	}
}

func TestOperationDeterministic(t *testing.T) {
	a := runBurn(t, testMotor(t))
	b := runBurn(t, testMotor(t))

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Pressure != b[i].Pressure || a[i].Thrust != b[i].Thrust {
			t.Fatalf("runs diverge at step %d", i)
		}
	}
}

func TestMotorValidateRejectsOversizedGrain(t *testing.T) {
	m := testMotor(t)
	m.Chamber.Length = 0.05
	if err := m.Validate(); err == nil {
		t.Error("expected error for grain larger than chamber")
	}
}

func TestKn(t *testing.T) {
	m := testMotor(t)
	want := m.Grain.BurnArea() / (math.Pi / 4 * 0.012 * 0.012)
	if got := m.Kn(); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("Kn = %g, want %g", got, want)
	}
}
