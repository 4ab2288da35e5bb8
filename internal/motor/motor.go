// Package motor couples grain regression, chamber pressure and nozzle flow
// into the internal ballistics of a solid rocket motor.
//
// Chamber pressure follows Seidel's transient formulation: the rate of
// pressure change balances gas generation on the burning surface against
// nozzle discharge, over the instantaneous free volume. An [Operation]
// advances that balance one fixed time step at a time so a flight
// simulation can feed the ambient pressure back in as the vehicle climbs.
package motor

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/grain"
	"github.com/felipebogaertsm/rocket-solver/internal/propellant"
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Motor aggregates the static description of a solid rocket motor.
type Motor struct {
	Propellant *propellant.Propellant
	Grain      *grain.Grain
	Nozzle     Nozzle
	Chamber    Chamber
	DryMass    float64 // structure mass without propellant [kg]
}

// Validate checks the parts against each other: each part must be valid on
// its own and the loaded grain must fit the casing.
func (m *Motor) Validate() error {
	if m.Propellant == nil {
		return srm.Configf("motor.propellant", "required")
	}
	if err := m.Propellant.Validate(); err != nil {
		return err
	}
	if m.Grain == nil {
		return srm.Configf("motor.grain", "required")
	}
	if err := m.Nozzle.Validate(); err != nil {
		return err
	}
	if err := m.Chamber.Validate(); err != nil {
		return err
	}
	if m.DryMass < 0 {
		return srm.Configf("motor.dry_mass", "must be non-negative, got %g", m.DryMass)
	}
	if m.Grain.Volume() >= m.Chamber.EmptyVolume() {
		return srm.Configf("motor.grain", "propellant volume %g m³ exceeds chamber volume %g m³",
			m.Grain.Volume(), m.Chamber.EmptyVolume())
	}
	return nil
}

// PropellantMass returns the propellant mass still loaded [kg].
func (m *Motor) PropellantMass() float64 {
	return m.Propellant.Density * m.Grain.Volume()
}

// Kn returns the klemmung, burn area over throat area.
func (m *Motor) Kn() float64 {
	return m.Grain.BurnArea() / m.Nozzle.ThroatArea()
}

// CStar returns the characteristic velocity [m/s].
func (m *Motor) CStar() float64 {
	k := m.Propellant.SpecificHeatRatio
	gamma := math.Sqrt(k) * math.Pow(2/(k+1), (k+1)/(2*(k-1)))
	return math.Sqrt(m.Propellant.GasConstant*m.Propellant.CombustionTemp) / gamma
}

// dischargeParameter returns Seidel's nozzle discharge parameter H for the
// given ambient to chamber pressure ratio. Choked flow uses the critical
// value; below the critical pressure ratio the discharge follows the
// subsonic expansion branch.
func dischargeParameter(k, chamberPressure, ambientPressure float64) float64 {
	critical := math.Pow(2/(k+1), k/(k-1))
	pr := ambientPressure / chamberPressure
	if pr <= critical {
		return math.Sqrt(k/(k+1)) * math.Pow(2/(k+1), 1/(k-1))
	}
	return math.Pow(pr, 1/k) * math.Sqrt(k/(k-1)*(1-math.Pow(pr, (k-1)/k)))
}

// Sample is the state of the motor at the end of one operation step.
type Sample struct {
	Time           float64
	Pressure       float64 // chamber stagnation pressure [Pa]
	Thrust         float64 // [N]
	ThrustCoeff    float64
	BurnRate       float64 // [m/s]
	BurnArea       float64 // [m²]
	Kn             float64
	PropellantMass float64 // [kg]
	PropellantVol  float64 // [m³]
	MassFlow       float64 // nozzle discharge [kg/s]
	ExitPressure   float64 // [Pa]
	FlowSeparated  bool    // thrust coefficient clamped at zero
	GrainBurnedOut bool
	ThrustEnded    bool
}

// Operation advances a motor burn one fixed step at a time.
type Operation struct {
	motor *Motor
	integ srm.Integrator

	time        float64
	pressure    srm.State
	expelled    float64
	burnoutTime float64
	thrustEnded bool

	scratch srm.State
}

// maxPressure aborts runs where the pressure integration diverges instead of
// letting NaNs propagate into the flight solution.
const maxPressure = 1e9

// NewOperation starts a motor burn at the igniter's pressurization level.
// The integrator advances the chamber pressure equation each step.
func NewOperation(m *Motor, integ srm.Integrator, igniterPressure float64) (*Operation, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if igniterPressure <= 0 {
		return nil, srm.Configf("igniter_pressure", "must be positive, got %g", igniterPressure)
	}
	return &Operation{
		motor:    m,
		integ:    integ,
		pressure: srm.State{igniterPressure},
	}, nil
}

// Done reports whether the burn has ended: propellant consumed and chamber
// pressure decayed back to ambient.
func (op *Operation) Done() bool { return op.thrustEnded }

// BurnoutTime returns the instant the grain was fully consumed, zero until
// then.
func (op *Operation) BurnoutTime() float64 { return op.burnoutTime }

// ExpelledMass returns the cumulative mass discharged through the nozzle
// [kg].
func (op *Operation) ExpelledMass() float64 { return op.expelled }

// Step advances the burn by dt at the given ambient pressure and returns
// the motor state at the end of the step. Once Done, further steps return
// an inert sample.
func (op *Operation) Step(dt, ambientPressure float64) (Sample, error) {
	m := op.motor
	op.time += dt

	if op.thrustEnded {
		return Sample{
			Time:           op.time,
			Pressure:       ambientPressure,
			GrainBurnedOut: true,
			ThrustEnded:    true,
		}, nil
	}

	p := op.pressure[0]

	rate := 0.0
	if !m.Grain.BurntOut() {
		r, err := m.Propellant.BurnRate(p)
		if err != nil {
			return Sample{}, err
		}
		rate = r
		m.Grain.Regress(rate * dt)
	}

	// Burn area, free volume and burn rate are held over the step; only the
	// pressure itself varies through the integrator stages.
	burnArea := m.Grain.BurnArea()
	propVol := m.Grain.Volume()
	freeVol := m.Chamber.FreeVolume(propVol)
	k := m.Propellant.SpecificHeatRatio
	R := m.Propellant.GasConstant
	T0 := m.Propellant.CombustionTemp
	At := m.Nozzle.ThroatArea()
	rho := m.Propellant.Density

	deriv := func(x srm.State, _ float64) srm.State {
		p0 := x[0]
		if p0 < ambientPressure {
			p0 = ambientPressure
		}
		h := dischargeParameter(k, p0, ambientPressure)
		d := (R*T0*burnArea*rho*rate - p0*At*h*math.Sqrt(2*R*T0)) / freeVol
		if op.scratch == nil {
			op.scratch = make(srm.State, 1)
		}
		op.scratch[0] = d
		return op.scratch
	}

	op.pressure = op.integ.Step(deriv, op.pressure, op.time-dt, dt)
	p = op.pressure[0]

	if math.IsNaN(p) || math.IsInf(p, 0) || p > maxPressure {
		return Sample{}, &srm.InstabilityError{
			Time:     op.time,
			Step:     dt,
			Quantity: "chamber pressure",
		}
	}
	if p < ambientPressure {
		p = ambientPressure
		op.pressure[0] = p
	}

	h := dischargeParameter(k, p, ambientPressure)
	massFlow := p * At * h * math.Sqrt(2*R*T0) / (R * T0)
	op.expelled += massFlow * dt

	if m.Grain.BurntOut() && op.burnoutTime == 0 {
		op.burnoutTime = op.time
	}

	kex := m.Propellant.ExhaustHeatRatio
	cf, separated := m.Nozzle.ThrustCoefficient(kex, p, ambientPressure)
	cf *= m.Propellant.CombustionEfficiency
	thrust := cf * p * At

	// Thrust tails off once the propellant is gone and the chamber has
	// blown down to ambient.
	if m.Grain.BurntOut() && p <= ambientPressure*(1+pressureTailTolerance) {
		op.thrustEnded = true
		thrust = 0
		cf = 0
		massFlow = 0
	}

	return Sample{
		Time:           op.time,
		Pressure:       p,
		Thrust:         thrust,
		ThrustCoeff:    cf,
		BurnRate:       rate,
		BurnArea:       burnArea,
		Kn:             burnArea / At,
		PropellantMass: rho * propVol,
		PropellantVol:  propVol,
		MassFlow:       massFlow,
		ExitPressure:   m.Nozzle.ExitPressure(kex, p),
		FlowSeparated:  separated,
		GrainBurnedOut: m.Grain.BurntOut(),
		ThrustEnded:    op.thrustEnded,
	}, nil
}

// pressureTailTolerance ends the blowdown once chamber pressure is within
// this fraction of ambient.
const pressureTailTolerance = 1e-3
