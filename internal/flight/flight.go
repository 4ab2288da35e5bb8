// Package flight integrates the one-dimensional vertical trajectory of a
// rocket through a sequence of flight phases.
package flight

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/atmosphere"
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Phase is the flight phase state machine.
type Phase int

const (
	PhaseOnPad Phase = iota
	PhasePowered
	PhaseCoast
	PhaseDescent
	PhaseLanded
)

func (p Phase) String() string {
	switch p {
	case PhaseOnPad:
		return "on-pad"
	case PhasePowered:
		return "powered-ascent"
	case PhaseCoast:
		return "coast"
	case PhaseDescent:
		return "descent"
	case PhaseLanded:
		return "landed"
	default:
		return "unknown"
	}
}

// Vehicle is the airframe without the motor.
type Vehicle struct {
	MassWithoutMotor float64 `yaml:"mass_without_motor"` // [kg]
	DragCoefficient  float64 `yaml:"drag_coefficient"`
	Diameter         float64 `yaml:"diameter"` // reference diameter [m]
}

func (v *Vehicle) Validate() error {
	if v.MassWithoutMotor <= 0 {
		return srm.Configf("vehicle.mass_without_motor", "must be positive, got %g", v.MassWithoutMotor)
	}
	if v.DragCoefficient <= 0 {
		return srm.Configf("vehicle.drag_coefficient", "must be positive, got %g", v.DragCoefficient)
	}
	if v.Diameter <= 0 {
		return srm.Configf("vehicle.diameter", "must be positive, got %g", v.Diameter)
	}
	return nil
}

// ReferenceArea returns the frontal reference area [m²].
func (v *Vehicle) ReferenceArea() float64 {
	return math.Pi / 4 * v.Diameter * v.Diameter
}

// Sample is the trajectory state at the end of one step.
type Sample struct {
	Time            float64
	Altitude        float64 // above ground level [m]
	Velocity        float64 // positive up [m/s]
	Acceleration    float64 // [m/s²]
	Mach            float64
	Mass            float64 // total vehicle mass [kg]
	Phase           Phase
	AmbientPressure float64 // [Pa]
}

// Operation advances the vertical trajectory one fixed step at a time. The
// caller supplies per-step thrust and propellant mass from the motor
// solution, and any extra drag area contributed by deployed recovery
// devices.
type Operation struct {
	vehicle      Vehicle
	motorDryMass float64
	elevation    float64 // launch site elevation AMSL [m]
	railLength   float64
	integ        srm.Integrator

	time  float64
	state srm.State // {altitude AGL, velocity}
	phase Phase

	apogeeSeen   bool
	apogeeTime   float64
	apogeeAlt    float64
	railExited   bool
	railExitVel  float64
	landingTime  float64
	landingSpeed float64

	scratch srm.State
}

// NewOperation places the vehicle on the pad at the given site elevation.
func NewOperation(v Vehicle, motorDryMass, elevation, railLength float64, integ srm.Integrator) (*Operation, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if motorDryMass < 0 {
		return nil, srm.Configf("motor_dry_mass", "must be non-negative, got %g", motorDryMass)
	}
	if railLength < 0 {
		return nil, srm.Configf("rail_length", "must be non-negative, got %g", railLength)
	}
	return &Operation{
		vehicle:      v,
		motorDryMass: motorDryMass,
		elevation:    elevation,
		railLength:   railLength,
		integ:        integ,
		state:        srm.State{0, 0},
	}, nil
}

// Phase returns the current flight phase.
func (op *Operation) Phase() Phase { return op.phase }

// Landed reports whether the vehicle has returned to the ground.
func (op *Operation) Landed() bool { return op.phase == PhaseLanded }

// Altitude returns the current altitude above ground level [m].
func (op *Operation) Altitude() float64 { return op.state[0] }

// Velocity returns the current vertical velocity, positive up [m/s].
func (op *Operation) Velocity() float64 { return op.state[1] }

// AmbientPressure returns the atmospheric pressure at the vehicle's current
// altitude [Pa], for feeding back into the motor solution.
func (op *Operation) AmbientPressure() float64 {
	return atmosphere.Pressure(op.elevation + op.state[0])
}

// Apogee returns the apogee altitude and time, valid once ApogeeReached.
func (op *Operation) Apogee() (altitude, time float64) { return op.apogeeAlt, op.apogeeTime }

// ApogeeReached reports whether apogee has been detected.
func (op *Operation) ApogeeReached() bool { return op.apogeeSeen }

// RailExitVelocity returns the speed at rail departure [m/s], zero until the
// vehicle clears the rail.
func (op *Operation) RailExitVelocity() float64 { return op.railExitVel }

// Landing returns the touchdown time and impact speed, valid once Landed.
func (op *Operation) Landing() (time, speed float64) { return op.landingTime, op.landingSpeed }

// Step advances the trajectory by dt. extraDragArea is the Cd*A sum of any
// deployed recovery devices [m²], added to the airframe drag.
func (op *Operation) Step(dt, propellantMass, thrust, extraDragArea float64) (Sample, error) {
	op.time += dt
	mass := op.vehicle.MassWithoutMotor + op.motorDryMass + propellantMass

	if op.phase == PhaseLanded {
		return op.sample(mass, 0), nil
	}

	amb := atmosphere.At(op.elevation + op.state[0])
	g := atmosphere.Gravity(op.elevation + op.state[0])

	// Rail hold-down: the vehicle stays put until thrust beats weight.
	if op.phase == PhaseOnPad {
		if thrust <= mass*g {
			return op.sample(mass, 0), nil
		}
		op.phase = PhasePowered
	}

	cdA := op.vehicle.DragCoefficient*op.vehicle.ReferenceArea() + extraDragArea
	dragTerm := 0.5 * amb.Density * cdA

	deriv := func(x srm.State, _ float64) srm.State {
		v := x[1]
		sign := 1.0
		if v < 0 {
			sign = -1
		}
		if op.scratch == nil {
			op.scratch = make(srm.State, 2)
		}
		op.scratch[0] = v
		op.scratch[1] = (thrust-sign*dragTerm*v*v)/mass - g
		return op.scratch
	}

	op.state = op.integ.Step(deriv, op.state, op.time-dt, dt)
	y, v := op.state[0], op.state[1]

	if math.IsNaN(y) || math.IsInf(y, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
		return Sample{}, &srm.InstabilityError{Time: op.time, Step: dt, Quantity: "trajectory"}
	}

	if !op.railExited && y >= op.railLength {
		op.railExited = true
		op.railExitVel = v
	}

	if op.phase == PhasePowered && thrust == 0 {
		op.phase = PhaseCoast
	}
	// Thrust can end and apogee occur within the same step.
	if op.phase == PhaseCoast && v <= 0 && !op.apogeeSeen {
		op.apogeeSeen = true
		op.apogeeTime = op.time
		op.apogeeAlt = y
		op.phase = PhaseDescent
	}

	if op.phase == PhaseDescent && y <= 0 {
		op.state[0] = 0
		op.landingTime = op.time
		op.landingSpeed = math.Abs(v)
		op.state[1] = 0
		op.phase = PhaseLanded
	}

	accel := (thrust-0.5*amb.Density*cdA*v*v*signOf(v))/mass - g
	if op.phase == PhaseLanded {
		accel = 0
	}

	s := op.sample(mass, accel)
	return s, nil
}

func (op *Operation) sample(mass, accel float64) Sample {
	amb := atmosphere.At(op.elevation + op.state[0])
	mach := 0.0
	if amb.SpeedOfSound > 0 {
		mach = math.Abs(op.state[1]) / amb.SpeedOfSound
	}
	return Sample{
		Time:            op.time,
		Altitude:        op.state[0],
		Velocity:        op.state[1],
		Acceleration:    accel,
		Mach:            mach,
		Mass:            mass,
		Phase:           op.phase,
		AmbientPressure: amb.Pressure,
	}
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
