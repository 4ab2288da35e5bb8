// Package sim couples the motor, trajectory and recovery solutions into one
// fixed-step simulation run.
package sim

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/felipebogaertsm/rocket-solver/internal/atmosphere"
	"github.com/felipebogaertsm/rocket-solver/internal/flight"
	"github.com/felipebogaertsm/rocket-solver/internal/integrators"
	"github.com/felipebogaertsm/rocket-solver/internal/motor"
	"github.com/felipebogaertsm/rocket-solver/internal/recovery"
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Params are the numerical settings of a run.
type Params struct {
	TimeStep        float64 `yaml:"time_step"`        // [s]
	StepStretch     float64 `yaml:"step_stretch"`     // step multiplier after thrust end
	MaxTime         float64 `yaml:"max_time"`         // hard stop [s]
	IgniterPressure float64 `yaml:"igniter_pressure"` // [Pa]
	RailLength      float64 `yaml:"rail_length"`      // [m]
	Elevation       float64 `yaml:"elevation"`        // launch site AMSL [m]
	Integrator      string  `yaml:"integrator"`       // "euler" or "rk4"
}

func (p *Params) Validate() error {
	if p.TimeStep <= 0 {
		return srm.Configf("params.time_step", "must be positive, got %g", p.TimeStep)
	}
	if p.StepStretch < 1 {
		return srm.Configf("params.step_stretch", "must be at least 1, got %g", p.StepStretch)
	}
	if p.MaxTime <= 0 {
		return srm.Configf("params.max_time", "must be positive, got %g", p.MaxTime)
	}
	if p.IgniterPressure <= 0 {
		return srm.Configf("params.igniter_pressure", "must be positive, got %g", p.IgniterPressure)
	}
	if p.RailLength < 0 {
		return srm.Configf("params.rail_length", "must be non-negative, got %g", p.RailLength)
	}
	if _, ok := integrators.ByName(p.Integrator); !ok {
		return srm.Configf("params.integrator", "unknown integrator %q", p.Integrator)
	}
	return nil
}

// Scenario is one fully-built simulation case. Motor and recovery carry
// per-run state, so a scenario must not be shared between runs.
type Scenario struct {
	Motor    *motor.Motor
	Vehicle  flight.Vehicle
	Recovery *recovery.System
	Params   Params
}

// Driver executes a scenario.
type Driver struct {
	sc  *Scenario
	log zerolog.Logger
}

// NewDriver validates the scenario parts against each other.
func NewDriver(sc *Scenario, log zerolog.Logger) (*Driver, error) {
	if err := sc.Params.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Motor.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Recovery.Validate(); err != nil {
		return nil, err
	}
	return &Driver{sc: sc, log: log}, nil
}

// Run executes the coupled loop until touchdown, the time limit or
// cancellation. Each step the motor sees the ambient pressure at the
// vehicle's current altitude, then the trajectory advances under the
// resulting thrust and the recovery system's drag. After the thrust ends
// the step is stretched for the remaining flight.
//
// An unstable integration returns the partial result alongside the error.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	p := d.sc.Params

	motorInteg, _ := integrators.ByName(p.Integrator)
	flightInteg, _ := integrators.ByName(p.Integrator)

	motorOp, err := motor.NewOperation(d.sc.Motor, motorInteg, p.IgniterPressure)
	if err != nil {
		return nil, err
	}
	flightOp, err := flight.NewOperation(d.sc.Vehicle, d.sc.Motor.DryMass, p.Elevation, p.RailLength, flightInteg)
	if err != nil {
		return nil, err
	}

	res := &Result{Summary: Summary{PropellantMass: d.sc.Motor.PropellantMass()}}

	d.log.Info().
		Float64("time_step", p.TimeStep).
		Float64("propellant_mass", res.Summary.PropellantMass).
		Str("integrator", p.Integrator).
		Msg("run started")

	var (
		t             float64
		liftoff       bool
		railExit      bool
		apogeeLogged  bool
		burnoutLogged bool
		separated     bool
		thrustEndTime float64
		lastBurnArea  float64
		firstBurnArea float64
	)

	for t < p.MaxTime && !flightOp.Landed() {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		dt := p.TimeStep
		var mp motorPoint
		if !motorOp.Done() {
			ambient := flightOp.AmbientPressure()
			ms, err := motorOp.Step(dt, ambient)
			if err != nil {
				d.log.Error().Err(err).Float64("t", t).Msg("motor solution diverged")
				return res, err
			}
			mp = motorPoint{
				pressure:       ms.Pressure,
				thrust:         ms.Thrust,
				propellantMass: ms.PropellantMass,
				kn:             ms.Kn,
			}
			if firstBurnArea == 0 && ms.BurnArea > 0 {
				firstBurnArea = ms.BurnArea
			}
			if ms.BurnArea > 0 {
				lastBurnArea = ms.BurnArea
			}
			if ms.FlowSeparated && !separated {
				separated = true
				res.event(t+dt, EventFlowSeparated, "thrust coefficient clamped to zero")
				d.log.Warn().Float64("t", t+dt).Msg("nozzle flow separation, thrust coefficient clamped")
			}
			if ms.GrainBurnedOut && !burnoutLogged {
				burnoutLogged = true
				res.event(motorOp.BurnoutTime(), EventBurnout, "")
				d.log.Info().Float64("t", motorOp.BurnoutTime()).Msg("grain burned out")
			}
			if ms.ThrustEnded && thrustEndTime == 0 {
				thrustEndTime = t + dt
				res.event(thrustEndTime, EventThrustEnd, "")
			}
		} else {
			// Motor is spent: stretch the step for the long coast and
			// descent.
			dt = p.TimeStep * p.StepStretch
			mp = motorPoint{pressure: flightOp.AmbientPressure()}
		}

		d.sc.Recovery.Update(t, flightOp.Altitude(), flightOp.Velocity(), flightOp.ApogeeReached(), motorOp.BurnoutTime())
		logRecovery(d, res, t)

		fs, err := flightOp.Step(dt, mp.propellantMass, mp.thrust, d.sc.Recovery.DragArea())
		if err != nil {
			d.log.Error().Err(err).Float64("t", t).Msg("trajectory diverged")
			return res, err
		}
		t = fs.Time

		if !liftoff && fs.Phase != flight.PhaseOnPad {
			liftoff = true
			res.event(t, EventLiftoff, "")
			d.log.Info().Float64("t", t).Msg("liftoff")
		}
		if !railExit && flightOp.RailExitVelocity() > 0 {
			railExit = true
			res.Summary.RailExitVelocity = flightOp.RailExitVelocity()
			res.event(t, EventRailExit, "")
		}
		if !apogeeLogged && flightOp.ApogeeReached() {
			apogeeLogged = true
			alt, at := flightOp.Apogee()
			res.Summary.Apogee = alt
			res.Summary.ApogeeTime = at
			res.event(at, EventApogee, "")
			d.log.Info().Float64("t", at).Float64("altitude", alt).Msg("apogee")
		}

		res.append(t, mp, fs)
		accumulate(&res.Summary, mp, fs, dt)
	}

	if !flightOp.Landed() {
		d.log.Warn().Float64("t", t).Msg("time limit reached before touchdown")
	} else {
		landT, landV := flightOp.Landing()
		d.sc.Recovery.Land(landT)
		res.Summary.ImpactVelocity = landV
		res.Summary.FlightTime = landT
		res.event(landT, EventLanding, "")
		d.log.Info().Float64("t", landT).Float64("impact_velocity", landV).Msg("touchdown")
	}

	finishSummary(res, motorOp, firstBurnArea, lastBurnArea, d.sc.Recovery)

	d.log.Info().
		Float64("apogee", res.Summary.Apogee).
		Float64("max_velocity", res.Summary.MaxVelocity).
		Float64("total_impulse", res.Summary.TotalImpulse).
		Msg("run finished")

	return res, nil
}

func logRecovery(d *Driver, res *Result, t float64) {
	events := d.sc.Recovery.Events()
	if len(events) == 0 {
		return
	}
	last := events[len(events)-1]
	switch last.Stage {
	case recovery.StageDrogue:
		if !hasEvent(res, EventDrogueDeploy) {
			res.event(last.Time, EventDrogueDeploy, "")
			d.log.Info().Float64("t", last.Time).Float64("altitude", last.Altitude).Msg("drogue deployed")
		}
	case recovery.StageMain:
		if !hasEvent(res, EventMainDeploy) {
			res.event(last.Time, EventMainDeploy, "")
			d.log.Info().Float64("t", last.Time).Float64("altitude", last.Altitude).Msg("main deployed")
		}
	}
}

func hasEvent(res *Result, kind string) bool {
	for _, e := range res.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func accumulate(s *Summary, mp motorPoint, fs flight.Sample, dt float64) {
	if mp.pressure > s.MaxPressure {
		s.MaxPressure = mp.pressure
	}
	if mp.thrust > s.MaxThrust {
		s.MaxThrust = mp.thrust
	}
	if fs.Velocity > s.MaxVelocity {
		s.MaxVelocity = fs.Velocity
	}
	if fs.Mach > s.MaxMach {
		s.MaxMach = fs.Mach
	}
	if a := math.Abs(fs.Acceleration); a > s.MaxAcceleration {
		s.MaxAcceleration = a
	}
	s.TotalImpulse += mp.thrust * dt
	if mp.thrust > 0 {
		s.ThrustTime += dt
	}
}

func finishSummary(res *Result, motorOp *motor.Operation, firstBurnArea, lastBurnArea float64, rec *recovery.System) {
	s := &res.Summary
	s.BurnTime = motorOp.BurnoutTime()
	if s.ThrustTime > 0 {
		s.MeanThrust = s.TotalImpulse / s.ThrustTime
	}
	if s.PropellantMass > 0 {
		s.SpecificImpulse = s.TotalImpulse / (s.PropellantMass * atmosphere.Gravity0)
	}
	s.BurnProfile = burnProfile(firstBurnArea, lastBurnArea)
	s.LandedStage = rec.Stage().String()
}
