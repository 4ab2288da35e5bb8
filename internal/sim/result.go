package sim

import (
	"github.com/felipebogaertsm/rocket-solver/internal/flight"
)

// Event is a discrete occurrence during a run: a phase transition, a
// recovery deployment or an operating-point warning.
type Event struct {
	Time   float64 `json:"time"`
	Kind   string  `json:"kind"`
	Detail string  `json:"detail,omitempty"`
}

// Event kinds.
const (
	EventLiftoff       = "liftoff"
	EventRailExit      = "rail-exit"
	EventBurnout       = "burnout"
	EventThrustEnd     = "thrust-end"
	EventApogee        = "apogee"
	EventDrogueDeploy  = "drogue-deploy"
	EventMainDeploy    = "main-deploy"
	EventLanding       = "landing"
	EventFlowSeparated = "flow-separation"
)

// Summary is the aggregate figures of one run.
type Summary struct {
	Apogee           float64 `json:"apogee"`             // [m AGL]
	ApogeeTime       float64 `json:"apogee_time"`        // [s]
	MaxVelocity      float64 `json:"max_velocity"`       // [m/s]
	MaxMach          float64 `json:"max_mach"`
	MaxAcceleration  float64 `json:"max_acceleration"`   // [m/s²]
	RailExitVelocity float64 `json:"rail_exit_velocity"` // [m/s]
	MaxPressure      float64 `json:"max_pressure"`       // [Pa]
	MaxThrust        float64 `json:"max_thrust"`         // [N]
	MeanThrust       float64 `json:"mean_thrust"`        // over the thrust phase [N]
	BurnTime         float64 `json:"burn_time"`          // grain consumption [s]
	ThrustTime       float64 `json:"thrust_time"`        // thrust above zero [s]
	TotalImpulse     float64 `json:"total_impulse"`      // [N·s]
	SpecificImpulse  float64 `json:"specific_impulse"`   // [s]
	PropellantMass   float64 `json:"propellant_mass"`    // loaded [kg]
	BurnProfile      string  `json:"burn_profile"`       // progressive / neutral / regressive
	ImpactVelocity   float64 `json:"impact_velocity"`    // [m/s]
	FlightTime       float64 `json:"flight_time"`        // [s]
	LandedStage      string  `json:"landed_stage"`       // recovery stage at touchdown
}

// Result is the full time series and summary of one run. On an unstable
// run the series holds everything up to the failing step.
type Result struct {
	Time           []float64 `json:"time"`
	Pressure       []float64 `json:"pressure"`
	Thrust         []float64 `json:"thrust"`
	PropellantMass []float64 `json:"propellant_mass"`
	Kn             []float64 `json:"kn"`
	Altitude       []float64 `json:"altitude"`
	Velocity       []float64 `json:"velocity"`
	Acceleration   []float64 `json:"acceleration"`
	Mach           []float64 `json:"mach"`
	Phase          []string  `json:"phase"`

	Events  []Event `json:"events"`
	Summary Summary `json:"summary"`
}

func (r *Result) append(t float64, m motorPoint, f flight.Sample) {
	r.Time = append(r.Time, t)
	r.Pressure = append(r.Pressure, m.pressure)
	r.Thrust = append(r.Thrust, m.thrust)
	r.PropellantMass = append(r.PropellantMass, m.propellantMass)
	r.Kn = append(r.Kn, m.kn)
	r.Altitude = append(r.Altitude, f.Altitude)
	r.Velocity = append(r.Velocity, f.Velocity)
	r.Acceleration = append(r.Acceleration, f.Acceleration)
	r.Mach = append(r.Mach, f.Mach)
	r.Phase = append(r.Phase, f.Phase.String())
}

func (r *Result) event(t float64, kind, detail string) {
	r.Events = append(r.Events, Event{Time: t, Kind: kind, Detail: detail})
}

type motorPoint struct {
	pressure       float64
	thrust         float64
	propellantMass float64
	kn             float64
}

// burnProfile classifies the burn by the ratio of initial to final burn
// area, with a 2% neutrality band.
func burnProfile(initial, final float64) string {
	if final <= 0 {
		return "neutral"
	}
	switch ratio := initial / final; {
	case ratio > 1.02:
		return "regressive"
	case ratio < 0.98:
		return "progressive"
	default:
		return "neutral"
	}
}
