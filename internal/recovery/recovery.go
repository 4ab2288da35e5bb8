// Package recovery models a two-stage parachute recovery system as a small
// state machine driven by the flight solution.
//
// The drogue deploys at apogee, or once the vehicle is descending after a
// fallback delay past motor burnout if apogee detection never fires. The
// main deploys once the
// vehicle descends through its altitude threshold. Impact without
// deployment is a valid outcome, not an error.
package recovery

import (
	"math"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// Stage is the recovery deployment state.
type Stage int

const (
	StageArmed Stage = iota
	StageDrogue
	StageMain
	StageLanded
)

func (s Stage) String() string {
	switch s {
	case StageArmed:
		return "armed"
	case StageDrogue:
		return "drogue"
	case StageMain:
		return "main"
	case StageLanded:
		return "landed"
	default:
		return "unknown"
	}
}

// Chute is one parachute.
type Chute struct {
	DragCoefficient float64 `yaml:"drag_coefficient"`
	Diameter        float64 `yaml:"diameter"` // deployed canopy diameter [m]
}

// DragArea returns the chute's Cd*A product [m²].
func (c *Chute) DragArea() float64 {
	return c.DragCoefficient * math.Pi / 4 * c.Diameter * c.Diameter
}

func (c *Chute) validate(field string) error {
	if c.DragCoefficient <= 0 {
		return srm.Configf(field+".drag_coefficient", "must be positive, got %g", c.DragCoefficient)
	}
	if c.Diameter <= 0 {
		return srm.Configf(field+".diameter", "must be positive, got %g", c.Diameter)
	}
	return nil
}

// Event records one stage transition.
type Event struct {
	Time     float64
	Altitude float64
	Stage    Stage
}

// System is the recovery configuration plus its deployment state.
type System struct {
	Drogue        Chute   `yaml:"drogue"`
	Main          Chute   `yaml:"main"`
	MainAltitude  float64 `yaml:"main_altitude"`  // deploy main below this AGL [m]
	FallbackDelay float64 `yaml:"fallback_delay"` // drogue timer past burnout if apogee is missed [s]

	stage  Stage
	events []Event
}

func (s *System) Validate() error {
	if err := s.Drogue.validate("recovery.drogue"); err != nil {
		return err
	}
	if err := s.Main.validate("recovery.main"); err != nil {
		return err
	}
	if s.MainAltitude <= 0 {
		return srm.Configf("recovery.main_altitude", "must be positive, got %g", s.MainAltitude)
	}
	if s.FallbackDelay < 0 {
		return srm.Configf("recovery.fallback_delay", "must be non-negative, got %g", s.FallbackDelay)
	}
	return nil
}

// Stage returns the current deployment stage.
func (s *System) Stage() Stage { return s.stage }

// Events returns the transition log in order.
func (s *System) Events() []Event { return s.events }

// DragArea returns the Cd*A of the currently deployed devices [m²]. The
// main replaces the drogue rather than adding to it.
func (s *System) DragArea() float64 {
	switch s.stage {
	case StageDrogue:
		return s.Drogue.DragArea()
	case StageMain:
		return s.Main.DragArea()
	default:
		return 0
	}
}

// Update advances the state machine. apogee reports whether the flight
// solution has detected apogee; burnoutTime is zero until motor burnout.
func (s *System) Update(t, altitude, velocity float64, apogee bool, burnoutTime float64) {
	switch s.stage {
	case StageArmed:
		// The timer alone is not enough: deploying into an ascending
		// airstream would strip the drogue, so the fallback waits for
		// the vehicle to come over the top on its own.
		fallback := velocity < 0 && burnoutTime > 0 && s.FallbackDelay > 0 &&
			t >= burnoutTime+s.FallbackDelay
		if apogee || fallback {
			s.transition(t, altitude, StageDrogue)
		}
	case StageDrogue:
		if velocity < 0 && altitude <= s.MainAltitude {
			s.transition(t, altitude, StageMain)
		}
	}
}

// Land marks the system landed at touchdown.
func (s *System) Land(t float64) {
	if s.stage != StageLanded {
		s.transition(t, 0, StageLanded)
	}
}

func (s *System) transition(t, altitude float64, to Stage) {
	s.stage = to
	s.events = append(s.events, Event{Time: t, Altitude: altitude, Stage: to})
}
