package config

import (
	"github.com/felipebogaertsm/rocket-solver/internal/flight"
	"github.com/felipebogaertsm/rocket-solver/internal/grain"
	"github.com/felipebogaertsm/rocket-solver/internal/motor"
	"github.com/felipebogaertsm/rocket-solver/internal/recovery"
	"github.com/felipebogaertsm/rocket-solver/internal/sim"
)

// Presets are complete ready-to-run cases.
var Presets = map[string]*Config{
	// O-class motor with seven KNSB BATES segments in a 128 mm casing,
	// flown on a mid-size airframe.
	"olympus": {
		Name: "olympus",
		Motor: MotorConfig{
			Propellant: PropellantConfig{Name: "knsb"},
			Grain: []SegmentConfig{
				{Bates: &grain.Bates{OuterDiameter: 0.117, CoreDiameter: 0.045, Length: 0.200, Spacing: 0.01}, Repeat: 4},
				{Bates: &grain.Bates{OuterDiameter: 0.117, CoreDiameter: 0.060, Length: 0.200, Spacing: 0.01}, Repeat: 3},
			},
			Nozzle: motor.Nozzle{
				ThroatDiameter:  0.037,
				ExpansionRatio:  8,
				DivergentAngle:  12,
				ConvergentAngle: 45,
				Efficiency:      0.95,
			},
			Chamber: motor.Chamber{InnerDiameter: 0.1282, Length: 1.48},
			DryMass: 19,
		},
		Vehicle: flight.Vehicle{
			MassWithoutMotor: 30,
			DragCoefficient:  0.5,
			Diameter:         0.17,
		},
		Recovery: recovery.System{
			Drogue:        recovery.Chute{DragCoefficient: 1.5, Diameter: 0.8},
			Main:          recovery.Chute{DragCoefficient: 2.2, Diameter: 2.5},
			MainAltitude:  500,
			FallbackDelay: 30,
		},
		Params: sim.Params{
			TimeStep:        0.01,
			StepStretch:     10,
			MaxTime:         900,
			IgniterPressure: 1.5e6,
			RailLength:      5,
			Elevation:       600,
			Integrator:      "rk4",
		},
	},

	// Single-segment KNSU minimum-diameter sport rocket.
	"javelin": {
		Name: "javelin",
		Motor: MotorConfig{
			Propellant: PropellantConfig{Name: "knsu"},
			Grain: []SegmentConfig{
				{Bates: &grain.Bates{OuterDiameter: 0.056, CoreDiameter: 0.020, Length: 0.120, Spacing: 0.005}, Repeat: 2},
			},
			Nozzle: motor.Nozzle{
				ThroatDiameter:  0.011,
				ExpansionRatio:  6,
				DivergentAngle:  12,
				ConvergentAngle: 40,
				Efficiency:      0.9,
			},
			Chamber: motor.Chamber{InnerDiameter: 0.060, Length: 0.300},
			DryMass: 2.1,
		},
		Vehicle: flight.Vehicle{
			MassWithoutMotor: 3.2,
			DragCoefficient:  0.45,
			Diameter:         0.08,
		},
		Recovery: recovery.System{
			Drogue:        recovery.Chute{DragCoefficient: 1.5, Diameter: 0.4},
			Main:          recovery.Chute{DragCoefficient: 2.2, Diameter: 1.1},
			MainAltitude:  300,
			FallbackDelay: 20,
		},
		Params: sim.Params{
			TimeStep:        0.005,
			StepStretch:     10,
			MaxTime:         600,
			IgniterPressure: 1.0e6,
			RailLength:      4,
			Elevation:       0,
			Integrator:      "rk4",
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
