// Package config loads simulation cases from YAML and builds runnable
// scenarios out of them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felipebogaertsm/rocket-solver/internal/flight"
	"github.com/felipebogaertsm/rocket-solver/internal/grain"
	"github.com/felipebogaertsm/rocket-solver/internal/motor"
	"github.com/felipebogaertsm/rocket-solver/internal/propellant"
	"github.com/felipebogaertsm/rocket-solver/internal/recovery"
	"github.com/felipebogaertsm/rocket-solver/internal/sim"
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

const (
	DefaultTimeStep        = 0.01
	DefaultStepStretch     = 10.0
	DefaultMaxTime         = 900.0
	DefaultIgniterPressure = 1.5e6
	DefaultRailLength      = 5.0
)

type Config struct {
	Name     string          `yaml:"name"`
	Motor    MotorConfig     `yaml:"motor"`
	Vehicle  flight.Vehicle  `yaml:"vehicle"`
	Recovery recovery.System `yaml:"recovery"`
	Params   sim.Params      `yaml:"params"`
}

type MotorConfig struct {
	Propellant PropellantConfig `yaml:"propellant"`
	Grain      []SegmentConfig  `yaml:"grain"`
	Nozzle     motor.Nozzle     `yaml:"nozzle"`
	Chamber    motor.Chamber    `yaml:"chamber"`
	DryMass    float64          `yaml:"dry_mass"`
}

// PropellantConfig selects a named preset or carries a full custom
// definition. Exactly one of the two must be set.
type PropellantConfig struct {
	Name   string                 `yaml:"name,omitempty"`
	Custom *propellant.Propellant `yaml:"custom,omitempty"`
}

// SegmentConfig describes one grain segment. Exactly one geometry must be
// set; Repeat stacks identical segments without restating them.
type SegmentConfig struct {
	Bates   *grain.Bates   `yaml:"bates,omitempty"`
	Star    *grain.Star    `yaml:"star,omitempty"`
	Finocyl *grain.Finocyl `yaml:"finocyl,omitempty"`
	Table   *grain.Table   `yaml:"table,omitempty"`
	Repeat  int            `yaml:"repeat,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: sim.Params{
			TimeStep:        DefaultTimeStep,
			StepStretch:     DefaultStepStretch,
			MaxTime:         DefaultMaxTime,
			IgniterPressure: DefaultIgniterPressure,
			RailLength:      DefaultRailLength,
			Integrator:      "rk4",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p *PropellantConfig) build() (*propellant.Propellant, error) {
	switch {
	case p.Name != "" && p.Custom != nil:
		return nil, srm.Configf("motor.propellant", "set either name or custom, not both")
	case p.Name != "":
		prop, ok := propellant.ByName(p.Name)
		if !ok {
			return nil, srm.Configf("motor.propellant.name", "unknown propellant %q", p.Name)
		}
		return &prop, nil
	case p.Custom != nil:
		prop := *p.Custom
		if err := prop.Validate(); err != nil {
			return nil, err
		}
		return &prop, nil
	default:
		return nil, srm.Configf("motor.propellant", "name or custom required")
	}
}

func (s *SegmentConfig) build() (grain.Segment, error) {
	var seg grain.Segment
	count := 0
	if s.Bates != nil {
		b := *s.Bates
		seg = &b
		count++
	}
	if s.Star != nil {
		st := *s.Star
		seg = &st
		count++
	}
	if s.Finocyl != nil {
		f := *s.Finocyl
		seg = &f
		count++
	}
	if s.Table != nil {
		tb := *s.Table
		tb.Profile = append([]grain.TablePoint(nil), s.Table.Profile...)
		seg = &tb
		count++
	}
	if count != 1 {
		return nil, srm.Configf("motor.grain", "each segment needs exactly one geometry, got %d", count)
	}
	return seg, nil
}

// Build constructs a fresh scenario. Every call returns independent
// objects, so one config can feed concurrent sweep runs.
func (c *Config) Build() (*sim.Scenario, error) {
	prop, err := c.Motor.Propellant.build()
	if err != nil {
		return nil, err
	}

	var segments []grain.Segment
	for _, sc := range c.Motor.Grain {
		repeat := sc.Repeat
		if repeat <= 0 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			seg, err := sc.build()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		}
	}
	g, err := grain.New(segments...)
	if err != nil {
		return nil, err
	}

	rec := c.Recovery

	scenario := &sim.Scenario{
		Motor: &motor.Motor{
			Propellant: prop,
			Grain:      g,
			Nozzle:     c.Motor.Nozzle,
			Chamber:    c.Motor.Chamber,
			DryMass:    c.Motor.DryMass,
		},
		Vehicle:  c.Vehicle,
		Recovery: &rec,
		Params:   c.Params,
	}

	if err := scenario.Params.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Motor.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Recovery.Validate(); err != nil {
		return nil, err
	}
	return scenario, nil
}
