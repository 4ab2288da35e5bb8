package srm

import (
	"errors"
	"fmt"
)

// Error taxonomy for the solver.
var (
	// ErrConfig indicates invalid or non-physical input parameters,
	// detected at setup. No simulation is attempted.
	ErrConfig = errors.New("srm: invalid configuration")

	// ErrUnstable indicates the numerical solution diverged (NaN/Inf)
	// mid-run. The run is aborted with the partial series preserved.
	ErrUnstable = errors.New("srm: numerical instability")
)

// ConfigError describes a rejected input parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("srm: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// Configf builds a ConfigError for the named field.
func Configf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InstabilityError describes a diverging solution detected mid-run.
type InstabilityError struct {
	Time     float64
	Step     float64 // step size in use when the divergence was caught [s]
	Quantity string
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("srm: numerical instability in %s at t=%.4fs (dt=%g)", e.Quantity, e.Time, e.Step)
}

func (e *InstabilityError) Unwrap() error { return ErrUnstable }
