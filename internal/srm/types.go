package srm

import "math"

// State is a vector of scalar quantities advanced by an integrator.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Deriv evaluates the time derivative of a state at time t.
type Deriv func(x State, t float64) State

// Integrator advances a state by one fixed step dt. Implementations must be
// deterministic: identical inputs and step size produce identical outputs.
type Integrator interface {
	Step(f Deriv, x State, t, dt float64) State
}
