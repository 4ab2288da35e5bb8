package integrators

import "github.com/felipebogaertsm/rocket-solver/internal/srm"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f srm.Deriv, x srm.State, t, dt float64) srm.State {
	dx := f(x, t)
	result := make(srm.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
