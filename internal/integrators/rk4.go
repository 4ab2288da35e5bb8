package integrators

import "github.com/felipebogaertsm/rocket-solver/internal/srm"

type RK4 struct {
	k1, k2, k3, k4 srm.State
	scratch        srm.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(srm.State, n)
		r.k2 = make(srm.State, n)
		r.k3 = make(srm.State, n)
		r.k4 = make(srm.State, n)
		r.scratch = make(srm.State, n)
	}
}

func (r *RK4) Step(f srm.Deriv, x srm.State, t, dt float64) srm.State {
	n := len(x)
	r.ensureScratch(n)

	k1 := f(x, t)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2 := f(r.scratch, t+dt*0.5)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3 := f(r.scratch, t+dt*0.5)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := f(r.scratch, t+dt)
	copy(r.k4, k4)

	result := make(srm.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

// ByName returns the integrator registered under name.
func ByName(name string) (srm.Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4", "":
		return NewRK4(), true
	default:
		return nil, false
	}
}
