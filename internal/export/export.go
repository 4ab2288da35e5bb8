// Package export writes simulation results in interchange formats: the
// .eng motor file consumed by flight simulators such as OpenRocket and
// RASAero, and plain JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/felipebogaertsm/rocket-solver/internal/sim"
	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// ENGSpec is the motor identity block of an .eng file.
type ENGSpec struct {
	Name         string  `yaml:"name"`
	Manufacturer string  `yaml:"manufacturer"`
	Diameter     float64 `yaml:"diameter"` // casing outer diameter [m]
	Length       float64 `yaml:"length"`   // casing length [m]
	DryMass      float64 `yaml:"dry_mass"` // [kg]
	Resolution   int     `yaml:"resolution"`
}

func (s *ENGSpec) Validate() error {
	if s.Name == "" {
		return srm.Configf("eng.name", "required")
	}
	if s.Diameter <= 0 || s.Length <= 0 {
		return srm.Configf("eng.dimensions", "diameter and length must be positive")
	}
	if s.Resolution < 2 {
		return srm.Configf("eng.resolution", "need at least 2 points, got %d", s.Resolution)
	}
	return nil
}

// WriteENG resamples the thrust curve onto spec.Resolution evenly spaced
// points and writes the .eng file. The curve is cut at thrust end; zeros
// after that carry no information for the importing simulator.
func WriteENG(w io.Writer, spec ENGSpec, result *sim.Result) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if len(result.Time) == 0 {
		return srm.Configf("eng.result", "empty time series")
	}

	end := thrustEnd(result)
	tEnd := result.Time[end]
	propMass0 := result.Summary.PropellantMass

	if _, err := fmt.Fprintf(w, "; %s thrust curve\n; resampled to %d points\n", spec.Name, spec.Resolution); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %.4f %.4f P %.4f %.4f %s\n",
		spec.Name, spec.Diameter*1e3, spec.Length*1e3,
		propMass0, propMass0+spec.DryMass, spec.Manufacturer); err != nil {
		return err
	}

	for i := 0; i < spec.Resolution; i++ {
		t := tEnd * float64(i+1) / float64(spec.Resolution)
		f := interp(result.Time[:end+1], result.Thrust[:end+1], t)
		// The .eng format requires the final thrust sample to be zero.
		if i == spec.Resolution-1 {
			f = 0
		}
		if _, err := fmt.Fprintf(w, "   %.3f %.1f\n", t, f); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, ";")
	return err
}

// WriteENGFile writes the .eng export to path.
func WriteENGFile(path string, spec ENGSpec, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteENG(f, spec, result)
}

// WriteJSON writes the full result, series and summary included.
func WriteJSON(w io.Writer, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteJSONFile writes the JSON export to path.
func WriteJSONFile(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, result)
}

// thrustEnd returns the index of the last sample with positive thrust, or
// the final index when the motor never lit.
func thrustEnd(result *sim.Result) int {
	for i := len(result.Thrust) - 1; i >= 0; i-- {
		if result.Thrust[i] > 0 {
			if i+1 < len(result.Thrust) {
				return i + 1
			}
			return i
		}
	}
	return len(result.Thrust) - 1
}

// interp linearly interpolates y(t) over the sorted xs, zero outside the
// range.
func interp(xs, ys []float64, t float64) float64 {
	if len(xs) == 0 || t < xs[0] || t > xs[len(xs)-1] {
		return 0
	}
	lo, hi := 0, len(xs)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if xs[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	if xs[hi] == xs[lo] {
		return ys[lo]
	}
	f := (t - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + f*(ys[hi]-ys[lo])
}
