package storage

import (
	"testing"

	"github.com/felipebogaertsm/rocket-solver/internal/sim"
)

func sampleResult() *sim.Result {
	res := &sim.Result{
		Time:           []float64{0.01, 0.02, 0.03},
		Pressure:       []float64{1.5e6, 2.8e6, 3.1e6},
		Thrust:         []float64{900, 2100, 2400},
		PropellantMass: []float64{21.1, 21.0, 20.9},
		Kn:             []float64{320, 321, 322},
		Altitude:       []float64{0, 0.4, 1.3},
		Velocity:       []float64{0, 4, 9},
		Acceleration:   []float64{30, 38, 41},
		Mach:           []float64{0, 0.01, 0.03},
		Phase:          []string{"on-pad", "powered-ascent", "powered-ascent"},
		Events: []sim.Event{
			{Time: 0.02, Kind: sim.EventLiftoff},
		},
	}
	res.Summary.Apogee = 3120
	res.Summary.MaxThrust = 2400
	res.Summary.BurnProfile = "progressive"
	return res
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	params := sim.Params{TimeStep: 0.01, Integrator: "rk4"}
	runID, err := store.Save("olympus", params, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Case != "olympus" {
		t.Errorf("case = %q", meta.Case)
	}
	if meta.Summary.Apogee != 3120 {
		t.Errorf("summary apogee = %g", meta.Summary.Apogee)
	}
	if meta.Summary.BurnProfile != "progressive" {
		t.Errorf("burn profile = %q", meta.Summary.BurnProfile)
	}

	series, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(series.Time) != 3 {
		t.Fatalf("got %d rows, want 3", len(series.Time))
	}
	if series.Pressure[1] != 2.8e6 {
		t.Errorf("pressure[1] = %g", series.Pressure[1])
	}
	if series.Phase[0] != "on-pad" {
		t.Errorf("phase[0] = %q", series.Phase[0])
	}

	events, err := store.LoadEvents(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != sim.EventLiftoff {
		t.Errorf("events = %+v", events)
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	params := sim.Params{TimeStep: 0.01, Integrator: "rk4"}
	if _, err := store.Save("a", params, sampleResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("b", params, sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestListEmptyDir(t *testing.T) {
	store := New(t.TempDir() + "/nope")
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}
