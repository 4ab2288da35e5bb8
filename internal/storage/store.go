// Package storage persists simulation runs as directories of plain files:
// metadata.json for the run's identity and summary, series.csv for the time
// series, events.json for the event log.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/felipebogaertsm/rocket-solver/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string      `json:"id"`
	Case       string      `json:"case"`
	Timestamp  time.Time   `json:"timestamp"`
	TimeStep   float64     `json:"time_step"`
	Integrator string      `json:"integrator"`
	Summary    sim.Summary `json:"summary"`
}

var seriesHeader = []string{
	"time", "pressure", "thrust", "propellant_mass", "kn",
	"altitude", "velocity", "acceleration", "mach", "phase",
}

func (s *Store) Save(caseName string, params sim.Params, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", caseName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Case:       caseName,
		Timestamp:  time.Now(),
		TimeStep:   params.TimeStep,
		Integrator: params.Integrator,
		Summary:    result.Summary,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "events.json"), result.Events); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return "", err
	}
	for i := range result.Time {
		row := []string{
			fmtF(result.Time[i]),
			fmtF(result.Pressure[i]),
			fmtF(result.Thrust[i]),
			fmtF(result.PropellantMass[i]),
			fmtF(result.Kn[i]),
			fmtF(result.Altitude[i]),
			fmtF(result.Velocity[i]),
			fmtF(result.Acceleration[i]),
			fmtF(result.Mach[i]),
			result.Phase[i],
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]sim.Event, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "events.json"))
	if err != nil {
		return nil, err
	}
	var events []sim.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadSeries reads the stored time series back into a result. The summary
// and events are not populated; use Load and LoadEvents for those.
func (s *Store) LoadSeries(runID string) (*sim.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return &sim.Result{}, nil
	}

	res := &sim.Result{}
	for _, rec := range records[1:] {
		if len(rec) != len(seriesHeader) {
			continue
		}
		vals := make([]float64, len(seriesHeader)-1)
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		res.Time = append(res.Time, vals[0])
		res.Pressure = append(res.Pressure, vals[1])
		res.Thrust = append(res.Thrust, vals[2])
		res.PropellantMass = append(res.PropellantMass, vals[3])
		res.Kn = append(res.Kn, vals[4])
		res.Altitude = append(res.Altitude, vals[5])
		res.Velocity = append(res.Velocity, vals[6])
		res.Acceleration = append(res.Acceleration, vals[7])
		res.Mach = append(res.Mach, vals[8])
		res.Phase = append(res.Phase, rec[9])
	}
	return res, nil
}
