package export

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/felipebogaertsm/rocket-solver/internal/sim"
)

func sampleResult() *sim.Result {
	res := &sim.Result{
		Time:     []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0},
		Thrust:   []float64{1000, 2000, 2000, 1500, 0, 0},
		Pressure: []float64{2e6, 4e6, 4e6, 3e6, 101325, 101325},
		Altitude: []float64{10, 60, 160, 300, 450, 600},
	}
	res.Summary.PropellantMass = 5.5
	res.Summary.Apogee = 2400
	return res
}

func TestWriteENG(t *testing.T) {
	spec := ENGSpec{
		Name:         "OLY-7500",
		Manufacturer: "LASC",
		Diameter:     0.1413,
		Length:       1.48,
		DryMass:      19,
		Resolution:   10,
	}

	var sb strings.Builder
	if err := WriteENG(&sb, spec, sampleResult()); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	var header string
	var rows [][2]float64
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if header == "" {
			header = line
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("bad data row %q", line)
		}
		tv, _ := strconv.ParseFloat(fields[0], 64)
		fv, _ := strconv.ParseFloat(fields[1], 64)
		rows = append(rows, [2]float64{tv, fv})
	}

	fields := strings.Fields(header)
	if len(fields) != 7 {
		t.Fatalf("header %q, want 7 fields", header)
	}
	if fields[0] != "OLY-7500" || fields[3] != "P" || fields[6] != "LASC" {
		t.Errorf("header fields wrong: %q", header)
	}
	if fields[1] != "141.3000" {
		t.Errorf("diameter field = %q, want millimetres", fields[1])
	}
	if fields[4] != "5.5000" || fields[5] != "24.5000" {
		t.Errorf("mass fields = %q %q", fields[4], fields[5])
	}

	if len(rows) != 10 {
		t.Fatalf("got %d data rows, want 10", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i][0] <= rows[i-1][0] {
			t.Fatal("times not strictly increasing")
		}
	}
	if rows[len(rows)-1][1] != 0 {
		t.Error("final thrust sample must be zero")
	}

	if !strings.HasSuffix(strings.TrimSpace(out), ";") {
		t.Error("file must end with a comment terminator")
	}
}

func TestWriteENGRejectsBadSpec(t *testing.T) {
	var sb strings.Builder
	err := WriteENG(&sb, ENGSpec{Resolution: 10}, sampleResult())
	if err == nil {
		t.Error("expected error for unnamed motor")
	}
	err = WriteENG(&sb, ENGSpec{Name: "x", Diameter: 0.1, Length: 1, Resolution: 1}, sampleResult())
	if err == nil {
		t.Error("expected error for resolution below 2")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var sb strings.Builder
	if err := WriteJSON(&sb, sampleResult()); err != nil {
		t.Fatal(err)
	}

	var decoded sim.Result
	if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Summary.Apogee != 2400 {
		t.Errorf("apogee = %g", decoded.Summary.Apogee)
	}
	if len(decoded.Thrust) != 6 {
		t.Errorf("thrust rows = %d", len(decoded.Thrust))
	}
}

func TestInterp(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 10, 0}

	tests := []struct {
		t, want float64
	}{
		{-0.5, 0},
		{0.5, 5},
		{1.0, 10},
		{1.5, 5},
		{2.5, 0},
	}
	for _, tt := range tests {
		if got := interp(xs, ys, tt.t); got != tt.want {
			t.Errorf("interp(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}
}
