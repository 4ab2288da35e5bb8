package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/felipebogaertsm/rocket-solver/internal/analysis"
	"github.com/felipebogaertsm/rocket-solver/internal/config"
	"github.com/felipebogaertsm/rocket-solver/internal/export"
	"github.com/felipebogaertsm/rocket-solver/internal/sim"
	"github.com/felipebogaertsm/rocket-solver/internal/storage"
	"github.com/felipebogaertsm/rocket-solver/internal/telemetry"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	dt         float64
	maxTime    float64
	integrator string
	noSave     bool
	// .eng export identity
	engName         string
	engManufacturer string
	engDiameter     float64
	engLength       float64
	engDryMass      float64
	engPoints       int
	outFile         string
	// Playback speed for the live view
	stride int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rocketsolver",
		Short: "solid rocket motor and flight simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rocketsolver", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "simulate a motor burn and flight",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCase,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "case config file (overrides preset)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "timestep [s]")
	runCmd.Flags().Float64Var(&maxTime, "max-time", config.DefaultMaxTime, "simulation time limit [s]")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run to the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset...]",
		Short: "run several cases concurrently and compare them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "timestep [s]")
	sweepCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportENGCmd := &cobra.Command{
		Use:   "export-eng [run_id]",
		Short: "export the thrust curve as an .eng motor file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportENG,
	}
	exportENGCmd.Flags().StringVar(&engName, "name", "", "motor designation (defaults to the case name)")
	exportENGCmd.Flags().StringVar(&engManufacturer, "manufacturer", "rocketsolver", "manufacturer field")
	exportENGCmd.Flags().Float64Var(&engDiameter, "diameter", 0.1413, "casing outer diameter [m]")
	exportENGCmd.Flags().Float64Var(&engLength, "length", 1.0, "casing length [m]")
	exportENGCmd.Flags().Float64Var(&engDryMass, "dry-mass", 0, "motor dry mass [kg]")
	exportENGCmd.Flags().IntVar(&engPoints, "points", 32, "resampled curve points")
	exportENGCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's time series as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "screen the chamber pressure trace for combustion oscillations",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in cases",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a saved run as an animated flight view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&stride, "stride", 0, "samples per frame (0 = auto)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(exportENGCmd)
	rootCmd.AddCommand(exportJSONCmd)
	rootCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// loadCase resolves the case config from --config or a preset name.
func loadCase(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see rocketsolver presets)", args[0])
		}
	default:
		return nil, fmt.Errorf("give a preset name or --config")
	}

	if cmd.Flags().Changed("dt") {
		cfg.Params.TimeStep = dt
	}
	if cmd.Flags().Changed("max-time") {
		cfg.Params.MaxTime = maxTime
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Params.Integrator = integrator
	}
	return cfg, nil
}

func runCase(cmd *cobra.Command, args []string) error {
	cfg, err := loadCase(cmd, args)
	if err != nil {
		return err
	}

	scenario, err := cfg.Build()
	if err != nil {
		return err
	}
	drv, err := sim.NewDriver(scenario, newLogger())
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := drv.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%d steps)\n\n", elapsed, len(result.Time))
	printSummary(os.Stdout, result.Summary)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Name, scenario.Params, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cases := make([]sim.Case, 0, len(args))
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			loaded, err := config.Load(name)
			if err != nil {
				return fmt.Errorf("%q is neither a preset nor a readable config file", name)
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("dt") {
			cfg.Params.TimeStep = dt
		}
		if cmd.Flags().Changed("integrator") {
			cfg.Params.Integrator = integrator
		}
		c := cfg
		cases = append(cases, sim.Case{Name: c.Name, Build: c.Build})
	}

	start := time.Now()
	results, err := sim.Sweep(context.Background(), cases, newLogger())
	if err != nil {
		return err
	}
	fmt.Printf("swept %d cases in %v\n\n", len(cases), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tAPOGEE\tMAX VEL\tIMPULSE\tISP\tBURN\tPROFILE\tIMPACT")
	for i, res := range results {
		s := res.Summary
		fmt.Fprintf(w, "%s\t%.0f m\t%.1f m/s\t%.0f N·s\t%.1f s\t%.2f s\t%s\t%.1f m/s\n",
			cases[i].Name, s.Apogee, s.MaxVelocity, s.TotalImpulse,
			s.SpecificImpulse, s.BurnTime, s.BurnProfile, s.ImpactVelocity)
	}
	return w.Flush()
}

func printSummary(out *os.File, s sim.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "apogee\t%.0f m @ %.1f s\n", s.Apogee, s.ApogeeTime)
	fmt.Fprintf(w, "max velocity\t%.1f m/s (mach %.2f)\n", s.MaxVelocity, s.MaxMach)
	fmt.Fprintf(w, "max acceleration\t%.1f m/s²\n", s.MaxAcceleration)
	fmt.Fprintf(w, "rail exit\t%.1f m/s\n", s.RailExitVelocity)
	fmt.Fprintf(w, "max pressure\t%.2f MPa\n", s.MaxPressure*1e-6)
	fmt.Fprintf(w, "max thrust\t%.0f N (mean %.0f N)\n", s.MaxThrust, s.MeanThrust)
	fmt.Fprintf(w, "burn time\t%.2f s (thrust %.2f s, %s)\n", s.BurnTime, s.ThrustTime, s.BurnProfile)
	fmt.Fprintf(w, "total impulse\t%.0f N·s\n", s.TotalImpulse)
	fmt.Fprintf(w, "specific impulse\t%.1f s\n", s.SpecificImpulse)
	fmt.Fprintf(w, "propellant\t%.2f kg\n", s.PropellantMass)
	fmt.Fprintf(w, "landing\t%.1f m/s under %s @ %.1f s\n", s.ImpactVelocity, s.LandedStage, s.FlightTime)
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tTIME\tAPOGEE\tIMPULSE\tBURN\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f m\t%.0f N·s\t%.2f s\t%s\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Summary.Apogee,
			run.Summary.TotalImpulse,
			run.Summary.BurnTime,
			run.Integrator,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Time) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s\n", meta.Case)
	fmt.Printf("samples: %d\n\n", len(series.Time))

	panels := []struct {
		data    []float64
		caption string
	}{
		{series.Thrust, "thrust [N]"},
		{scale(series.Pressure, 1e-6), "chamber pressure [MPa]"},
		{series.Altitude, "altitude [m]"},
		{series.Velocity, "velocity [m/s]"},
	}
	for _, p := range panels {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func scale(data []float64, k float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * k
	}
	return out
}

// loadFullResult reassembles a stored run: series from the CSV, events and
// summary from their JSON files.
func loadFullResult(st *storage.Store, runID string) (*storage.RunMetadata, *sim.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	res, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	events, err := st.LoadEvents(runID)
	if err != nil {
		return nil, nil, err
	}
	res.Events = events
	res.Summary = meta.Summary
	return meta, res, nil
}

func exportENG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, res, err := loadFullResult(st, args[0])
	if err != nil {
		return err
	}

	name := engName
	if name == "" {
		name = strings.ToUpper(meta.Case)
	}
	spec := export.ENGSpec{
		Name:         name,
		Manufacturer: engManufacturer,
		Diameter:     engDiameter,
		Length:       engLength,
		DryMass:      engDryMass,
		Resolution:   engPoints,
	}

	if outFile != "" {
		return export.WriteENGFile(outFile, spec, res)
	}
	return export.WriteENG(os.Stdout, spec, res)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, res, err := loadFullResult(st, args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return export.WriteJSONFile(outFile, res)
	}
	return export.WriteJSON(os.Stdout, res)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Time) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "pressure", "thrust", "propellant_mass", "kn",
		"altitude", "velocity", "acceleration", "mach", "phase"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range series.Time {
		row := []string{
			strconv.FormatFloat(series.Time[i], 'f', 6, 64),
			strconv.FormatFloat(series.Pressure[i], 'f', 6, 64),
			strconv.FormatFloat(series.Thrust[i], 'f', 6, 64),
			strconv.FormatFloat(series.PropellantMass[i], 'f', 6, 64),
			strconv.FormatFloat(series.Kn[i], 'f', 6, 64),
			strconv.FormatFloat(series.Altitude[i], 'f', 6, 64),
			strconv.FormatFloat(series.Velocity[i], 'f', 6, 64),
			strconv.FormatFloat(series.Acceleration[i], 'f', 6, 64),
			strconv.FormatFloat(series.Mach[i], 'f', 6, 64),
			series.Phase[i],
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Pressure) == 0 {
		return fmt.Errorf("no data")
	}

	lo, hi := analysis.BurnWindow(series.Pressure, 1.5e5)
	if hi-lo < 4 {
		return fmt.Errorf("run %s has no burn to analyze", runID)
	}

	osc, err := analysis.AnalyzePressure(series.Pressure[lo:hi], meta.TimeStep)
	if err != nil {
		return err
	}

	fmt.Printf("pressure oscillation analysis: %s\n", meta.ID)
	fmt.Printf("case: %s\n", meta.Case)
	fmt.Printf("burn window: %.2f s - %.2f s\n\n", series.Time[lo], series.Time[hi-1])

	ps := analysis.PowerSpectrum(series.Pressure[lo:hi])
	graph := asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("pressure power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("dominant frequency: %.1f hz\n", osc.Frequency)
	fmt.Printf("mean pressure: %.2f MPa\n", osc.MeanPressure*1e-6)
	fmt.Printf("oscillation: %.3f MPa (%.1f%% of mean)\n", osc.Amplitude*1e-6, osc.Ratio*100)
	if osc.Unstable() {
		fmt.Println("verdict: UNSTABLE - oscillation exceeds 5% of mean chamber pressure")
	} else {
		fmt.Println("verdict: stable")
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROPELLANT\tSEGMENTS\tTHROAT\tDRY MASS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		segs := 0
		for _, sc := range cfg.Motor.Grain {
			if sc.Repeat > 1 {
				segs += sc.Repeat
			} else {
				segs++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f mm\t%.1f kg\n",
			name,
			cfg.Motor.Propellant.Name,
			segs,
			cfg.Motor.Nozzle.ThroatDiameter*1e3,
			cfg.Motor.DryMass,
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, res, err := loadFullResult(st, args[0])
	if err != nil {
		return err
	}
	if len(res.Time) == 0 {
		return fmt.Errorf("run %s has no samples", meta.ID)
	}
	return telemetry.Run(meta.Case, res, stride)
}
