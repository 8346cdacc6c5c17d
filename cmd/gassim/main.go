package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/gas"
	"github.com/san-kum/gassim/internal/state"
	"github.com/san-kum/gassim/internal/storage"
	"github.com/san-kum/gassim/internal/viz"
)

var (
	dataDir         string
	configFile      string
	preset          string
	stateFile       string
	containerRadius float64
	events          int
	numBalls        int
	ballMass        float64
	ballRadius      float64
	rmsSpeed        float64
	seed            int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gassim",
		Short: "event-driven hard-sphere gas simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gassim", "data directory")

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "generate a non-overlapping initial configuration",
		RunE:  generateState,
	}
	genCmd.Flags().StringVar(&stateFile, "state", config.DefaultStateFile, "output file")
	genCmd.Flags().Float64Var(&containerRadius, "radius", config.DefaultContainerRadius, "container radius")
	genCmd.Flags().IntVar(&numBalls, "balls", config.DefaultBalls, "number of balls")
	genCmd.Flags().Float64Var(&ballMass, "mass", config.DefaultMass, "ball mass")
	genCmd.Flags().Float64Var(&ballRadius, "ball-radius", config.DefaultBallRadius, "ball radius")
	genCmd.Flags().Float64Var(&rmsSpeed, "rms", config.DefaultRMSSpeed, "rms speed")
	genCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation headless and store the results",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&stateFile, "state", "", "initial state file (skips generation)")
	runCmd.Flags().Float64Var(&containerRadius, "radius", config.DefaultContainerRadius, "container radius")
	runCmd.Flags().IntVar(&events, "events", config.DefaultEvents, "number of collision events")
	runCmd.Flags().IntVar(&numBalls, "balls", config.DefaultBalls, "number of balls")
	runCmd.Flags().Float64Var(&ballMass, "mass", config.DefaultMass, "ball mass")
	runCmd.Flags().Float64Var(&ballRadius, "ball-radius", config.DefaultBallRadius, "ball radius")
	runCmd.Flags().Float64Var(&rmsSpeed, "rms", config.DefaultRMSSpeed, "rms speed")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&stateFile, "state", "", "initial state file (skips generation)")
	liveCmd.Flags().Float64Var(&containerRadius, "radius", config.DefaultContainerRadius, "container radius")
	liveCmd.Flags().IntVar(&events, "events", 0, "stop after this many events (0 = unlimited)")
	liveCmd.Flags().IntVar(&numBalls, "balls", config.DefaultBalls, "number of balls")
	liveCmd.Flags().Float64Var(&ballMass, "mass", config.DefaultMass, "ball mass")
	liveCmd.Flags().Float64Var(&ballRadius, "ball-radius", config.DefaultBallRadius, "ball radius")
	liveCmd.Flags().Float64Var(&rmsSpeed, "rms", config.DefaultRMSSpeed, "rms speed")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot observables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run's observable series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(genCmd, runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, gas.ErrStalled) {
			fmt.Fprintln(os.Stderr, "simulation stalled: no further collision is geometrically possible")
		}
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file and flags into one Config.
// Precedence from lowest to highest: defaults, preset, file, changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("radius") {
		cfg.ContainerRadius = containerRadius
	}
	if cmd.Flags().Changed("events") {
		cfg.Events = events
	}
	if cmd.Flags().Changed("balls") {
		cfg.Generate.Balls = numBalls
	}
	if cmd.Flags().Changed("mass") {
		cfg.Generate.Mass = ballMass
	}
	if cmd.Flags().Changed("ball-radius") {
		cfg.Generate.Radius = ballRadius
	}
	if cmd.Flags().Changed("rms") {
		cfg.Generate.RMSSpeed = rmsSpeed
	}
	if cmd.Flags().Changed("state") {
		cfg.StateFile = stateFile
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadBalls reads the initial configuration from the state file when one was
// given explicitly, and generates one procedurally otherwise.
func loadBalls(cmd *cobra.Command, cfg *config.Config) ([]*gas.Ball, error) {
	if cmd.Flags().Changed("state") {
		return state.Load(cfg.StateFile)
	}
	return state.Generate(state.GenSpec{
		ContainerRadius: cfg.ContainerRadius,
		NumBalls:        cfg.Generate.Balls,
		Mass:            cfg.Generate.Mass,
		Radius:          cfg.Generate.Radius,
		RMSSpeed:        cfg.Generate.RMSSpeed,
		Seed:            cfg.Seed,
	})
}

func generateState(cmd *cobra.Command, args []string) error {
	balls, err := state.Generate(state.GenSpec{
		ContainerRadius: containerRadius,
		NumBalls:        numBalls,
		Mass:            ballMass,
		Radius:          ballRadius,
		RMSSpeed:        rmsSpeed,
		Seed:            seed,
	})
	if err != nil {
		return err
	}

	if err := state.Save(stateFile, balls); err != nil {
		return err
	}

	fmt.Printf("wrote %d balls to %s (seed %d)\n", len(balls), stateFile, seed)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	balls, err := loadBalls(cmd, cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine, err := gas.NewEngine(cfg.ContainerRadius, balls)
	if err != nil {
		return err
	}

	recorder := storage.NewRecorder(cfg.Events)
	engine.AddObserver(recorder)
	startReports := engine.Report()

	fmt.Printf("replaying %d collision events for %d balls...\n", cfg.Events, len(balls))
	start := time.Now()

	if err := engine.Run(context.Background(), cfg.Events); err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Seed, cfg.ContainerRadius, recorder.Series, startReports, engine.Report())
	if err != nil {
		return err
	}

	snap := engine.Snapshot()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "simulated time\t%.4fs\n", snap.Time)
	fmt.Fprintf(w, "kinetic energy\t%.6f\n", snap.KineticEnergy)
	fmt.Fprintf(w, "rms speed\t%.6f\n", snap.RMSSpeed)
	fmt.Fprintf(w, "pressure\t%.6f\n", snap.Pressure)
	fmt.Fprintf(w, "ball collisions\t%d\n", snap.BallCollisions)
	fmt.Fprintf(w, "wall collisions\t%d\n", snap.WallCollisions)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	factory := func() (*gas.Engine, error) {
		balls, err := loadBalls(cmd, cfg)
		if err != nil {
			return nil, err
		}
		return gas.NewEngine(cfg.ContainerRadius, balls)
	}

	maxEvents := 0
	if cmd.Flags().Changed("events") {
		maxEvents = cfg.Events
	}

	m, err := viz.NewModel(factory, maxEvents)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tTIME\tEVENTS\tBALLS\tPRESSURE\tRMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.5f\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Events,
			run.Final.NumBalls,
			run.Final.Pressure,
			run.Final.RMSSpeed,
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
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("events: %d\n\n", len(series))

	plots := []struct {
		caption string
		extract func(gas.Snapshot) float64
	}{
		{"kinetic energy", func(s gas.Snapshot) float64 { return s.KineticEnergy }},
		{"rms speed", func(s gas.Snapshot) float64 { return s.RMSSpeed }},
		{"pressure", func(s gas.Snapshot) float64 { return s.Pressure }},
	}

	for _, p := range plots {
		data := make([]float64, len(series))
		for i, snap := range series {
			data[i] = p.extract(snap)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
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

	return storage.ExportJSONStdout(meta, series)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "kinetic_energy", "rms_speed", "pressure", "ball_collisions", "wall_collisions"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range series {
		row := []string{
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			strconv.FormatFloat(snap.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(snap.RMSSpeed, 'f', 6, 64),
			strconv.FormatFloat(snap.Pressure, 'f', 6, 64),
			strconv.Itoa(snap.BallCollisions),
			strconv.Itoa(snap.WallCollisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
