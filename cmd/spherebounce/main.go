package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherebounce/internal/analysis"
	"github.com/san-kum/spherebounce/internal/automation"
	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/dynamo"
	"github.com/san-kum/spherebounce/internal/experiment"
	"github.com/san-kum/spherebounce/internal/export"
	"github.com/san-kum/spherebounce/internal/gui"
	"github.com/san-kum/spherebounce/internal/integrators"
	"github.com/san-kum/spherebounce/internal/optim"
	"github.com/san-kum/spherebounce/internal/storage"
	"github.com/san-kum/spherebounce/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	logLevel   string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	maxSpheres int
	configFile string
	preset     string
	// Ensemble size
	runs int
	// Sweep range
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
	// Phase plot particle slot
	slot int
	// Output path for exports, "-" for stdout
	outPath string
	theme   string
	// Optimizer grid, name=min:max:n
	grid      []string
	optMetric string
	maximize  bool
)

// main registers the commands and flags. With no subcommand it opens the
// windowed viewer on the scene menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "spherebounce",
		Short: "sphere emitter and collision sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.RunInteractive(newLogger())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spherebounce", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean height and population of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark a scene over several timesteps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the mean height",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "height phase portrait and bounce section of one slot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&slot, "slot", 0, "particle slot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(quietLogger())
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on one scene",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSceneFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [preset]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "open a scene in the 3D viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run jittered copies of a scene in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one parameter and report a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter ("+strings.Join(analysis.Sweepable, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "mean_height", "metric to report")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "run a scene and draw its final state as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the mean height of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [preset]",
		Short: "grid search parameters for the best metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addSceneFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter range as name=min:max:n (repeatable)")
	optimizeCmd.Flags().StringVar(&optMetric, "metric", "escaped", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, analyzeCmd,
		liveCmd, phaseCmd, exportCSVCmd, tuiCmd, compareCmd, presetsCmd,
		exportJSONCmd, guiCmd, ensembleCmd, sweepCmd, snapshotCmd, exportSVGCmd,
		optimizeCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().IntVar(&maxSpheres, "spheres", config.DefaultMaxSpheres, "pool capacity")
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml, or ini/gcfg)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// quietLogger drops records so they do not tear the alternate screen.
func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// loadConfig resolves the scene: the default scene, replaced by a preset
// (positional or --preset), replaced by --config. Flags override the
// result only when set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := preset
	if len(args) > 0 {
		name = args[0]
	}
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("spheres") {
		cfg.MaxSpheres = maxSpheres
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	log := newLogger()
	exp := experiment.New(cfg, log)
	if err := exp.Setup(nil); err != nil {
		return err
	}
	defer exp.Close()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s scene...\n", cfg.Name)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn("run stopped early", "err", e)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  frames: %d\n", result.StepsTaken, len(result.Frames))
	fmt.Printf("spawned: %d  recycled: %d  contacts: %d\n", result.Spawned, result.Recycled, result.Contacts)
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	metas, err := st.List()
	if err != nil {
		return err
	}

	if len(metas) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tSPAWNED\tCONTACTS")

	for _, run := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Spawned,
			run.Contacts,
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	height := (&dynamo.Result{Frames: frames}).MeanHeight()
	population := make([]float64, len(frames))
	for i, f := range frames {
		population[i] = float64(len(f.Samples))
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{height, "mean height"},
		{population, "live spheres"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, storage.NewExportData(meta, nil))
}

func benchScene(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.005, 0.02}

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := *base
			cfg.Duration, cfg.Dt = dur, step

			exp := experiment.New(&cfg, quietLogger())
			if err := exp.Setup(nil); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			exp.Close()
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 4 {
		return fmt.Errorf("not enough frames")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	data := (&dynamo.Result{Frames: frames}).MeanHeight()
	sampleDt := (frames[len(frames)-1].Time - frames[0].Time) / float64(len(frames)-1)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:min(len(ps), max(2, len(ps)/4))]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean height)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, mag := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz (magnitude %.3f)\n", freq, mag)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunLive(cfg, quietLogger())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(cfg, newLogger())
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("scene: %s  slot: %d\n\n", meta.Scene, slot)

	portrait := analysis.GeneratePhasePortrait(frames, slot)
	if len(portrait.Points) == 0 {
		return fmt.Errorf("slot %d never held a sphere", slot)
	}
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))

	fmt.Println("bounce section (y, vy at each rebound):")
	fmt.Println(analysis.BounceSectionToASCII(analysis.GenerateBounceSection(frames, slot), 70, 16))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(args[0], outPath)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(outPath, storage.NewExportData(meta, frames))
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	names := args[1:]
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", base.Name, base.Dt, base.Duration)
	fmt.Printf("%-14s  %-12s  %-12s  %-10s  %-10s\n", "integrator", "mean_height", "kinetic", "contacts", "time_ms")
	fmt.Println(strings.Repeat("-", 66))

	for _, name := range names {
		cfg := *base
		cfg.Integrator = name

		exp := experiment.New(&cfg, quietLogger())
		if err := exp.Setup(nil); err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		exp.Close()
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-14s  %12.4f  %12.4f  %10d  %10.2f\n", name,
			result.Metrics["mean_height"], result.Metrics["kinetic_energy"], result.Contacts,
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDT\tDURATION\tSPHERES\tCOLLIDERS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4f\t%.1fs\t%d\t%d\n", name, cfg.Dt, cfg.Duration, cfg.MaxSpheres, len(cfg.Colliders))
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d copies of %s (jitter %.2f)...\n\n", runs, cfg.Name, cfg.Emitter.Jitter)
	start := time.Now()
	results, err := experiment.New(cfg, newLogger()).RunEnsemble(ctx, runs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMEAN_HEIGHT\tKINETIC\tBOUNCES\tESCAPED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.0f\t%.3f\n", cfg.Seed+int64(i),
			r.Metrics["mean_height"], r.Metrics["kinetic_energy"], r.Metrics["bounces"], r.Metrics["escaped"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.Sweep(ctx, cfg, sweepParam, sweepMin, sweepMax, sweepSteps, sweepMetric)
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s over [%g, %g] on %s\n\n", sweepParam, sweepMin, sweepMax, cfg.Name)
	values := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for i, p := range points {
		values[i] = p.Value
		fmt.Fprintf(w, "%.4f\t%.6f\n", p.Param, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(values, asciigraph.Height(10), asciigraph.Caption(sweepMetric)))
	return nil
}

func writeOut(path, content string) error {
	if path == "-" {
		_, err := fmt.Println(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, newLogger())
	if err := exp.Setup(nil); err != nil {
		return err
	}
	defer exp.Close()
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	canvas := export.Snapshot(exp.Scene().Colliders(), exp.Simulator().Particles(), 100, 40)
	return writeOut(outPath, export.CanvasToSVG(canvas, 4))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	result := &dynamo.Result{Frames: frames}
	svg := export.SeriesToSVG(result.Times(), result.MeanHeight(), 800, 300, "#4fc3f7")
	if svg == "" {
		return fmt.Errorf("not enough frames")
	}
	return writeOut(outPath, svg)
}

// parseGrid reads name=min:max:n into a parameter name and its values.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad grid %q, want name=min:max:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, err
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required (parameters: %s)", strings.Join(analysis.Sweepable, ", "))
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	total := 1
	for _, g := range grid {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
		total *= len(values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	search.Maximize = maximize
	search.Log = newLogger()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d combinations on %s for %s...\n\n", total, cfg.Name, optMetric)
	start := time.Now()
	best, value, err := search.Search(ctx, cfg, optMetric)
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Printf("  %s = %.4f\n", name, best[name])
	}
	fmt.Printf("\n%s: %.6f\n", optMetric, value)
	fmt.Printf("completed in %v\n", time.Since(start))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, sc, newLogger())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tSCENE\tSPAWNED\tCONTACTS\tMEAN_HEIGHT")
	for i, r := range results {
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.4f\n", i+1, runID, r.Config.Name,
			r.Result.Spawned, r.Result.Contacts, r.Result.Metrics["mean_height"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
