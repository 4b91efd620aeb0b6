package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spherefall/internal/config"
	"github.com/san-kum/spherefall/internal/experiment"
	"github.com/san-kum/spherefall/internal/integrators"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	maxSpheres int
	subSteps   int
	integrator string

	seed     int64
	frames   int
	numRuns  int
	noSave   bool
	field    string
	output   string
	scale    float64
	metric   string
	maximize bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridParams []string

	addr        string
	hostKey     string
	maxSessions int
	limit       int
	ascending   bool
	rebuild     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spherefall",
		Short:         "drop spheres onto a floor and watch them settle",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".spherefall", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	pf.IntVar(&maxSpheres, "max-spheres", config.DefaultMaxSpheres, "sphere pool capacity")
	pf.IntVar(&subSteps, "substeps", config.DefaultMaxSubSteps, "maximum physics steps per frame")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "play a scripted session headlessly (" + strings.Join(experiment.ScriptNames(), ", ") + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScript,
	}
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for clicks")
	runCmd.Flags().IntVar(&frames, "frames", 0, "override the script's frame count")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "run this many seeds concurrently")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "live", "series to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run-id>",
		Short: "statistics and dominant frequency of a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&field, "field", "energy", "series to analyze")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv <run-id>",
		Short: "write a run's frames as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json <run-id>",
		Short: "write a run's metadata and frames as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg <run-id>",
		Short: "write a recorded series as an svg chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&field, "field", "live", "series to chart")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [script]",
		Short: "play a script and save the last terminal frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for clicks")
	snapshotCmd.Flags().IntVar(&frames, "frames", 0, "override the script's frame count")
	snapshotCmd.Flags().Float64Var(&scale, "scale", 4, "svg pixels per dot")
	snapshotCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [script]",
		Short: "run a script across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "physics.restitution", "parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 0, "override the script's frame count")
	sweepCmd.Flags().StringVar(&metric, "metric", "mean_kinetic_energy", "metric to report")

	tuneCmd := &cobra.Command{
		Use:   "tune [script]",
		Short: "grid search parameters for the best metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&gridParams, "grid", []string{"physics.max_sub_steps=1,2,4,8"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "drift_resets", "metric to optimise")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise the metric instead")
	tuneCmd.Flags().IntVar(&frames, "frames", 0, "override the script's frame count")

	benchCmd := &cobra.Command{
		Use:   "bench [script]",
		Short: "time a script under every integrator",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 0, "override the script's frame count")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the terminal viewer over ssh",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":23234", "address to listen on")
	serveCmd.Flags().StringVar(&hostKey, "host-key", "", "host key path (default <data>/host_key)")
	serveCmd.Flags().IntVar(&maxSessions, "max-sessions", 8, "concurrent sessions (0 = unlimited)")

	topCmd := &cobra.Command{
		Use:   "top <metric>",
		Short: "rank stored runs by a summary metric",
		Args:  cobra.ExactArgs(1),
		RunE:  topRuns,
	}
	topCmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	topCmd.Flags().BoolVar(&ascending, "asc", false, "lowest first")
	topCmd.Flags().BoolVar(&rebuild, "rebuild", false, "re-index every stored run first")

	rootCmd.AddCommand(guiCmd, tuiCmd, serveCmd, runCmd, listCmd, topCmd, plotCmd,
		analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, snapshotCmd,
		presetsCmd, configCmd, scenarioCmd, sweepCmd, tuneCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the persistent flags. The
// returned close func releases the log file, if any.
func newLogger() (*log.Logger, func(), error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	out := os.Stderr
	closer := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "spherefall",
		Level:           level,
	})
	return logger, closer, nil
}

// loadConfig resolves the config file or preset, then applies flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-spheres") {
		cfg.Limits.MaxSpheres = maxSpheres
	}
	if flags.Changed("substeps") {
		cfg.Physics.MaxSubSteps = subSteps
	}
	if flags.Changed("integrator") {
		cfg.Physics.Integrator = integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	switch {
	case configFile != "":
		return "custom"
	case preset != "":
		return preset
	}
	return "default"
}

func scriptArg(args []string, fallback string) (string, experiment.Script, error) {
	name := fallback
	if len(args) > 0 {
		name = args[0]
	}
	script, err := experiment.GetScript(name)
	if err != nil {
		return "", script, fmt.Errorf("%w (available: %s)", err, strings.Join(experiment.ScriptNames(), ", "))
	}
	if frames > 0 {
		script.Frames = frames
	}
	return name, script, nil
}
