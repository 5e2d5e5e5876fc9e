package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/engine"
	"github.com/san-kum/hydrodrag/internal/integrators"
	"github.com/san-kum/hydrodrag/internal/observe"
	"github.com/san-kum/hydrodrag/internal/performance"
	"github.com/spf13/cobra"
)

var (
	configDir  string
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	thrust     float64
	speed      float64
	target     float64
	integrator string
	svgOut     string
	seed       int64
	allPresets bool
	jsonOut    bool
	columns    []string
	csvOut     bool
	maxSpeed   float64
	points     int
)

// app is the state every command shares once settings are loaded.
type app struct {
	settings *config.Settings
	engine   engine.Settings
	store    *performance.Store
	resolver *performance.Resolver
	logger   zerolog.Logger
	observer observe.Observer
}

var current app

func main() {
	rootCmd := &cobra.Command{
		Use:           "hydrodrag",
		Short:         "hull buoyancy and drag engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding hydrodrag.yaml")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run directory (default: outputDir setting)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default: logLevel setting)")

	runCmd := &cobra.Command{
		Use:   "run [vessel]",
		Short: "run a synthetic scenario and save its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&allPresets, "all", false, "run every preset of the vessel concurrently")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the trace as JSON to stdout instead of saving it")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot columns of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"speed", "drag", "draft"}, "trace columns to plot")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write the first column against time as SVG")

	liveCmd := &cobra.Command{
		Use:   "live [vessel]",
		Short: "run a scenario with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	tableCmd := &cobra.Command{
		Use:   "table [vessel]",
		Short: "build and show the hydrostatic tables of a vessel",
		Args:  cobra.ExactArgs(1),
		RunE:  showTable,
	}
	tableCmd.Flags().BoolVar(&csvOut, "csv", false, "write every station as CSV to stdout")
	tableCmd.Flags().StringVar(&svgOut, "svg", "", "also write the hull profile at rest as SVG")

	dragCmd := &cobra.Command{
		Use:   "drag [class]",
		Short: "plot the resistance curve of a vessel class",
		Args:  cobra.ExactArgs(1),
		RunE:  showDrag,
	}
	dragCmd.Flags().Float64Var(&maxSpeed, "max-speed", 12, "highest speed on the curve (m/s)")
	dragCmd.Flags().IntVar(&points, "points", 60, "number of speeds sampled")
	dragCmd.Flags().BoolVar(&csvOut, "csv", false, "write the curve as CSV to stdout")

	resolveCmd := &cobra.Command{
		Use:   "resolve [class...]",
		Short: "show the merged performance parameters of vessel classes",
		RunE:  resolveClasses,
	}

	initCmd := &cobra.Command{
		Use:   "init-config",
		Short: "write default settings and an example ship data document",
		Args:  cobra.NoArgs,
		RunE:  initConfig,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [vessel]",
		Short: "list scenario presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, liveCmd, tableCmd, dragCmd, resolveCmd, initCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a scenario preset")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "fixed step (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Float64Var(&thrust, "thrust", config.DefaultThrust, "forward thrust (N)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "initial forward speed (m/s)")
	cmd.Flags().Float64Var(&target, "target-speed", 0, "hold this forward speed with the autopilot (m/s)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "step scheme: "+strings.Join(integrators.Names(), ", "))
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "seed of the swell phase (recorded with the run)")
}

func setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(configDir)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()

	if dataDir == "" {
		dataDir = settings.OutputDir
	}

	store := performance.NewStore()
	if cmd.Name() != "init-config" {
		path := settings.ShipDataPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}
		records, created, err := config.LoadShipData(path)
		if err != nil {
			return err
		}
		if created {
			logger.Info().Str("path", path).Msg("wrote example ship data")
		}
		store.SetUser(records)
	}

	metrics, err := observe.NewMetrics(nil)
	if err != nil {
		return err
	}
	logObserver := observe.NewLog(logger)
	logObserver.Period = settings.LogPeriod

	current = app{
		settings: settings,
		engine:   engine.FromConfig(settings),
		store:    store,
		resolver: performance.NewResolver(store, performance.WithLiveReload(settings.LiveReload)),
		logger:   logger,
		observer: observe.Multi{logObserver, metrics},
	}
	return nil
}
