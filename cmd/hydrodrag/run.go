package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/metrics"
	"github.com/san-kum/hydrodrag/internal/sim"
	"github.com/san-kum/hydrodrag/internal/storage"
	"github.com/san-kum/hydrodrag/internal/viz"
	"github.com/spf13/cobra"
)

// scenario assembles the run config: preset, then file, then flags the
// user set explicitly.
func scenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	vessel := config.DefaultVessel
	if len(args) > 0 {
		vessel = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Vessel = vessel

	if preset != "" {
		p := config.GetPreset(vessel, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(vessel))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Vessel = vessel
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("thrust") {
		cfg.Thrust = thrust
	}
	if flags.Changed("speed") {
		cfg.InitState.Speed = speed
	}
	if flags.Changed("target-speed") {
		cfg.Autopilot.TargetSpeed = target
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cfg.Seed == 0 || flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func newSimulator() *sim.Simulator {
	s := sim.New(current.resolver,
		sim.WithSettings(current.engine),
		sim.WithEngineObserver(current.observer),
	)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	return s
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := scenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if !jsonOut {
		if err := st.Init(); err != nil {
			return err
		}
	}

	if allPresets {
		return runPresets(ctx, st, cfg)
	}

	current.logger.Info().Str("vessel", cfg.Vessel).Float64("duration", cfg.Duration).Msg("running scenario")
	start := time.Now()

	result, err := newSimulator().Run(ctx, cfg)
	if err != nil {
		return err
	}
	for _, w := range result.Errors {
		current.logger.Warn().Err(w).Msg("run ended early")
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, result)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("class: %s\n", result.Class)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)
	return nil
}

func runPresets(ctx context.Context, st *storage.Store, base *config.Config) error {
	names := config.ListPresets(base.Vessel)
	if len(names) == 0 {
		return fmt.Errorf("no presets for vessel: %s", base.Vessel)
	}
	cfgs := make([]*config.Config, len(names))
	for i, name := range names {
		cfgs[i] = config.GetPreset(base.Vessel, name)
		cfgs[i].Seed = base.Seed
	}

	results, err := newSimulator().RunAll(ctx, cfgs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRUN\tTOP SPEED\tMEAN DRAFT\tPEAK DRAG")
	for i, r := range results {
		runID := "-"
		if !jsonOut {
			if runID, err = st.Save(cfgs[i], r); err != nil {
				return err
			}
		}
		final := r.Final()
		fmt.Fprintf(w, "%s\t%s\t%.2f m/s\t%.3f m\t%.0f N\n",
			names[i], runID, maxOf(r, func(s sim.Sample) float64 { return s.Speed }), final.Draft,
			maxOf(r, func(s sim.Sample) float64 { return -s.Drag }))
	}
	return w.Flush()
}

func maxOf(r *sim.Result, f func(sim.Sample) float64) float64 {
	best := 0.0
	for _, v := range r.Series(f) {
		best = max(best, v)
	}
	return best
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
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVESSEL\tCLASS\tTIME\tDURATION\tDT\tTHRUST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%.0fN\n",
			run.ID,
			run.Vessel,
			run.Class,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Thrust,
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

	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("vessel: %s (%s)\n", meta.Vessel, meta.Class)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, name := range columns {
		data, err := storage.Column(header, rows, name)
		if err != nil {
			return err
		}
		fmt.Println(viz.Plot(data, name+" vs time", 80, 10))
		fmt.Println()
	}

	if svgOut != "" && len(columns) > 0 {
		times, err := storage.Column(header, rows, "time")
		if err != nil {
			return err
		}
		data, err := storage.Column(header, rows, columns[0])
		if err != nil {
			return err
		}
		return writeFile(svgOut, func(w io.Writer) error {
			return viz.WriteSeriesSVG(w, times, data, 800, 300, "#5fd7ff")
		})
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := scenario(cmd, args)
	if err != nil {
		return err
	}
	// engine logs would draw over the live view
	s := sim.New(current.resolver, sim.WithSettings(current.engine))
	return viz.Run(s, cfg)
}
