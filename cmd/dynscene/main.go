package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynscene/internal/clock"
	"github.com/san-kum/dynscene/internal/config"
	"github.com/san-kum/dynscene/internal/metrics"
	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scenario"
	"github.com/san-kum/dynscene/internal/sim"
	"github.com/san-kum/dynscene/internal/storage"
	"github.com/san-kum/dynscene/internal/visualizer"
	"github.com/san-kum/dynscene/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	step       float64
	duration   float64
	multiplier float64
	rangeName  string
	configFile string
	preset     string
	theme      string
	// random scenario
	objects int
	moving  float64
	churn   int
	seed    int64
	// run output
	draw   bool
	noSave bool
	all    bool
)

var logger = slog.Default()

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynscene",
		Short: "time-dynamic polygon scene player",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: pickScenario,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario|file.yaml|random]",
		Short: "play a scenario headless and store the frame statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addPlaybackFlags(runCmd)
	runCmd.Flags().BoolVar(&draw, "draw", false, "print the final frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&all, "all", false, "run every bundled scenario concurrently")

	liveCmd := &cobra.Command{
		Use:   "live [scenario|file.yaml|random]",
		Short: "play a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addPlaybackFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [scenario|file.yaml]",
		Short: "show how each object of a scenario is drawn at its start",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectScenario,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list bundled scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOBJECTS\tEVENTS\tDESCRIPTION")
			for _, name := range scenario.Names() {
				s, err := scenario.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Name, len(s.Objects), len(s.Events), s.Description)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, inspectCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPlaybackFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "seconds of scene time per frame")
	cmd.Flags().Float64Var(&duration, "time", 0, "run length in seconds (0: scenario default)")
	cmd.Flags().Float64Var(&multiplier, "speed", config.DefaultMultiplier, "clock multiplier")
	cmd.Flags().StringVar(&rangeName, "range", config.DefaultRange, "clock range (unbounded, clamped, loop)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&objects, "objects", 100, "object count (random)")
	cmd.Flags().Float64Var(&moving, "moving", 0.25, "share of moving objects (random)")
	cmd.Flags().IntVar(&churn, "churn", 20, "add/remove events (random)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (random, 0: time based)")
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return nil
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name != "" {
		cfg.Scenario = name
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg.Step, cfg.Duration, cfg.Multiplier, cfg.Range = p.Step, p.Duration, p.Multiplier, p.Range
		if p.Random.Objects > 0 {
			cfg.Random = p.Random
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if name != "" {
			fileCfg.Scenario = name
		}
		cfg = fileCfg
		if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
			if err := setupLogging(cfg.LogLevel); err != nil {
				return nil, err
			}
		}
	}

	flags := cmd.Flags()
	if flags.Changed("step") || cfg.Step == 0 {
		cfg.Step = step
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("speed") {
		cfg.Multiplier = multiplier
	}
	if flags.Changed("range") {
		cfg.Range = rangeName
	}
	if flags.Changed("objects") {
		cfg.Random.Objects = objects
	}
	if flags.Changed("moving") {
		cfg.Random.Moving = moving
	}
	if flags.Changed("churn") {
		cfg.Random.Churn = churn
	}
	if flags.Changed("seed") {
		cfg.Random.Seed = seed
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, cfg.Validate()
}

// storeDir prefers --data, then a config file's data_dir.
func storeDir(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("data") || configFile == "" || cfg.DataDir == "" {
		return dataDir
	}
	return cfg.DataDir
}

func loadScenario(cfg *config.Config) (*scenario.Scenario, error) {
	if cfg.Scenario == "random" {
		return scenario.Random(scenario.RandomConfig{
			Objects:  cfg.Random.Objects,
			Duration: cfg.Duration,
			Moving:   cfg.Random.Moving,
			Churn:    cfg.Random.Churn,
			Seed:     cfg.Random.Seed,
		})
	}
	return scenario.Resolve(cfg.Scenario)
}

// setup builds the scene, visualizers and player for one scenario.
type setup struct {
	built  *scenario.Built
	scene  *render.HeadlessScene
	group  *visualizer.Group
	player *sim.Player
	run    sim.Config
}

func newSetup(cfg *config.Config) (*setup, error) {
	s, err := loadScenario(cfg)
	if err != nil {
		return nil, err
	}
	built, err := s.Build()
	if err != nil {
		return nil, err
	}
	runCfg, err := cfg.SimConfig(built.Duration)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", built.Name, err)
	}

	sc := render.NewScene()
	vis, err := visualizer.NewPolygonVisualizer(sc, nil, visualizer.WithLogger(logger.With("scenario", built.Name)))
	if err != nil {
		return nil, err
	}
	group, err := visualizer.NewGroup(built.Collection, vis)
	if err != nil {
		return nil, err
	}

	player := sim.New(group, logger.With("scenario", built.Name))
	player.Schedule(built.Events...)
	for _, m := range metrics.Default() {
		player.AddMetric(m)
	}
	return &setup{built: built, scene: sc, group: group, player: player, run: runCfg}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	if all {
		return runAll(cmd)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	su, err := newSetup(cfg)
	if err != nil {
		return err
	}
	defer su.group.Destroy()

	ctx, cancel := signalContext()
	defer cancel()

	started := time.Now()
	result, err := su.player.Run(ctx, su.built.Start, su.run)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	last := result.Last().Stats
	fmt.Printf("scenario: %s\n", su.built.Name)
	fmt.Printf("frames: %d  events: %d  wall: %v\n", len(result.Frames), result.EventsApplied, elapsed.Round(time.Microsecond))
	fmt.Printf("batched: %d  standalone: %d  unused: %d  rebuilds: %d\n", last.Batched, last.Standalone, last.Unused, last.Rebuilds)
	printMetrics(result.Metrics)

	if draw {
		fmt.Println()
		fmt.Print(viz.Snapshot(su.scene, 60, 20, true))
	}

	if noSave {
		return nil
	}
	st := storage.New(storeDir(cmd, cfg))
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{Scenario: su.built.Name, Config: su.run}, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runAll(cmd *cobra.Command) error {
	names := scenario.Names()
	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		cfg, err := resolveConfig(cmd, name)
		if err != nil {
			return err
		}
		su, err := newSetup(cfg)
		if err != nil {
			return err
		}
		defer su.group.Destroy()
		jobs = append(jobs, sim.Job{
			Name:   name,
			Start:  su.built.Start,
			Config: su.run,
			Build:  func() (*sim.Player, error) { return su.player, nil },
		})
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := sim.RunAll(ctx, jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tFRAMES\tREBUILDS\tWRITES/FRAME\tREUSE\tPEAK")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.2f\t%.2f\t%.0f\n",
			jobs[i].Name,
			len(r.Frames),
			r.Metrics["rebuilds"],
			r.Metrics["attribute_writes"],
			r.Metrics["reuse_ratio"],
			r.Metrics["peak_standalone"],
		)
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	for _, metric := range metrics.Default() {
		if v, ok := m[metric.Name()]; ok {
			fmt.Printf("  %-18s %.3f\n", metric.Name(), v)
		}
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	if err := viz.SetTheme(cfg.Theme); err != nil {
		return err
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(viz.NewModel(session), tea.WithAltScreen()).Run()
	return err
}

func openSession(cfg *config.Config) (viz.Session, error) {
	su, err := newSetup(cfg)
	if err != nil {
		return viz.Session{}, err
	}
	clk, err := clock.New(su.built.Start, su.built.Start.Add(su.run.Duration), su.run.Step)
	if err != nil {
		return viz.Session{}, err
	}
	clk.Multiplier = su.run.Multiplier
	clk.Range = su.run.Range
	return viz.Session{Name: su.built.Name, Scene: su.scene, Player: su.player, Clock: clk}, nil
}

// pickScenario opens the scenario menu when no command is given.
func pickScenario(cmd *cobra.Command, args []string) error {
	names := scenario.Names()
	details := make(map[string]string, len(names))
	for _, name := range names {
		if s, err := scenario.Builtin(name); err == nil {
			details[name] = s.Description
		}
	}
	names = append(names, "random")
	details["random"] = "generated stress scene"

	open := func(name string) (viz.Session, error) {
		cfg := config.DefaultConfig()
		cfg.Scenario = name
		return openSession(cfg)
	}
	_, err := tea.NewProgram(viz.NewPicker(names, details, open), tea.WithAltScreen()).Run()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tSTEP\tFRAMES\tREBUILDS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.3fs\t%d\t%.0f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Step,
			run.Frames,
			run.Metrics["rebuilds"],
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
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(visualizer.Stats) int
	}{
		{"batched instances", func(s visualizer.Stats) int { return s.Batched }},
		{"standalone primitives", func(s visualizer.Stats) int { return s.Standalone }},
		{"unused primitives", func(s visualizer.Stats) int { return s.Unused }},
		{"attribute writes", func(s visualizer.Stats) int { return s.ColorWrites + s.ShowWrites }},
	}
	for _, sr := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = float64(sr.value(f.Stats))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(sr.caption))
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
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

	result := &sim.Result{
		Start:         meta.Start,
		Frames:        make([]sim.Frame, len(frames)),
		Metrics:       meta.Metrics,
		EventsApplied: meta.Events,
	}
	for i, f := range frames {
		result.Frames[i] = sim.Frame{
			Index: f.Index,
			Time:  meta.Start.Add(time.Duration(f.Seconds * float64(time.Second))),
			Stats: f.Stats,
		}
	}

	rng, err := clock.ParseRange(meta.Range)
	if err != nil {
		return err
	}
	run := storage.Run{
		Scenario: meta.Scenario,
		Config: sim.Config{
			Step:       time.Duration(meta.Step * float64(time.Second)),
			Duration:   time.Duration(meta.Duration * float64(time.Second)),
			Multiplier: meta.Multiplier,
			Range:      rng,
		},
	}
	return storage.ExportJSON("-", run, result)
}

func inspectScenario(cmd *cobra.Command, args []string) error {
	s, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	built, err := s.Build()
	if err != nil {
		return err
	}

	sc := render.NewScene()
	vis, err := visualizer.NewPolygonVisualizer(sc, built.Collection, visualizer.WithLogger(logger))
	if err != nil {
		return err
	}
	defer vis.Destroy()
	if err := vis.Update(built.Start); err != nil {
		return err
	}

	batched := make(map[string]bool)
	for _, id := range vis.BatchIDs() {
		batched[id] = true
	}

	fmt.Printf("scenario: %s\n", built.Name)
	fmt.Printf("start: %s\n\n", built.Start.Format(time.RFC3339))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tDRAWN AS\tVISIBLE\tMATERIAL")
	for _, spec := range s.Objects {
		obj := built.Objects[spec.ID]
		state := "present"
		if spec.Deferred {
			state = "deferred"
		}
		drawn := "-"
		switch {
		case spec.Deferred:
		case batched[spec.ID]:
			drawn = "batch"
		case obj.Polygon == nil || !obj.HasGeometry():
			drawn = "skipped"
		default:
			if _, ok := vis.StandalonePrimitive(spec.ID); ok {
				drawn = "standalone"
			} else {
				drawn = "standalone (hidden)"
			}
		}
		material := "none"
		if obj.Polygon != nil && obj.Polygon.Material != nil {
			material = obj.Polygon.Material.Kind().String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", spec.ID, state, drawn, obj.Visible(built.Start), material)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	st := vis.Stats()
	fmt.Printf("\nprimitives: %d  batched: %d  standalone: %d  skipped: %d\n",
		sc.Primitives().Len(), st.Batched, st.Standalone, st.Skipped)
	return nil
}
