package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/san-kum/synapse/internal/config"
	"github.com/san-kum/synapse/internal/engine"
	"github.com/san-kum/synapse/internal/export"
	"github.com/san-kum/synapse/internal/graph"
	"github.com/san-kum/synapse/internal/render"
	"github.com/san-kum/synapse/internal/storage"
	"github.com/san-kum/synapse/internal/stream"
	"github.com/san-kum/synapse/internal/tui"
)

var (
	configFile string
	preset     string
	themeName  string
	renderMode string
	fps        int
	nodeCount  int
	layerCount int
	particles  int
	connDist   float64
	watch      bool
	verbose    bool
	addr       string
	interval   time.Duration
	asJSON     bool
	dataDir    string
	saveScene  bool
	svgPath    string
	exportOut  string
	svgWidth   int
	svgHeight  int
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "synapse",
		Short: "animated network visualization",
		RunE:  runTUI,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".synapse", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "interactive terminal visualization",
		RunE:  runTUI,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "reload config file on change")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream scene snapshots over websockets",
		RunE:  runServe,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8422", "listen address")
	serveCmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "broadcast interval")

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "generate a scene and print its shape",
		RunE:  runGen,
	}
	addSceneFlags(genCmd)
	genCmd.Flags().BoolVar(&asJSON, "json", false, "emit the snapshot as JSON")
	genCmd.Flags().Int64Var(&seed, "seed", 0, "generator seed (0 uses the clock)")
	genCmd.Flags().BoolVar(&saveScene, "save", false, "archive the snapshot under the data directory")
	genCmd.Flags().StringVar(&svgPath, "svg", "", "also render the snapshot to an SVG file")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list archived scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(scenes) == 0 {
				fmt.Println("no archived scenes")
				return nil
			}
			for _, sc := range scenes {
				fmt.Printf("  %-20s %s  nodes=%d edges=%d particles=%d\n",
					sc.ID, sc.Timestamp.Format(time.DateTime), sc.Nodes, sc.Edges, sc.Particles)
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [scene_id]",
		Short: "render an archived scene to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "scene.svg", "output file")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "synapse.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p, err := config.GetPreset(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-10s nodes=%d layers=%d particles=%d\n",
					name, p.NodeCount, p.LayerCount, p.ParticleCount)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, serveCmd, genCmd, initCmd, presetsCmd, scenesCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&themeName, "theme", "", "color theme")
	cmd.Flags().StringVar(&renderMode, "renderer", "", "renderer (auto, spatial, flat)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate")
	cmd.Flags().IntVar(&nodeCount, "nodes", 0, "node count")
	cmd.Flags().IntVar(&layerCount, "layers", 0, "layer count")
	cmd.Flags().IntVar(&particles, "particles", 0, "particle count")
	cmd.Flags().Float64Var(&connDist, "distance", 0, "connection distance")
}

// loadConfig resolves preset, config file and flag overrides, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("theme") {
		cfg.Theme = themeName
	}
	if cmd.Flags().Changed("renderer") {
		cfg.Renderer = renderMode
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("nodes") {
		cfg.NodeCount = nodeCount
	}
	if cmd.Flags().Changed("layers") {
		cfg.LayerCount = layerCount
	}
	if cmd.Flags().Changed("particles") {
		cfg.ParticleCount = particles
	}
	if cmd.Flags().Changed("distance") {
		cfg.ConnDistance = connDist
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchPath := ""
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch requires --config")
		}
		watchPath = configFile
	}
	return tui.Run(ctx, cfg, watchPath, newLogger())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	theme := render.GetTheme(cfg.Theme)
	eng := engine.New(engine.Options{
		Graph:    cfg.GraphConfig(theme.PaletteSize()),
		Rates:    cfg.Rates(),
		Renderer: "flat", // headless: no terminal capabilities to probe
		FPS:      cfg.FPS,
		Logger:   log,
	})
	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer eng.Dispose()

	srv := stream.NewServer(eng, interval, log)
	go func() {
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("broadcast loop stopped", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s\n", eng.State())
	})

	httpSrv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("streaming on ws://%s/ws\n", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	theme := render.GetTheme(cfg.Theme)
	gc := cfg.GraphConfig(theme.PaletteSize())
	var scene *graph.Scene
	if seed != 0 {
		scene = graph.GenerateSeeded(gc, seed)
	} else {
		scene = graph.Generate(gc)
	}
	snap := scene.Snapshot()

	if saveScene {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(snap)
		if err != nil {
			return err
		}
		fmt.Printf("archived as %s\n", id)
	}
	if svgPath != "" {
		if err := export.WriteSVG(svgPath, snap, 800, 600); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)

	bold.Println("scene")
	fmt.Printf("  %s %s\n", dim.Sprint("nodes"), cyan.Sprint(len(scene.Nodes)))
	fmt.Printf("  %s %s\n", dim.Sprint("edges"), cyan.Sprint(len(scene.Edges)))
	fmt.Printf("  %s %s\n", dim.Sprint("particles"), cyan.Sprint(len(scene.Particles)))

	degrees := scene.OutDegrees()
	maxDeg := 0
	for _, d := range degrees {
		if d > maxDeg {
			maxDeg = d
		}
	}
	fmt.Printf("  %s %s\n", dim.Sprint("max degree"), cyan.Sprint(maxDeg))

	perLayer := make(map[int]int)
	for _, n := range scene.Nodes {
		perLayer[n.Layer]++
	}
	bold.Println("layers")
	for i := 0; i < cfg.LayerCount; i++ {
		fmt.Printf("  %s %s\n", dim.Sprintf("layer %d", i), cyan.Sprint(perLayer[i]))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	snap, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	if err := export.WriteSVG(exportOut, snap, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", exportOut)
	return nil
}
