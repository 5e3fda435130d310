// orrery - interactive solar-system model.
//
// Controls:
//
//	Arrows      - Pan the free camera
//	Mouse drag  - Pan (free) or look around (anchored)
//	Scroll      - Zoom
//	W/S, A/D    - Pitch and yaw
//	+/-         - Field of view
//	P/O         - Step size up/down
//	Q           - Pause/resume the orbits
//	K           - Freeze/unfreeze the camera
//	L           - Single camera step while frozen
//	1/2         - Lock the anchored camera onto the sun/earth
//	[/]         - Ride along with the previous/next body
//	F           - Free camera
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/config"
	"github.com/Carmen-Shannon/orrery/engine/window"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// GLFW must run on the main thread.
func init() {
	runtime.LockOSThread()
}

type options struct {
	configPath string
	width      int
	height     int
	tickRate   int
	profile    bool
	debugPanel bool
	headless   bool
	anchor     string
	logLevel   string
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "orrery",
		Short: "Interactive solar-system model",
		Long: `orrery - Interactive solar-system model

Animates the sun, the eight planets and the moon on their orbits and lets you fly a
free camera around the system or ride along with any body.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML or YAML config file (reloaded on change)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Window width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Window height in pixels")
	cmd.Flags().IntVar(&opts.tickRate, "tick-rate", 0, "Frames per second")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "Log frame rate and memory statistics")
	cmd.Flags().BoolVar(&opts.debugPanel, "debug-panel", false, "Print the camera state to the terminal")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Run without a window")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "", "Start anchored to a body (sun, mercury, ..., moon)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engineOpts := []engine.EngineBuilderOption{
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
		engine.WithProfiling(opts.profile),
	}

	if !opts.headless {
		w, err := window.NewWindow(
			window.WithTitle(common.Coalesce(cfg.Engine.Title, "orrery")),
			window.WithWidth(cfg.Engine.Width),
			window.WithHeight(cfg.Engine.Height),
		)
		if err != nil {
			return err
		}
		logger.Info("window opened",
			slog.Int("width", w.Width()),
			slog.Int("height", w.Height()),
		)
		engineOpts = append(engineOpts, engine.WithWindow(w))
	}

	eng, err := engine.NewEngine(engineOpts...)
	if err != nil {
		return err
	}

	if opts.anchor != "" {
		id, err := body.Parse(opts.anchor)
		if err != nil {
			return fmt.Errorf("invalid --anchor: %w", err)
		}
		eng.SelectBody(id)
	}

	if opts.configPath != "" {
		err := config.Watch(ctx, opts.configPath, func(c *config.Config, err error) {
			if c == nil {
				logger.Warn("config reload failed", slog.Any("error", err))
				return
			}
			applyFlags(cmd, opts, c)
			eng.ApplyConfig(c)
		})
		if err != nil {
			logger.Warn("config hot reload disabled", slog.Any("error", err))
		}
	}

	if opts.debugPanel {
		panel := newDebugPanel(termenv.NewOutput(os.Stdout), 100*time.Millisecond)
		defer panel.close()
		eng.SetTickCallback(func(dt float32) {
			panel.update(eng.Snapshot(), dt)
		})
	}

	return eng.Run(ctx)
}

// loadConfig reads the config file, if any, and applies explicitly set flags over it. Only an
// unreadable file fails; unknown names are left for the engine to report.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); cfg == nil {
			return nil, err
		}
	}
	applyFlags(nil, opts, cfg)
	return cfg, nil
}

// applyFlags overrides config values with non-zero flags. A nil cmd applies every non-zero flag;
// otherwise only flags set on the command line are applied.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	set := func(name string) bool {
		return cmd == nil || cmd.Flags().Changed(name)
	}
	if opts.width > 0 && set("width") {
		cfg.Engine.Width = opts.width
	}
	if opts.height > 0 && set("height") {
		cfg.Engine.Height = opts.height
	}
	if opts.tickRate > 0 && set("tick-rate") {
		cfg.Engine.TickRate = opts.tickRate
	}
	if opts.profile {
		cfg.Engine.Profile = true
	}
}
