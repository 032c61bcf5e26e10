package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/jumpnbump/internal/config"
	"github.com/vovakirdan/jumpnbump/internal/demo"
	"github.com/vovakirdan/jumpnbump/internal/platform/tui"
	"github.com/vovakirdan/jumpnbump/internal/registry"
	"github.com/vovakirdan/jumpnbump/internal/storage"
)

var (
	flagRegion      string
	flagLegacyGuard bool
	flagOverflow    string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Boot the console and play a level",
	Long: `Boots the virtual console: multi-tap detection, boot logos (any button
skips), title menu, then the level.

Controls:
  Player 1   Left/Right, Up or Space to jump, Enter start
  Player 2   A/D, W to jump, Tab start
  Player 3   J/L, I to jump, U start
  Player 4   4/6, 8 to jump, 5 start
  ?          Toggle help
  Esc/Ctrl+C Quit

Players 3 and 4 need a multi-tap (host.port1: multitap, the default).

Examples:
  jnb play
  jnb play arena --region pal
  jnb play --seed 42 --trace ./trace.db`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRegion, "region", "", "Override region: ntsc or pal")
	playCmd.Flags().BoolVar(&flagLegacyGuard, "legacy-ai-guard", false, "Guard player 4 with player 3's AI flag like the cartridge")
	playCmd.Flags().StringVar(&flagOverflow, "overflow", "", "Override sprite overflow policy: drop or fatal")
}

func runPlay(cmd *cobra.Command, args []string) {
	levelID := "arena"
	if len(args) > 0 {
		levelID = args[0]
	}
	if !registry.Exists(levelID) {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", levelID)
		fmt.Fprintln(os.Stderr, "Run 'jnb list' to see available levels.")
		os.Exit(1)
	}

	cfg, err := loadPlayConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}
	if w, h, termErr := term.GetSize(fd); termErr == nil && (w < tui.ScreenCols+2 || h < tui.ScreenRows+4) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the console needs %dx%d\n", w, h, tui.ScreenCols+2, tui.ScreenRows+4)
	}

	logger, closeLog, err := newLogger(flagLogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting", "level", levelID, "region", cfg.Region, "seed", seed)

	level, err := registry.Create(levelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating level: %v\n", err)
		os.Exit(1)
	}

	console := tui.NewConsoleFromConfig(cfg, logger)
	driver, err := tui.NewDriver(cfg, seed, console, demo.NewMenu(), level, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Frame tracing is best effort: the console runs without it.
	var recorder *storage.Recorder
	if flagTracePath != "" {
		store, err := storage.Open(flagTracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open trace database: %v\n", err)
		} else {
			defer store.Close()
			recorder, err = storage.NewRecorder(ctx, store, cfg.Region, levelID, 0)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not start trace: %v\n", err)
			} else {
				console.SetTracer(recorder)
			}
		}
	}

	runErr := tui.Run(ctx, tui.Options{
		Console:   console,
		Driver:    driver,
		Level:     level.Title(),
		TableAddr: cfg.Sprites.TableAddr,
		Capacity:  cfg.Sprites.Capacity,
	})

	if recorder != nil {
		if err := recorder.Flush(context.Background()); err != nil {
			logger.Error("trace flush failed", "error", err)
		}
		st := driver.Stats()
		fmt.Printf("Recorded run %d: %d frames, %d sprite overflows, %d overruns\n",
			recorder.RunID(), st.Frames, st.Overflows, st.Overruns)
	}

	if runErr != nil {
		logger.Error("console stopped", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error running console: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}

// loadPlayConfig loads the console config and applies command line
// overrides.
func loadPlayConfig(cmd *cobra.Command) (config.ConsoleConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagRegion != "" {
		cfg.Region = flagRegion
	}
	if cmd.Flags().Changed("legacy-ai-guard") {
		cfg.Input.LegacyAIGuard = flagLegacyGuard
	}
	if flagOverflow != "" {
		cfg.Sprites.Overflow = config.OverflowPolicy(flagOverflow)
	}
	return cfg, cfg.Validate()
}
