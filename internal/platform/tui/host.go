package tui

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpnbump/internal/config"
	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/frame"
	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/input"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

// NewConsoleFromConfig creates a console with the configured devices.
func NewConsoleFromConfig(cfg config.ConsoleConfig, logger *log.Logger) *Console {
	port1, port2 := cfg.PortTypes()
	return NewConsole(port1, port2, logger)
}

// NewDriver assembles the console core on top of c: the sprite table and
// key queue, the runtime context, the input multiplexer and the state
// machine running menu and level.
func NewDriver(cfg config.ConsoleConfig, seed int64, c *Console, menu game.Menu, level game.Level, logger *log.Logger) (*frame.Driver, error) {
	table, err := sprite.NewTable(cfg.Sprites.Capacity, cfg.Sprites.TableAddr, c)
	if err != nil {
		return nil, fmt.Errorf("tui: sprite table: %w", err)
	}
	keys := input.NewQueue(cfg.Input.QueueCapacity)

	rt := game.NewRuntime(core.RuntimeConfig{Region: cfg.RegionValue(), Seed: seed}, table, keys)
	mux := input.NewMultiplexer(c, keys, input.Config{LegacyAIGuard: cfg.Input.LegacyAIGuard})
	machine := game.NewMachine(game.Collaborators{
		Menu:    menu,
		Level:   level,
		Display: c,
		Music:   c,
	}, cfg.Boot.FadeFrames, logger)

	hw := frame.Hardware{Ports: c, VSync: c, Display: c, Splash: c}
	d := frame.New(rt, mux, machine, hw, frame.OptionsFromConfig(cfg), logger)
	d.SetTracer(c)
	return d, nil
}
