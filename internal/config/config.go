// Package config provides YAML-based configuration loading for the
// console core and its host platform.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

// ConsoleConfig contains all configuration for one run.
type ConsoleConfig struct {
	Region   string        `yaml:"region"`    // "ntsc" or "pal"
	LogLevel string        `yaml:"log_level"` // debug, info, warn, error
	Players  PlayersConfig `yaml:"players"`
	Input    InputConfig   `yaml:"input"`
	Sprites  SpritesConfig `yaml:"sprites"`
	Boot     BootConfig    `yaml:"boot"`
	Host     HostConfig    `yaml:"host"`
}

// PlayersConfig selects which slots the computer plays.
type PlayersConfig struct {
	AI []bool `yaml:"ai"`
}

// InputConfig controls controller sampling.
type InputConfig struct {
	LegacyAIGuard bool `yaml:"legacy_ai_guard"` // guard slot 4 with slot 3's AI flag
	QueueCapacity int  `yaml:"queue_capacity"`
}

// SpritesConfig controls the sprite table.
type SpritesConfig struct {
	Capacity  int            `yaml:"capacity"`
	TableAddr uint16         `yaml:"table_addr"`
	Overflow  OverflowPolicy `yaml:"overflow"`
}

// BootConfig controls the logo sequence.
type BootConfig struct {
	Logos         []string `yaml:"logos"`
	LogoTimeoutMS int      `yaml:"logo_timeout_ms"`
	FadeFrames    int      `yaml:"fade_frames"`
}

// HostConfig describes what the virtual console has plugged in.
type HostConfig struct {
	Port1 string `yaml:"port1"` // standalone, multitap, none
	Port2 string `yaml:"port2"`
}

// VRAMSize is the size of the console's video memory. The sprite table
// must fit inside it.
const VRAMSize = 0x10000

// OverflowPolicy decides what happens when entities emit more sprites
// than the table holds.
type OverflowPolicy string

const (
	// OverflowDrop discards extra sprites and keeps running.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowFatal stops the frame loop with an error.
	OverflowFatal OverflowPolicy = "fatal"
)

// Validate checks the configuration for values the core cannot run with.
func (c ConsoleConfig) Validate() error {
	var errs []error

	if _, ok := core.ParseRegion(c.Region); !ok {
		errs = append(errs, fmt.Errorf("region %q must be ntsc or pal", c.Region))
	}
	if len(c.Players.AI) > core.MaxPlayers {
		errs = append(errs, fmt.Errorf("players.ai has %d entries, max %d", len(c.Players.AI), core.MaxPlayers))
	}
	if c.Sprites.Capacity < 1 || c.Sprites.Capacity > sprite.MaxCapacity {
		errs = append(errs, fmt.Errorf("sprites.capacity %d out of range 1..%d", c.Sprites.Capacity, sprite.MaxCapacity))
	}
	if end := int(c.Sprites.TableAddr) + c.Sprites.Capacity*sprite.DescriptorBytes; end > VRAMSize {
		errs = append(errs, fmt.Errorf("sprites.table_addr %#04x with capacity %d ends at %#x, past video memory (%#x)",
			c.Sprites.TableAddr, c.Sprites.Capacity, end, VRAMSize))
	}
	switch c.Sprites.Overflow {
	case OverflowDrop, OverflowFatal:
	default:
		errs = append(errs, fmt.Errorf("sprites.overflow %q must be drop or fatal", c.Sprites.Overflow))
	}
	if c.Input.QueueCapacity < core.MaxPlayers*3 {
		errs = append(errs, fmt.Errorf("input.queue_capacity %d below one frame of events (%d)",
			c.Input.QueueCapacity, core.MaxPlayers*3))
	}
	if c.Boot.LogoTimeoutMS < 0 {
		errs = append(errs, errors.New("boot.logo_timeout_ms must not be negative"))
	}
	ports := []struct{ name, value string }{
		{"host.port1", c.Host.Port1},
		{"host.port2", c.Host.Port2},
	}
	for _, p := range ports {
		if _, ok := core.ParsePortType(p.value); !ok {
			errs = append(errs, fmt.Errorf("%s %q must be standalone, multitap or none", p.name, p.value))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// RegionValue returns the parsed region, NTSC when unset.
func (c ConsoleConfig) RegionValue() core.Region {
	r, _ := core.ParseRegion(c.Region)
	return r
}

// PortTypes returns the parsed host port types.
func (c ConsoleConfig) PortTypes() (core.PortType, core.PortType) {
	p1, _ := core.ParsePortType(c.Host.Port1)
	p2, _ := core.ParsePortType(c.Host.Port2)
	return p1, p2
}
