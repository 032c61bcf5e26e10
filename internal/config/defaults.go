package config

import (
	_ "embed"

	"github.com/vovakirdan/jumpnbump/internal/game"
	"github.com/vovakirdan/jumpnbump/internal/input"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

//go:embed defaults/console.yaml
var defaultConsoleYAML []byte

// DefaultConsoleConfig returns the built-in configuration.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Region:   "ntsc",
		LogLevel: "info",
		Players: PlayersConfig{
			AI: []bool{false, false, false, false},
		},
		Input: InputConfig{
			LegacyAIGuard: false,
			QueueCapacity: input.DefaultQueueCapacity,
		},
		Sprites: SpritesConfig{
			Capacity:  sprite.DefaultCapacity,
			TableAddr: sprite.DefaultTableAddr,
			Overflow:  OverflowDrop,
		},
		Boot: BootConfig{
			Logos:         []string{"jnb", "sgdk"},
			LogoTimeoutMS: 5000,
			FadeFrames:    game.DefaultFadeFrames,
		},
		Host: HostConfig{
			Port1: "multitap",
			Port2: "standalone",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConsoleYAML
}
