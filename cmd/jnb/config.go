package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpnbump/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Prints the built-in console configuration as YAML. With --config the
file is loaded and validated instead, and the result is reported.`,
	Run: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) {
	if flagConfig == "" {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p1, p2 := cfg.PortTypes()
	fmt.Printf("%s is valid\n", flagConfig)
	fmt.Printf("  region:   %s (%d Hz)\n", cfg.RegionValue(), cfg.RegionValue().RefreshRate())
	fmt.Printf("  ports:    %s, %s\n", p1, p2)
	fmt.Printf("  sprites:  %d at %#04x, overflow %s\n", cfg.Sprites.Capacity, cfg.Sprites.TableAddr, cfg.Sprites.Overflow)
	fmt.Printf("  ai slots: %v\n", cfg.Players.AI)
}
