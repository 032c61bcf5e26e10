// jnb runs the Jump 'n Bump console core on a virtual console in the
// terminal.
//
// Usage:
//
//	jnb play [level]      - Boot the console and play a level (default: arena)
//	jnb list              - List available levels
//	jnb trace [run]       - Show recorded frame traces
//	jnb config            - Print the default configuration
//
// Global flags:
//
//	--config <path>  - Console configuration YAML
//	--seed <value>   - RNG seed for reproducible gameplay
//	--log <path>     - Log file (default: ~/.jnb/jnb.log)
//	--trace <path>   - Frame trace database (default: ~/.jnb/trace.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import levels to register them
	_ "github.com/vovakirdan/jumpnbump/internal/demo"
)

var (
	// Global flags
	flagConfig    string
	flagSeed      int64
	flagLogPath   string
	flagTracePath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jnb",
	Short: "Jump 'n Bump console core in your terminal",
	Long: `jnb boots a virtual Mega Drive style console in the terminal and runs
the Jump 'n Bump frame loop on it: up to four players on a multi-tap,
one sprite table per frame, boot logos, title menu and a level.

Available commands:
  play     - Boot the console and play a level
  list     - Show all available levels
  trace    - Inspect recorded frame traces
  config   - Print the default configuration

Examples:
  jnb play
  jnb play arena --seed 42
  jnb trace
  jnb config > ~/.jnb/configs/console.yaml`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to console config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.jnb/jnb.log", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&flagTracePath, "trace", "~/.jnb/trace.db", "Path to frame trace database (empty disables tracing)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(configCmd)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// newLogger opens the log file. The terminal belongs to the console
// while it runs, so nothing is logged to stderr.
func newLogger(path, level string) (*log.Logger, func(), error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "jnb",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, func() { f.Close() }, nil
}
