package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jumpnbump/internal/storage"
)

var (
	flagTraceLimit    int
	flagTraceOverruns bool
)

var traceCmd = &cobra.Command{
	Use:   "trace [run]",
	Short: "Show recorded frame traces",
	Long: `Without arguments lists the most recent runs. With a run ID prints the
run summary and its frames.

Examples:
  jnb trace
  jnb trace 3
  jnb trace 3 --overruns`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTrace,
}

func init() {
	traceCmd.Flags().IntVar(&flagTraceLimit, "limit", 20, "Maximum rows to show")
	traceCmd.Flags().BoolVar(&flagTraceOverruns, "overruns", false, "Only show frames that overran the refresh period")
}

func runTrace(cmd *cobra.Command, args []string) {
	if flagTracePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --trace is empty")
		os.Exit(1)
	}

	store, err := storage.Open(flagTracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if len(args) == 0 {
		err = listRuns(ctx, store)
	} else {
		var runID int64
		runID, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			err = fmt.Errorf("invalid run ID %q", args[0])
		} else {
			err = showRun(ctx, store, runID)
		}
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listRuns(ctx context.Context, store *storage.Store) error {
	runs, err := store.Runs(ctx, flagTraceLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'jnb play' to record one.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %-6s  %-14s  %s\n", "ID", "Started", "Region", "Topology", "Level")
	fmt.Printf("  %-5s  %-16s  %-6s  %-14s  %s\n", "--", "-------", "------", "--------", "-----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-16s  %-6s  %-14s  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.Region, r.Topology, r.Level)
	}
	return nil
}

func showRun(ctx context.Context, store *storage.Store, runID int64) error {
	sum, err := store.Summary(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d\n\n", runID)
	fmt.Printf("  frames:      %d\n", sum.Frames)
	fmt.Printf("  sprites:     max %d, avg %.1f\n", sum.MaxSprites, sum.AvgSprites)
	fmt.Printf("  overflows:   %d\n", sum.Overflows)
	fmt.Printf("  overruns:    %d\n", sum.Overruns)
	fmt.Printf("  worst frame: %s\n", sum.MaxWork)
	fmt.Println()

	frames, err := store.Frames(ctx, runID, flagTraceOverruns, flagTraceLimit)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		fmt.Println("No matching frames.")
		return nil
	}

	fmt.Printf("  %-8s  %-8s  %-14s  %-4s  %-7s  %-8s  %s\n", "Frame", "State", "Topology", "Keys", "Sprites", "Dropped", "Work")
	for _, f := range frames {
		mark := ""
		if f.Overrun {
			mark = " !"
		}
		fmt.Printf("  %-8d  %-8s  %-14s  %-4d  %-7d  %-8d  %s%s\n",
			f.Frame, f.State, f.Topology, f.KeyEvents, f.Sprites, f.Overflows, f.Work, mark)
	}
	return nil
}
