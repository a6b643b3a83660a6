package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/deckgen/internal/config"
	"github.com/conneroisu/deckgen/internal/finalize"
	"github.com/conneroisu/deckgen/internal/watcher"
)

var finalizeCmd = &cobra.Command{
	Use:     "finalize [deck-dir]",
	Aliases: []string{"f"},
	Short:   "Consolidate styling and strip build artifacts from a deck",
	Long: `Finalize a materialized deck directory for distribution:

  1. ensure the standard assets/ directory exists
  2. merge loose stylesheets next to the markup entry into the canonical
     stylesheet, annotated with their origin, and delete the originals
  3. strip stylesheet links from the markup that no longer resolve
  4. remove ephemeral build artifacts (screenshots/, slides.pdf)

Steps are failure-isolated; a failing step is reported and the rest still
run. Re-running finalize on an already finalized deck is a no-op.

With --watch, deckgen keeps watching the deck directory and re-runs the
pipeline whenever a loose stylesheet appears or changes.

Examples:
  deckgen finalize decks/deck-demo
  deckgen finalize decks/deck-demo --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFinalize,
}

var finalizeWatch bool

func init() {
	rootCmd.AddCommand(finalizeCmd)

	finalizeCmd.Flags().BoolVarP(&finalizeWatch, "watch", "w", false, "Keep watching and re-finalize on stylesheet changes")
}

func runFinalize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("deck directory not found: %s", dir)
	}

	logger := newLogger(cfg)
	pipeline := finalize.New(logger)

	report := pipeline.Run(cmd.Context(), dir)
	printReport(report)

	if !finalizeWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(dir, cfg.Watch.Debounce(), watcher.StylesheetFilter,
		func(ctx context.Context, paths []string) {
			printReport(pipeline.Run(ctx, dir))
		}, logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("Watching %s for stylesheet changes (Ctrl-C to stop)\n", dir)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}

func printReport(report *finalize.Report) {
	for _, step := range report.Steps {
		switch {
		case step.Err != nil:
			fmt.Printf("✗ %s: %v\n", step.Name, step.Err)
		case step.Changed:
			fmt.Printf("✓ %s\n", step.Name)
		default:
			fmt.Printf("- %s: nothing to do\n", step.Name)
		}
		for _, warning := range step.Warnings {
			fmt.Printf("  ⚠ %s\n", warning)
		}
	}
}
