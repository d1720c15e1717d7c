// Command quartic runs the a⁴+b⁴+c⁴=d⁴ search up to a compiled-in bound.
//
// There are no flags. QUARTIC_WORKERS overrides the scan fan-out and
// QUARTIC_SNAPSHOT_DIR, when set, persists the candidate differences so a
// re-run skips the generation phase. The process exits 0 whether or not a
// solution was found.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/hupe1980/quartic"
	"github.com/hupe1980/quartic/blobstore"
	"github.com/hupe1980/quartic/internal/sieve"
)

const maxD = 500000

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "quartic:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []quartic.Option{
		quartic.WithLogger(quartic.NewTextLogger(slog.LevelWarn)),
		quartic.WithOnTask(printTask),
	}
	if dir := os.Getenv("QUARTIC_SNAPSHOT_DIR"); dir != "" {
		store, err := blobstore.NewLocalStore(dir)
		if err != nil {
			return err
		}
		opts = append(opts, quartic.WithSnapshotStore(store))
	}

	engine, err := quartic.New(maxD, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Searching up to D = %d\n", maxD)

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if !result.SnapshotReused {
		fmt.Printf("Found %d good pairs (%.4f%%)\n", result.GoodPairs,
			100*float64(result.GoodPairs)/float64(sieve.M)/float64(sieve.M))
	}
	fmt.Printf("Found %d candidate differences (%.4f%%)\n", result.Candidates,
		100*float64(result.Candidates)/float64(maxD)/float64(maxD))

	for _, sol := range result.Solutions {
		fmt.Println()
		fmt.Println("Solution found:", sol)
	}
	return nil
}

func printTask(task string, took, total time.Duration) {
	fmt.Printf("\n=== %s ===\n", task)
	fmt.Printf("Time: %.3fs\n", took.Seconds())
	fmt.Printf("Total: %.3fs\n", total.Seconds())
}
