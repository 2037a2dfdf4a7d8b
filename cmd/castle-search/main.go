package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/snow-ghost/seeker/castle"
	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/search"
	"github.com/snow-ghost/seeker/seeds"
)

func main() {
	samples := flag.Int("samples", castle.DefaultSamples, "training-set size")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")
	goal := flag.Float64("goal", 0, "goal fitness (0 = run to exhaustion)")
	maxExpansions := flag.Int("max-expansions", 0, "expansion cap (0 = unlimited)")
	seedsDir := flag.String("seeds-dir", "", "persist and reuse best allocations")
	quiet := flag.Bool("q", false, "suppress per-expansion output")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := []castle.SearcherOption{castle.WithSamples(*samples)}
	if *seed != 0 {
		opts = append(opts, castle.WithSeed(*seed))
	}
	if *goal > 0 {
		opts = append(opts, castle.WithGoalFitness(*goal))
	}

	var store seeds.Store
	if *seedsDir != "" {
		fsStore, err := seeds.NewFSStore(*seedsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed store: %v\n", err)
			os.Exit(1)
		}
		store = fsStore
		if best, ok, err := store.Best(castle.Domain); err == nil && ok {
			if c, err := castle.FromBytes(best.State); err == nil {
				fmt.Printf("warm start from seed with fitness %.0f\n", best.Fitness)
				opts = append(opts, castle.WithStart(c))
			}
		}
	}

	searcher := castle.NewSearcher(opts...)

	// The reporter closes over the engine to read its tracker, so the
	// engine variable is declared first and assigned below.
	var eng *search.Engine[castle.Castle]

	engineOpts := []search.Option[castle.Castle]{}
	if !*quiet {
		engineOpts = append(engineOpts, search.WithReporter[castle.Castle](
			core.ReporterFunc[castle.Castle](func(c castle.Castle, fitness float64) {
				best, _ := eng.Tracker().PeekBest()
				fmt.Printf("%4.0f: %v - best: %4.0f: %v\n",
					fitness, c.Troops(), best.Fitness, best.State.Troops())
			})))
	}
	if *maxExpansions > 0 {
		engineOpts = append(engineOpts, search.WithMaxExpansions[castle.Castle](*maxExpansions))
	}

	eng = search.NewEngine[castle.Castle](searcher, engineOpts...)

	began := time.Now()
	sol, err := eng.Run(context.Background())

	switch {
	case err == nil:
		fmt.Printf("goal reached: %.0f wins %v after %d expansions in %s\n",
			sol.Fitness, sol.State.Troops(), sol.Stats.Expanded, sol.Stats.Duration.Round(time.Millisecond))
		saveSeed(store, sol.State, sol.Fitness, searcher.SampleCount())
	case errors.Is(err, search.ErrExhausted) || errors.Is(err, search.ErrExpansionBudget):
		fmt.Println("no goal found, search space exhausted")
		if best, ok := eng.Tracker().PeekBest(); ok {
			fmt.Printf("best ever: %.0f wins %v (%d record highs, %s elapsed)\n",
				best.Fitness, best.State.Troops(), eng.Tracker().Len(), time.Since(began).Round(time.Millisecond))
			saveSeed(store, best.State, best.Fitness, searcher.SampleCount())
		}
	default:
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}
}

func saveSeed(store seeds.Store, c castle.Castle, fitness float64, samples int) {
	if store == nil {
		return
	}
	if best, ok, err := store.Best(castle.Domain); err == nil && ok && best.Fitness >= fitness {
		return
	}
	err := store.Save(seeds.Seed{
		Domain:    castle.Domain,
		State:     c.Bytes(),
		Fitness:   fitness,
		Samples:   samples,
		CreatedAt: time.Now(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed save: %v\n", err)
	}
}
