// Command bubble-sim plays rounds headlessly on virtual time with a scripted
// avatar and reports the score distribution and per-system timings.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/dragonbubbles/config"
	"github.com/plus3/dragonbubbles/ecs"
)

func main() {
	var (
		rounds         int
		strategy       string
		seed           uint64
		gcPauseMetrics bool
	)
	cfg, err := config.Load("bubble-sim", os.Args[1:], nil, func(fs *flag.FlagSet) {
		fs.IntVar(&rounds, "rounds", 100, "number of rounds to play")
		fs.StringVar(&strategy, "strategy", "chase", "avatar strategy: center, chase or random")
		fs.Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "base random seed")
		fs.BoolVar(&gcPauseMetrics, "gc-pause-metrics", false, "include GC pause totals in the report")
	})
	if err != nil {
		log.Fatalf("[sim] %v", err)
	}

	report := &Report{
		Rounds:         rounds,
		Seconds:        cfg.Round.Seconds,
		TPS:            cfg.Window.TPS,
		Strategy:       strategy,
		Seed:           seed,
		GCPauseMetrics: gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("[sim] playing %d rounds of %ds with the %s strategy", rounds, cfg.Round.Seconds, strategy)
	start := time.Now()
	systems := make([]*ecs.SchedulerStats, 0, rounds)
	for i := range rounds {
		out, err := play(cfg.RoundConfig(), strategy, seed+uint64(i), cfg.Window.TPS)
		if err != nil {
			log.Fatalf("[sim] round %d: %v", i, err)
		}
		report.Scores.Samples = append(report.Scores.Samples, out.Score)
		report.TickTime.Samples = append(report.TickTime.Samples, out.Ticks...)
		report.Rewards += out.Rewards
		report.Penalties += out.Penalties
		systems = append(systems, out.Systems)
	}
	report.TotalTime = time.Since(start)
	report.TickTime.Finalize()
	report.Scores.Finalize(10)
	report.Systems = mergeSystems(systems)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("[sim] finished")

	fmt.Println("\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("[sim] failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
