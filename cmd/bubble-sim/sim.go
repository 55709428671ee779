package main

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/round"
)

// outcome is the result of one simulated round.
type outcome struct {
	Score     int
	Rewards   int
	Penalties int
	Ticks     []time.Duration
	Systems   *ecs.SchedulerStats
}

// play runs one round on virtual time: tps ticks, then a SecondTick, until
// the countdown ends.
func play(cfg round.Config, strategy string, seed uint64, tps int) (outcome, error) {
	var out outcome
	var r *round.Round

	feedback := round.FeedbackFunc(func(c round.Cue) {
		switch c {
		case round.CueReward:
			out.Rewards++
		case round.CuePenalty:
			out.Penalties++
		}
	})

	src, err := newStrategy(strategy, cfg.Field, rand.New(rand.NewPCG(seed, 2)), func() round.Snapshot {
		return r.Snapshot()
	})
	if err != nil {
		return out, err
	}

	r = round.New(cfg,
		round.WithSource(src),
		round.WithFeedback(feedback),
		round.WithRand(rand.New(rand.NewPCG(seed, 1))),
	)
	r.Start()

	frame := time.Second / time.Duration(tps)
	var now time.Duration
	for !r.Ended() {
		for range tps {
			now += frame
			start := time.Now()
			r.Tick(now)
			out.Ticks = append(out.Ticks, time.Since(start))
		}
		r.SecondTick()
	}

	out.Score = r.Snapshot().Score
	out.Systems = r.SchedulerStats()
	return out, nil
}
