package main

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/round"
)

func shortRound() round.Config {
	cfg := round.DefaultConfig(800, 600)
	cfg.Seconds = 5
	return cfg
}

func TestPlayIsDeterministic(t *testing.T) {
	for _, name := range strategyNames {
		a, err := play(shortRound(), name, 7, 60)
		require.NoError(t, err)
		b, err := play(shortRound(), name, 7, 60)
		require.NoError(t, err)

		assert.Equal(t, a.Score, b.Score, name)
		assert.Equal(t, a.Rewards, b.Rewards, name)
		assert.Equal(t, a.Penalties, b.Penalties, name)
		assert.Len(t, a.Ticks, 5*60, name)
		assert.GreaterOrEqual(t, a.Score, 0, name)
	}
}

func TestPlayRejectsUnknownStrategy(t *testing.T) {
	_, err := play(shortRound(), "teleport", 1, 60)
	assert.ErrorContains(t, err, "teleport")
}

func TestCenterStrategy(t *testing.T) {
	field := bubble.DefaultField(800, 600)
	src, err := newStrategy("center", field, nil, nil)
	require.NoError(t, err)
	p, ok := src.Target(0)
	require.True(t, ok)
	assert.Equal(t, bubble.Point{X: 400, Y: 300}, p)
}

func TestChaserSlidesTowardLowestReward(t *testing.T) {
	field := bubble.DefaultField(800, 600)
	bubbles := []bubble.Bubble{
		{ID: 1, X: 700, Y: 100, Category: bubble.Reward},
		{ID: 2, X: 100, Y: 300, Category: bubble.Reward},
		{ID: 3, X: 300, Y: 400, Category: bubble.Penalty},
		{ID: 4, X: 790, Y: 550, Category: bubble.Reward},
	}
	src, err := newStrategy("chase", field, nil, func() round.Snapshot {
		return round.Snapshot{Bubbles: bubbles}
	})
	require.NoError(t, err)

	p, _ := src.Target(0)
	assert.InDelta(t, 480, p.Y, 1e-9)
	assert.InDelta(t, 400-chaseSpeed, p.X, 1e-9, "bubble 4 has passed the line")

	bubbles = nil
	q, _ := src.Target(0)
	assert.Equal(t, p, q, "holds position without a goal")
}

func TestWandererChangesOncePerSecond(t *testing.T) {
	field := bubble.DefaultField(800, 600)
	src, err := newStrategy("random", field, rand.New(rand.NewPCG(1, 2)), nil)
	require.NoError(t, err)

	a, _ := src.Target(0)
	b, _ := src.Target(500 * time.Millisecond)
	c, _ := src.Target(time.Second)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, p := range []bubble.Point{a, c} {
		assert.True(t, p.X >= 0 && p.X <= 800 && p.Y >= 0 && p.Y <= 600)
	}
}

func TestScoreStats(t *testing.T) {
	s := ScoreStats{Samples: []int{10, 0, 30, 20}}
	s.Finalize(3)
	assert.Equal(t, 0, s.Min)
	assert.Equal(t, 30, s.Max)
	assert.InDelta(t, 15, s.Mean, 1e-9)
	assert.InDelta(t, 15, s.Median, 1e-9)

	var total int
	for _, b := range s.Buckets {
		total += b.Count
		assert.LessOrEqual(t, b.Low, b.High)
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 0, s.Buckets[0].Low)
}

func TestScoreStatsSingleValue(t *testing.T) {
	s := ScoreStats{Samples: []int{5, 5, 5}}
	s.Finalize(10)
	require.Len(t, s.Buckets, 1)
	assert.Equal(t, 3, s.Buckets[0].Count)
}

func TestMergeSystems(t *testing.T) {
	merged := mergeSystems([]*ecs.SchedulerStats{
		{Systems: []ecs.SystemStats{
			{Name: "A", ExecutionCount: 2, TotalDuration: 4 * time.Millisecond, MinDuration: time.Millisecond, MaxDuration: 3 * time.Millisecond},
		}},
		{Systems: []ecs.SystemStats{
			{Name: "A", ExecutionCount: 2, TotalDuration: 8 * time.Millisecond, MinDuration: 2 * time.Millisecond, MaxDuration: 6 * time.Millisecond},
			{Name: "B", ExecutionCount: 1, TotalDuration: time.Millisecond, MinDuration: time.Millisecond, MaxDuration: time.Millisecond},
		}},
	})
	require.Len(t, merged, 2)
	assert.Equal(t, "A", merged[0].Name)
	assert.Equal(t, int64(4), merged[0].ExecutionCount)
	assert.Equal(t, 3*time.Millisecond, merged[0].AvgDuration)
	assert.Equal(t, time.Millisecond, merged[0].MinDuration)
	assert.Equal(t, 6*time.Millisecond, merged[0].MaxDuration)
}

func TestReportGenerate(t *testing.T) {
	out, err := play(shortRound(), "chase", 3, 60)
	require.NoError(t, err)

	report := &Report{Rounds: 1, Seconds: 5, TPS: 60, Strategy: "chase", Seed: 3}
	report.Scores.Samples = []int{out.Score}
	report.TickTime.Samples = out.Ticks
	report.TickTime.Finalize()
	report.Scores.Finalize(10)
	report.Systems = mergeSystems([]*ecs.SchedulerStats{out.Systems})

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "# Bubble Simulation Report")
	assert.Contains(t, buf.String(), "**Strategy:** chase")
	assert.Contains(t, buf.String(), "| KinematicsSystem |")
}
