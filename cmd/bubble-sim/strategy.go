package main

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/round"
)

var strategyNames = []string{"center", "chase", "random"}

// chaseSpeed is how far the chasing avatar moves per tick, in pixels.
const chaseSpeed = 12.0

// newStrategy builds an avatar source that plays the round seen through
// view. view is only called from inside Tick.
func newStrategy(name string, field bubble.Field, rng *rand.Rand, view func() round.Snapshot) (avatar.Source, error) {
	switch name {
	case "center":
		return avatar.Fixed(field.Center()), nil
	case "chase":
		return &chaser{field: field, view: view, at: field.Center()}, nil
	case "random":
		return &wanderer{field: field, rng: rng, last: -time.Second}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, strategyNames)
}

// chaser stays on a line near the bottom and slides toward the lowest
// reward bubble that has not passed it yet.
type chaser struct {
	field bubble.Field
	view  func() round.Snapshot
	at    bubble.Point
}

func (c *chaser) line() float64 { return c.field.Height * 0.8 }

func (c *chaser) Target(time.Duration) (bubble.Point, bool) {
	c.at.Y = c.line()
	goal, ok := c.goal(c.view().Bubbles)
	if ok {
		dx := goal - c.at.X
		c.at.X += math.Copysign(math.Min(math.Abs(dx), chaseSpeed), dx)
	}
	return c.at, true
}

func (c *chaser) goal(bubbles []bubble.Bubble) (float64, bool) {
	candidates := slices.DeleteFunc(slices.Clone(bubbles), func(b bubble.Bubble) bool {
		return b.Category != bubble.Reward || b.Y > c.line()
	})
	if len(candidates) == 0 {
		return 0, false
	}
	lowest := slices.MaxFunc(candidates, func(a, b bubble.Bubble) int {
		return cmp.Compare(a.Y, b.Y)
	})
	return lowest.X, true
}

// wanderer jumps to a random point once per second.
type wanderer struct {
	field bubble.Field
	rng   *rand.Rand
	last  time.Duration
	at    bubble.Point
}

func (w *wanderer) Target(now time.Duration) (bubble.Point, bool) {
	if now-w.last >= time.Second {
		w.last = now
		w.at = bubble.Point{
			X: w.rng.Float64() * w.field.Width,
			Y: w.rng.Float64() * w.field.Height,
		}
	}
	return w.at, true
}
