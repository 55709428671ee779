package round

import (
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
)

// Phase is the round's lifecycle state.
type Phase uint8

const (
	Running Phase = iota
	Ended
)

func (p Phase) String() string {
	if p == Ended {
		return "ended"
	}
	return "running"
}

// State is the score and countdown singleton.
type State struct {
	Score            int
	SecondsRemaining int
	Phase            Phase
}

// Outbox collects what happened during one frame for the feedback system
// to publish at the end of it.
type Outbox struct {
	Events       []bubble.Event
	ScoreChanged bool
}

// Pace is the per-frame step budget derived from the scheduler delta.
type Pace struct {
	Steps float64
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[bubble.Bubble](registry)
	return registry
}
