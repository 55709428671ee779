package debugui

import (
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/round"
	"github.com/plus3/dragonbubbles/tracker"
)

// Inspectable is what the windows read. *round.Round satisfies it.
type Inspectable interface {
	Snapshot() round.Snapshot
	SchedulerStats() *ecs.SchedulerStats
	StorageStats() *ecs.StorageStats
}

// RoundSource returns the round currently on screen. Hosts that restart
// rounds hand out the newest one.
type RoundSource func() Inspectable

// RoundInspectorComponent shows score, timer and frame history along with
// the scheduler and storage stats.
type RoundInspectorComponent struct {
	source RoundSource
	field  bubble.Field
	frames *history
	scores *history
	timer  *FrameTimer
}

// BubbleTableComponent lists live bubbles.
type BubbleTableComponent struct {
	source     RoundSource
	filterText string
	sortColumn int
	descending bool
}

// TrackerPanelComponent shows pose server counters.
type TrackerPanelComponent struct {
	stats func() tracker.Stats
	rates *history
	last  uint64
}
