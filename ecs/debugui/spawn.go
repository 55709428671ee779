package debugui

import (
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
	"github.com/plus3/dragonbubbles/tracker"
)

// RegisterDebugUIComponents registers every component and singleton the
// overlay uses.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
	ecs.RegisterComponent[Overlay](registry)
	ecs.RegisterComponent[RoundInspectorComponent](registry)
	ecs.RegisterComponent[BubbleTableComponent](registry)
	ecs.RegisterComponent[TrackerPanelComponent](registry)
}

// SpawnDebugUI creates the overlay windows. trackerStats may be nil when no
// pose server runs.
func SpawnDebugUI(storage *ecs.Storage, source RoundSource, field bubble.Field, trackerStats func() tracker.Stats) {
	ecs.NewSingleton[ImguiInputState](storage)
	ecs.NewSingleton[Overlay](storage)

	storage.Spawn(NewRoundInspectorComponent(source, field, 120))
	storage.Spawn(NewBubbleTableComponent(source))
	if trackerStats != nil {
		storage.Spawn(NewTrackerPanelComponent(trackerStats, 120))
	}
}

// RegisterSystems adds the overlay systems to a scheduler.
func RegisterSystems(scheduler *ecs.Scheduler) {
	scheduler.Register(&ImguiSystem{})
	scheduler.Register(&WindowsSystem{})
}
